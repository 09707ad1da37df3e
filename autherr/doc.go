// Package autherr defines the closed catalog of typed authentication errors
// and the normalization entry point that every engine flow funnels failures
// through. Each identifier maps to a stable short code and a default display
// message; the UI layer branches on the identifier while a localization
// layer may replace the message.
package autherr
