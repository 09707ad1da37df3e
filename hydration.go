package authflow

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/membercore/authflow/autherr"
)

// HydrationRequest asks the presentation layer to drive an embedded browser
// surface to URL in cookie-sharing mode. Exactly one of Finish, HTTPError,
// Fail, or Dismiss must be reported; later signals on the same request are
// ignored. At most one request is ever outstanding.
type HydrationRequest struct {
	ID  string
	URL string

	once   sync.Once
	result chan *autherr.Error
}

func newHydrationRequest(url string) *HydrationRequest {
	return &HydrationRequest{
		ID:     uuid.NewString(),
		URL:    url,
		result: make(chan *autherr.Error, 1),
	}
}

func (r *HydrationRequest) complete(err *autherr.Error) {
	r.once.Do(func() {
		r.result <- err
	})
}

// Finish reports that the surface finished loading the page (cookies set).
func (r *HydrationRequest) Finish() {
	r.complete(nil)
}

// HTTPError reports an HTTP error status from the surface.
func (r *HydrationRequest) HTTPError(status int, description string) {
	r.complete(autherr.New(autherr.IDHydrationFailed).
		WithMeta("status", strconv.Itoa(status)).
		WithMessage("cookie hydration failed: " + strconv.Itoa(status) + " " + description))
}

// Fail reports a generic load error from the surface.
func (r *HydrationRequest) Fail(description string) {
	err := autherr.New(autherr.IDHydrationFailed)
	if description != "" {
		err = err.WithMessage("cookie hydration failed: " + description)
	}
	r.complete(err)
}

// Dismiss reports that the user closed the surface before it settled.
func (r *HydrationRequest) Dismiss() {
	r.complete(autherr.New(autherr.IDHydrationCancelled))
}

type hydrationTask struct {
	req  *HydrationRequest
	done chan *autherr.Error
}

// hydrationQueue serializes hydration attempts: a single worker activates
// one task at a time, so concurrent login flows can never open two browser
// surfaces simultaneously. The second caller simply settles after the
// first's surface closes.
type hydrationQueue struct {
	cfg       HydrationConfig
	tasks     chan *hydrationTask
	requests  chan *HydrationRequest
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newHydrationQueue(cfg HydrationConfig) *hydrationQueue {
	if cfg.QueueBuffer <= 0 {
		cfg.QueueBuffer = 1
	}

	q := &hydrationQueue{
		cfg:      cfg,
		tasks:    make(chan *hydrationTask, cfg.QueueBuffer),
		requests: make(chan *HydrationRequest, 1),
		done:     make(chan struct{}),
	}

	q.wg.Add(1)
	go q.run()

	return q
}

func (q *hydrationQueue) run() {
	defer q.wg.Done()

	for {
		select {
		case t := <-q.tasks:
			t.done <- q.activate(t.req)
		case <-q.done:
			for {
				select {
				case t := <-q.tasks:
					t.done <- autherr.New(autherr.IDHydrationCancelled).WithCause(ErrEngineClosed)
				default:
					return
				}
			}
		}
	}
}

// activate publishes the request to the presentation layer and blocks until
// the surface settles it, the configured load timeout elapses, or the queue
// shuts down. Only one activation exists at a time by construction.
func (q *hydrationQueue) activate(req *HydrationRequest) *autherr.Error {
	var timeout <-chan time.Time
	if q.cfg.LoadTimeout > 0 {
		timer := time.NewTimer(q.cfg.LoadTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case q.requests <- req:
	case <-timeout:
		req.complete(autherr.New(autherr.IDHydrationTimeout))
		return autherr.New(autherr.IDHydrationTimeout)
	case <-q.done:
		return autherr.New(autherr.IDHydrationCancelled).WithCause(ErrEngineClosed)
	}

	select {
	case err := <-req.result:
		return err
	case <-timeout:
		// The surface may still signal later; complete() makes that a no-op.
		req.complete(autherr.New(autherr.IDHydrationTimeout))
		return <-req.result
	case <-q.done:
		req.complete(autherr.New(autherr.IDHydrationCancelled).WithCause(ErrEngineClosed))
		return <-req.result
	}
}

// enqueue blocks the caller until its task settles. An empty URL resolves
// immediately: there is nothing to hydrate.
func (q *hydrationQueue) enqueue(ctx context.Context, url string) *autherr.Error {
	if url == "" {
		return nil
	}

	t := &hydrationTask{
		req:  newHydrationRequest(url),
		done: make(chan *autherr.Error, 1),
	}

	select {
	case q.tasks <- t:
	case <-ctx.Done():
		return autherr.New(autherr.IDHydrationCancelled).WithCause(ctx.Err())
	case <-q.done:
		return autherr.New(autherr.IDHydrationCancelled).WithCause(ErrEngineClosed)
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		// The worker still owns the task; let it settle without us.
		return autherr.New(autherr.IDHydrationCancelled).WithCause(ctx.Err())
	}
}

func (q *hydrationQueue) Close() {
	if q == nil {
		return
	}
	q.closeOnce.Do(func() {
		close(q.done)
		q.wg.Wait()
	})
}
