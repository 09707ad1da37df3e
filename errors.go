package authflow

import "errors"

var (
	// ErrEngineNotReady is an exported constant or variable used by the session orchestrator.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrEngineClosed is an exported constant or variable used by the session orchestrator.
	ErrEngineClosed = errors.New("engine closed")
	// ErrStoreRequired is an exported constant or variable used by the session orchestrator.
	ErrStoreRequired = errors.New("session store required")
	// ErrIdentityClientRequired is an exported constant or variable used by the session orchestrator.
	ErrIdentityClientRequired = errors.New("identity client required")
	// ErrBuilderUsed is an exported constant or variable used by the session orchestrator.
	ErrBuilderUsed = errors.New("builder already used")
)
