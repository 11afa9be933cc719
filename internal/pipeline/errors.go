package pipeline

import (
	"errors"
	"fmt"
)

const (
	STAGE_BUILD   = "build"
	STAGE_COLLECT = "collect"
	STAGE_WRITE   = "write"
	STAGE_READ    = "read"
	STAGE_ANALYZE = "analyze"
	STAGE_RENDER  = "render"
	STAGE_PUBLISH = "publish"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrCollection    = errors.New("collection error")
	ErrPersistence   = errors.New("persistence error")
	ErrInference     = errors.New("inference error")
	ErrRender        = errors.New("render error")
	ErrPublish       = errors.New("publish error")
)

// StageError is returned by Build and Run. errors.Is matches both its Kind
// and the underlying cause.
type StageError struct {
	Stage string
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed (%v): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func stageError(stage string, kind, err error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Err: err}
}
