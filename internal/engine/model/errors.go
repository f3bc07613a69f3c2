package model

import (
	"errors"
	"fmt"
)

// Scene load failures. A SceneLoadError wraps one of these or the parser's error.
var (
	ErrNilScene        = errors.New("parser returned no scene")
	ErrIncompleteScene = errors.New("scene is incomplete")
	ErrNoRootNode      = errors.New("scene has no root node")
	ErrMeshIndex       = errors.New("mesh index out of range")
)

// SceneLoadError reports a scene that could not be turned into a model.
// No partial model is ever returned alongside it.
type SceneLoadError struct {
	Path string
	Err  error
}

func (e *SceneLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *SceneLoadError) Unwrap() error {
	return e.Err
}
