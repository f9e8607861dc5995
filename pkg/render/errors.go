package render

import (
	"errors"
	"fmt"
)

// Sentinel errors for the renderer failure modes.
var (
	// ErrBackendUnavailable indicates the requested backend cannot run on
	// this host (missing binary, missing browser, unknown name).
	ErrBackendUnavailable = errors.New("render: backend unavailable")

	// ErrConversionFailed indicates the backend started but failed to
	// produce a document.
	ErrConversionFailed = errors.New("render: conversion failed")

	// ErrInvalidMarkup indicates the input markup was rejected before any
	// conversion was attempted.
	ErrInvalidMarkup = errors.New("render: invalid markup")
)

// RenderError carries the failing backend alongside one of the sentinel
// errors above.
type RenderError struct {
	Backend Backend
	Message string
	Err     error
}

func (e *RenderError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("render backend %q: %s", e.Backend, e.Message)
	}
	return fmt.Sprintf("render: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
