package services

import (
	"context"
	"errors"
	"fmt"
)

const (
	KindFetch                = "fetch_error"
	KindUnsupportedFormat    = "unsupported_format"
	KindModelInvocation      = "model_invocation"
	KindMalformedModelOutput = "malformed_model_output"
	KindTimeout              = "timeout"
	KindInternal             = "internal"
)

// FetchError means a document reference could not be downloaded.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch document %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is reported for document formats the service cannot
// store or extract. Extraction degrades to sentinel text instead of propagating it.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %s", e.Format)
}

// ModelInvocationError wraps a failed or timed out generative model call.
type ModelInvocationError struct {
	Op  string
	Err error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed (%s): %v", e.Op, e.Err)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Err
}

// MalformedModelOutputError means the model answered but not in the required shape.
type MalformedModelOutputError struct {
	Op  string
	Raw string
	Err error
}

func (e *MalformedModelOutputError) Error() string {
	return fmt.Sprintf("malformed model output (%s): %v", e.Op, e.Err)
}

func (e *MalformedModelOutputError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies err into one of the Kind* constants.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var malformed *MalformedModelOutputError
	var model *ModelInvocationError
	var fetch *FetchError
	var unsupported *UnsupportedFormatError

	switch {
	case errors.As(err, &malformed):
		return KindMalformedModelOutput
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &model):
		return KindModelInvocation
	case errors.As(err, &fetch):
		return KindFetch
	case errors.As(err, &unsupported):
		return KindUnsupportedFormat
	default:
		return KindInternal
	}
}
