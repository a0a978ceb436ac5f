// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package jsonc

import (
	"errors"
	"fmt"
)

// ErrInvalidData is matched by every error reporting malformed input.
var ErrInvalidData = errors.New("invalid data")

type SyntaxError struct {
	// Offset is the stream offset of the offending byte, or the input length
	// when the input ended in a state that cannot end.
	Offset int64
	State  State
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("jsonc: %s at offset %d", e.Reason, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return ErrInvalidData
}

func newSyntaxError(offset int64, state State, reason string) *SyntaxError {
	return &SyntaxError{
		Offset: offset,
		State:  state,
		Reason: reason,
	}
}

// sourceError wraps a failure of the underlying byte source.
type sourceError struct {
	err error
}

func (e *sourceError) Error() string {
	return fmt.Sprintf("jsonc: read source: %v", e.err)
}

func (e *sourceError) Unwrap() []error {
	return []error{ErrInvalidData, e.err}
}
