// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package loader

import "fmt"

type ArgumentError struct {
	Field string
	Err   error
}

func (r *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %v", r.Field, r.Err)
}

func (r *ArgumentError) Unwrap() error {
	return r.Err
}

func NewArgumentError(field string, err error) *ArgumentError {
	return &ArgumentError{
		Field: field,
		Err:   err,
	}
}

// DecodeError locates a failure in the original, unnormalized text.
type DecodeError struct {
	Line   int
	Column int
	Err    error
}

func (r *DecodeError) Error() string {
	return fmt.Sprintf("line %d, column %d: %v", r.Line, r.Column, r.Err)
}

func (r *DecodeError) Unwrap() error {
	return r.Err
}
