// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"jsonstrip/normalizer/internal/jsonc"
)

// DecodeJSONC normalizes a copy of data and decodes it into v with encoding/json.
// Normalization keeps every byte offset and line break in place, so errors of
// either step are reported with the line and column of the original text.
func DecodeJSONC(data []byte, settings jsonc.CommentSettings, v any) error {
	normalized := make([]byte, len(data))
	copy(normalized, data)

	if err := jsonc.Strip(normalized, settings); err != nil {
		var syntaxErr *jsonc.SyntaxError
		if errors.As(err, &syntaxErr) {
			return newDecodeError(data, syntaxErr.Offset, err)
		}
		return err
	}

	if err := json.Unmarshal(normalized, v); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			// Offset counts the offending byte as read.
			return newDecodeError(data, syntaxErr.Offset-1, err)
		case errors.As(err, &typeErr):
			return newDecodeError(data, typeErr.Offset-1, err)
		}
		return err
	}

	return nil
}

func newDecodeError(data []byte, offset int64, err error) *DecodeError {
	line, column := Position(data, offset)
	return &DecodeError{
		Line:   line,
		Column: column,
		Err:    err,
	}
}

// Position converts a byte offset into a 1-based line and column.
func Position(data []byte, offset int64) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	head := data[:offset]
	line := bytes.Count(head, []byte{'\n'}) + 1
	column := len(head) - bytes.LastIndexByte(head, '\n')
	return line, column
}
