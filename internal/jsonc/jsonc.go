// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

// Package jsonc provides support for parsing JSON with comments (JSONC).
// Comments and trailing commas are replaced in place with spaces so the text
// keeps its length and line structure and can be handed to encoding/json.
//
// The following are recognized outside string literals:
//   - C style block comments (/* ... */)
//   - C style line comments (// ...)
//   - Shell style line comments (# ...)
//   - Trailing commas before } or ]
package jsonc

// CommentSettings selects which categories of non-standard syntax are blanked.
type CommentSettings struct {
	// BlockComments enables /* ... */ comments.
	BlockComments bool
	// SlashLineComments enables // line comments.
	SlashLineComments bool
	// HashLineComments enables # line comments.
	HashLineComments bool
	// TrailingCommas enables removal of a comma followed only by whitespace
	// and comments before a closing bracket.
	TrailingCommas bool
}

// AllEnabled blanks every supported comment style and trailing commas.
func AllEnabled() CommentSettings {
	return CommentSettings{
		BlockComments:     true,
		SlashLineComments: true,
		HashLineComments:  true,
		TrailingCommas:    true,
	}
}

// HashOnly blanks shell style comments only; trailing commas are kept.
func HashOnly() CommentSettings {
	return CommentSettings{HashLineComments: true}
}

// CStyle blanks block and // comments and trailing commas, but not # comments.
func CStyle() CommentSettings {
	return CommentSettings{
		BlockComments:     true,
		SlashLineComments: true,
		TrailingCommas:    true,
	}
}

func DefaultSettings() CommentSettings {
	return AllEnabled()
}

func (c CommentSettings) slashComments() bool {
	return c.BlockComments || c.SlashLineComments
}

// Strip blanks comments and trailing commas of buf in place. The end of buf is
// treated as the end of input, so an unterminated string or block comment is
// reported as an error. On error buf may already be partially rewritten.
func Strip(buf []byte, settings CommentSettings) error {
	s := NewScanner(settings)
	if _, err := s.Scan(buf); err != nil {
		return err
	}
	return s.Finish()
}

// StripComments returns a copy of data with comments and trailing commas
// replaced by spaces, using the default settings.
func StripComments(data []byte) ([]byte, error) {
	result := make([]byte, len(data))
	copy(result, data)
	if err := Strip(result, DefaultSettings()); err != nil {
		return nil, err
	}
	return result, nil
}

// StripString is Strip for string inputs.
func StripString(s string, settings CommentSettings) (string, error) {
	buf := []byte(s)
	if err := Strip(buf, settings); err != nil {
		return "", err
	}
	return string(buf), nil
}
