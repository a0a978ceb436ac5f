// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package jsonc

import (
	"bytes"
	"fmt"
)

// State is the lexical state of a Scanner between two bytes.
type State uint8

const (
	Top State = iota
	InString
	StringEscape
	// InComment follows a '/' that has not yet been identified as // or /*.
	InComment
	InBlockComment
	MaybeBlockCommentEnd
	InLineComment
)

var stateNames = [...]string{
	Top:                  "Top",
	InString:             "InString",
	StringEscape:         "StringEscape",
	InComment:            "InComment",
	InBlockComment:       "InBlockComment",
	MaybeBlockCommentEnd: "MaybeBlockCommentEnd",
	InLineComment:        "InLineComment",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// CanEnd reports whether the input may legally end in state s. A line
// comment simply runs to the end of the text.
func (s State) CanEnd() bool {
	return s == Top || s == InLineComment
}

func (s State) unterminatedReason() string {
	switch s {
	case InString, StringEscape:
		return "unterminated string"
	case InComment:
		return "incomplete comment opener"
	default:
		return "unterminated block comment"
	}
}

// Scanner blanks comments and trailing commas across successive windows of
// one stream.
//
// A trailing comma can only be recognized once the next significant byte is
// known. When a window ends while a comma is pending, Scan returns the index of
// that comma as the settled count. The unsettled bytes window[settled:] have
// already been processed and must be passed again, unchanged, as the prefix of
// the next window; Scan resumes after them and never rescans them.
type Scanner struct {
	settings CommentSettings
	state    State
	// held is the number of already scanned bytes at the start of the next window.
	held int
	// offset is the stream offset of the next window's first byte.
	offset int64
	err    error
}

func NewScanner(settings CommentSettings) *Scanner {
	return &Scanner{settings: settings}
}

func (s *Scanner) State() State {
	return s.state
}

// Offset returns the stream offset of the first unsettled byte.
func (s *Scanner) Offset() int64 {
	return s.offset
}

// Held returns how many unsettled bytes must prefix the next window.
func (s *Scanner) Held() int {
	return s.held
}

// Scan processes window in place and returns the number of leading bytes whose
// content is final. Errors are sticky.
func (s *Scanner) Scan(window []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(window) < s.held {
		return 0, fmt.Errorf("jsonc: window of %d bytes is shorter than the %d carried bytes", len(window), s.held)
	}

	comma := -1
	if s.held > 0 {
		comma = 0
	}
	state := s.state
	n := len(window)
	i := s.held
	for i < n {
		c := window[i]
		switch state {
		case Top:
			switch c {
			case '"':
				state = InString
				comma = -1
			case '/':
				if !s.settings.slashComments() {
					comma = -1
					break
				}
				window[i] = ' '
				state = InComment
			case '#':
				if !s.settings.HashLineComments {
					comma = -1
					break
				}
				window[i] = ' '
				state = InLineComment
			case ',':
				comma = -1
				if s.settings.TrailingCommas {
					comma = i
				}
			case '}', ']':
				if comma >= 0 {
					window[comma] = ' '
					comma = -1
				}
			case ' ', '\t', '\n', '\r', '\f':
			default:
				comma = -1
			}
		case InString:
			j := bytes.IndexAny(window[i:], "\"\\")
			if j < 0 {
				i = n
				continue
			}
			i += j
			if window[i] == '"' {
				state = Top
			} else {
				state = StringEscape
			}
		case StringEscape:
			state = InString
		case InComment:
			switch {
			case c == '*' && s.settings.BlockComments:
				state = InBlockComment
			case c == '/' && s.settings.SlashLineComments:
				state = InLineComment
			default:
				s.state = state
				s.err = newSyntaxError(s.offset+int64(i), state, fmt.Sprintf("unexpected %q after '/'", c))
				return 0, s.err
			}
			window[i] = ' '
		case InBlockComment:
			j := bytes.IndexByte(window[i:], '*')
			if j < 0 {
				blank(window[i:])
				i = n
				continue
			}
			blank(window[i : i+j+1])
			i += j + 1
			state = MaybeBlockCommentEnd
			continue
		case MaybeBlockCommentEnd:
			switch c {
			case '/':
				state = Top
			case '*':
			default:
				state = InBlockComment
			}
			blank(window[i : i+1])
		case InLineComment:
			j := bytes.IndexByte(window[i:], '\n')
			if j < 0 {
				blank(window[i:])
				i = n
				continue
			}
			blank(window[i : i+j])
			i += j + 1
			state = Top
			continue
		}
		i++
	}

	s.state = state
	settled := n
	if comma >= 0 {
		settled = comma
	}
	s.held = n - settled
	s.offset += int64(settled)
	return settled, nil
}

// Finish marks the end of input. Carried bytes become settled unchanged, since
// no closing bracket follows the pending comma. It fails when the stream
// ended inside a string, a block comment or a bare '/'.
func (s *Scanner) Finish() error {
	if s.err != nil {
		return s.err
	}
	s.offset += int64(s.held)
	s.held = 0
	if !s.state.CanEnd() {
		s.err = newSyntaxError(s.offset, s.state, s.state.unterminatedReason())
		return s.err
	}
	return nil
}

// blank replaces every byte of b with a space, except line breaks.
func blank(b []byte) {
	for i, c := range b {
		if c != '\n' && c != '\r' {
			b[i] = ' '
		}
	}
}
