// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package jsonc

import (
	"errors"
	"io"
	"slices"
)

const minCarryRead = 512

// Reader is an io.Reader that blanks comments and trailing commas of another
// io.Reader, so that a downstream JSON decoder doesn't choke on them.
//
// Bytes are read from the source straight into the caller's buffer and
// rewritten there. A comma that may turn out to be trailing is held back,
// together with the whitespace and comments after it, until the next
// significant byte is seen.
type Reader struct {
	src     io.Reader
	scanner *Scanner
	// carry[head:head+ready] is final and not yet returned; carry[head+ready:]
	// is held by the scanner.
	carry []byte
	head  int
	ready int
	err   error
}

func NewReader(r io.Reader, settings CommentSettings) *Reader {
	return &Reader{
		src:     r,
		scanner: NewScanner(settings),
	}
}

func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if r.ready > 0 {
			n := copy(p, r.carry[r.head:r.head+r.ready])
			r.head += n
			r.ready -= n
			if r.head == len(r.carry) {
				r.carry = r.carry[:0]
				r.head = 0
			}
			return n, nil
		}
		if r.err != nil {
			return 0, r.err
		}

		if len(r.carry) == 0 {
			n, err := r.src.Read(p)
			if n > 0 {
				settled, serr := r.scanner.Scan(p[:n])
				if serr != nil {
					r.err = serr
					return 0, serr
				}
				r.carry = append(r.carry, p[settled:n]...)
				if err != nil {
					r.finish(err)
				}
				if settled > 0 {
					return settled, nil
				}
				continue
			}
			if err != nil {
				r.finish(err)
			}
			continue
		}

		// Held bytes pending: extend the window behind them. Once the ready
		// bytes in front of them are drained they move to the front, which
		// copies at most one source read.
		if r.head > 0 {
			r.carry = r.carry[:copy(r.carry, r.carry[r.head:])]
			r.head = 0
		}
		held := len(r.carry)
		want := max(len(p), minCarryRead)
		r.carry = slices.Grow(r.carry, want)
		n, err := r.src.Read(r.carry[held : held+want])
		r.carry = r.carry[:held+n]
		if n > 0 {
			settled, serr := r.scanner.Scan(r.carry)
			if serr != nil {
				r.err = serr
				return 0, serr
			}
			r.ready = settled
		}
		if err != nil {
			r.finish(err)
		}
	}
}

// finish records the terminal condition once the source stops producing bytes.
func (r *Reader) finish(err error) {
	if !errors.Is(err, io.EOF) {
		r.err = &sourceError{err: err}
		return
	}
	if ferr := r.scanner.Finish(); ferr != nil {
		r.err = ferr
		return
	}
	r.ready = len(r.carry) - r.head
	r.err = io.EOF
}
