// Copyright (c) Microsoft Corporation.
// Licensed under the MIT License.

package jsonc

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockReader is a mock of io.Reader interface.
type MockReader struct {
	ctrl     *gomock.Controller
	recorder *MockReaderMockRecorder
}

// MockReaderMockRecorder is the mock recorder for MockReader.
type MockReaderMockRecorder struct {
	mock *MockReader
}

// NewMockReader creates a new mock instance.
func NewMockReader(ctrl *gomock.Controller) *MockReader {
	mock := &MockReader{ctrl: ctrl}
	mock.recorder = &MockReaderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReader) EXPECT() *MockReaderMockRecorder {
	return m.recorder
}

// Read mocks base method.
func (m *MockReader) Read(arg0 []byte) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Read", arg0)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Read indicates an expected call of Read.
func (mr *MockReaderMockRecorder) Read(arg0 interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Read", reflect.TypeOf((*MockReader)(nil).Read), arg0)
}

// chunkReader returns data in pieces of at most size bytes.
type chunkReader struct {
	data []byte
	size int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.size
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func stripReader(t *testing.T, r io.Reader, settings CommentSettings) (string, error) {
	t.Helper()
	out, err := io.ReadAll(NewReader(r, settings))
	return string(out), err
}

func TestReaderMatchesStrip(t *testing.T) {
	inputs := append([]string{
		`{/* Comment */"hi": /** abc */ "bye"}`,
		`[1,/* a comment after a trailing comma */]`,
		"[1,\n\n\n// x\n\n]",
		`[1,,]`,
	}, propertyInputs...)

	for _, input := range inputs {
		expected, err := StripString(input, DefaultSettings())
		require.NoError(t, err)

		for size := 1; size <= len(input); size++ {
			out, err := stripReader(t, &chunkReader{data: []byte(input), size: size}, DefaultSettings())
			require.NoError(t, err, "chunk size %d", size)
			assert.Equal(t, expected, out, "chunk size %d of %q", size, input)
		}

		out, err := stripReader(t, iotest.OneByteReader(strings.NewReader(input)), DefaultSettings())
		require.NoError(t, err)
		assert.Equal(t, expected, out)

		out, err = stripReader(t, iotest.DataErrReader(strings.NewReader(input)), DefaultSettings())
		require.NoError(t, err)
		assert.Equal(t, expected, out)
	}
}

func TestReaderTrailingCommaAcrossReads(t *testing.T) {
	out, err := stripReader(t, &chunkReader{data: []byte("[1, /* x */\n]"), size: 2}, DefaultSettings())
	assert.NoError(t, err)
	assert.Equal(t, "[1         \n]", out)
}

func TestReaderSmallBuffer(t *testing.T) {
	input := `{/* Comment that spans multiple reads */ "key": "value",}`
	reader := NewReader(strings.NewReader(input), DefaultSettings())
	buf := make([]byte, 10)
	var result []byte
	for {
		n, err := reader.Read(buf)
		result = append(result, buf[:n]...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}
	expected, err := StripString(input, DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, expected, string(result))
	assert.Contains(t, string(result), `"key": "value" }`)
}

func TestReaderReadFull(t *testing.T) {
	reader := NewReader(strings.NewReader(`{"a": 1, /* comment */ "b": 2}`), DefaultSettings())
	buf := make([]byte, 5)
	_, err := io.ReadFull(reader, buf)
	assert.NoError(t, err)
	assert.Equal(t, `{"a":`, string(buf))
}

func TestReaderZeroSizedRead(t *testing.T) {
	reader := NewReader(strings.NewReader(`{"key": "value"}`), DefaultSettings())
	n, err := reader.Read(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReaderEmptyInput(t *testing.T) {
	out, err := stripReader(t, strings.NewReader(""), DefaultSettings())
	assert.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestReaderInvalidAtEndOfInput(t *testing.T) {
	for _, input := range []string{`"foo`, "/* foo ", "/* foo *", "[] /*", "[] */", `{"a": 1} /* block at end`} {
		_, err := stripReader(t, &chunkReader{data: []byte(input), size: 3}, DefaultSettings())
		assert.ErrorIs(t, err, ErrInvalidData, input)
	}

	out, err := stripReader(t, strings.NewReader(`{"a": 1} // comment at end`), DefaultSettings())
	assert.NoError(t, err)
	assert.Equal(t, `{"a": 1}                  `, out)
}

func TestReaderInvalidCommentOpener(t *testing.T) {
	_, err := stripReader(t, strings.NewReader("[1] /x"), DefaultSettings())
	var syntaxErr *SyntaxError
	require.True(t, errors.As(err, &syntaxErr))
	assert.Equal(t, int64(5), syntaxErr.Offset)
}

func TestReaderSourceError(t *testing.T) {
	mockCtrl := gomock.NewController(t)
	defer mockCtrl.Finish()

	sourceErr := errors.New("a fake error")
	source := NewMockReader(mockCtrl)
	gomock.InOrder(
		source.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
			return copy(p, `{"a": 1, // c`), nil
		}),
		source.EXPECT().Read(gomock.Any()).Return(0, sourceErr),
	)

	reader := NewReader(source, DefaultSettings())
	buf := make([]byte, 64)
	n, err := reader.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, `{"a": 1`, string(buf[:n]))

	_, err = reader.Read(buf)
	assert.ErrorIs(t, err, ErrInvalidData)
	assert.ErrorIs(t, err, sourceErr)

	// The failure is sticky.
	_, err = reader.Read(buf)
	assert.ErrorIs(t, err, sourceErr)
}

func TestScannerEverySplit(t *testing.T) {
	for _, input := range propertyInputs {
		expected, err := StripString(input, DefaultSettings())
		require.NoError(t, err)

		for split := 0; split <= len(input); split++ {
			data := []byte(input)
			s := NewScanner(DefaultSettings())

			settled, err := s.Scan(data[:split])
			require.NoError(t, err)
			require.Equal(t, split-settled, s.Held())
			require.Equal(t, int64(settled), s.Offset())

			_, err = s.Scan(data[settled:])
			require.NoError(t, err)
			require.NoError(t, s.Finish())
			assert.Equal(t, expected, string(data), "split at %d", split)
		}
	}
}

func TestScannerShortWindow(t *testing.T) {
	s := NewScanner(DefaultSettings())
	settled, err := s.Scan([]byte("[1, "))
	require.NoError(t, err)
	assert.Equal(t, 2, settled)

	_, err = s.Scan([]byte(","))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidData)
}

// A comma followed by a long comment is held until the closing bracket. The
// held region must grow geometrically, like the no-comma case, instead of
// being copied on every source read.
func TestReaderLongCommentAfterComma(t *testing.T) {
	comment := "/*" + strings.Repeat("x", 4<<20) + "*/"
	withComma := []byte("[1," + comment + "]")
	withoutComma := []byte("[1 " + comment + "]")

	expected, err := StripString(string(withComma), DefaultSettings())
	require.NoError(t, err)

	drain := func(input []byte, size int) func() {
		buf := make([]byte, size)
		return func() {
			reader := NewReader(bytes.NewReader(input), DefaultSettings())
			for {
				_, err := reader.Read(buf)
				if err == io.EOF {
					return
				}
				require.NoError(t, err)
			}
		}
	}

	allocsWithComma := testing.AllocsPerRun(1, drain(withComma, 32<<10))
	allocsWithoutComma := testing.AllocsPerRun(1, drain(withoutComma, 32<<10))
	assert.Less(t, allocsWithComma, 64.0)
	assert.Less(t, allocsWithoutComma, 64.0)

	// The held region is handed out in small pieces.
	out, err := io.ReadAll(iotest.HalfReader(NewReader(bytes.NewReader(withComma), DefaultSettings())))
	require.NoError(t, err)
	assert.Equal(t, expected, string(out))
	assert.Equal(t, "[1 ", string(out[:3]))
	assert.Equal(t, len(withComma), len(out))
}
