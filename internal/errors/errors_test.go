package errors

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NotFound("bulk type \"x\" not offered", nil)

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrDecode))

	wrapped := fmt.Errorf("resolve: %w", err)
	assert.True(t, Is(wrapped, ErrNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestError_UnwrapKeepsCause(t *testing.T) {
	err := IO("write asset", io.ErrShortWrite)

	assert.True(t, Is(err, io.ErrShortWrite))
	assert.True(t, Is(err, ErrIO))
	assert.Equal(t, "write asset: short write", err.Error())
}

func TestCodeOf_PlainError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(New("plain")))
	assert.Equal(t, Code(""), CodeOf(nil))
}
