package coros

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultZeroValueNotReady(t *testing.T) {
	var r Result[int]
	assert.False(t, r.Ready())
	_, err := r.Get()
	assert.ErrorIs(t, err, ErrResultNotReady)
	assert.Panics(t, func() { r.MustGet() })
}

func TestResultValue(t *testing.T) {
	r := newValueResult(42)
	assert.True(t, r.Ready())
	v, err := r.Get()
	assert.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 42, r.MustGet())
}

func TestResultError(t *testing.T) {
	want := errors.New("boom")
	r := newErrResult[int](want)
	assert.True(t, r.Ready())
	_, err := r.Get()
	assert.ErrorIs(t, err, want)
	assert.Panics(t, func() { r.MustGet() })
}

func TestPanicErrorUnwrapsErrorCause(t *testing.T) {
	cause := errors.New("root cause")
	pe := &PanicError{Value: cause}
	assert.ErrorIs(t, pe, cause)
}

func TestPanicErrorUnwrapsNilForNonError(t *testing.T) {
	pe := &PanicError{Value: "not an error"}
	assert.Nil(t, pe.Unwrap())
	assert.Contains(t, pe.Error(), "not an error")
}
