package errors

import (
	stderrors "errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCodeOfWrappedAppError(t *testing.T) {
	base := DataUnavailable("diamonds", fs.ErrNotExist)
	wrapped := Wrap(base, "load dataset")

	assert.Equal(t, CodeDataUnavailable, GetCode(wrapped))
	assert.True(t, stderrors.Is(wrapped, fs.ErrNotExist))
	assert.Contains(t, wrapped.Error(), "load dataset")
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	wrapped := Wrapf(stderrors.New("boom"), "chart %d", 3)

	assert.Equal(t, CodeInternalError, GetCode(wrapped))
	assert.Equal(t, "chart 3: boom", wrapped.Error())
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestHasCode_FindsInnerCode(t *testing.T) {
	inner := SerializationUnsupported("ragged row")
	outer := Wrap(WithCode(CodeRenderFailed, stderrors.New("x")), "outer")

	assert.True(t, HasCode(Wrap(inner, "describe"), CodeSerializationUnsupported))
	assert.False(t, HasCode(outer, CodeSerializationUnsupported))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
