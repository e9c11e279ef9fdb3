package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsMessageFromKind(t *testing.T) {
	err := New(KindConfiguration, "")

	assert.NotEmpty(t, err.Message)
	assert.Equal(t, err.Message, err.Error())
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("503 backend unavailable")
	err := Wrap(KindRemoteUnavailable, "failed to read bikes", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "failed to read bikes: 503 backend unavailable", err.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		want   Kind
		wantOK bool
	}{
		{name: "nil", err: nil},
		{name: "plain", err: errors.New("boom")},
		{name: "direct", err: New(KindNotFound, "gone"), want: KindNotFound, wantOK: true},
		{
			name:   "wrapped",
			err:    fmt.Errorf("toggle: %w", New(KindValidation, "bad id")),
			want:   KindValidation,
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := KindOf(tt.err)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestAs(t *testing.T) {
	assert.Nil(t, As(nil, KindRemoteUnavailable, "unused"))

	existing := New(KindCredentials, "")
	assert.Same(t, existing, As(fmt.Errorf("open: %w", existing), KindRemoteUnavailable, "unused"))

	wrapped := As(errors.New("timeout"), KindRemoteUnavailable, "spreadsheet call failed")
	assert.Equal(t, KindRemoteUnavailable, wrapped.Kind)
	assert.Equal(t, "spreadsheet call failed", wrapped.Message)
}
