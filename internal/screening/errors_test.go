package screening

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindAuthentication},
		{404, KindNotFound},
		{500, KindServer},
		{502, KindServer},
		{503, KindServer},
		{400, KindHTTP},
		{403, KindHTTP},
		{418, KindHTTP},
		{429, KindHTTP},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status %d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStatus(tt.status))
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", NewStatusError(401), MessageAuthentication},
		{"not found", NewStatusError(404), MessageNotFound},
		{"server error", NewStatusError(503), MessageServer},
		{"other status", NewStatusError(418), "HTTP error! status: 418"},
		{"transport", NewTransportError(errors.New("dial tcp: connection refused")), "dial tcp: connection refused"},
		{"wrapped upstream", fmt.Errorf("lookup: %w", NewStatusError(401)), MessageAuthentication},
		{"validation", &ValidationError{Field: "name", Message: "Name is required."}, "Name is required."},
		{"plain error", errors.New("boom"), "boom"},
		{"nil", nil, MessageFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Humanize(tt.err))
		})
	}
}

func TestUpstreamError_Is(t *testing.T) {
	assert.ErrorIs(t, NewStatusError(401), ErrAuthentication)
	assert.ErrorIs(t, NewStatusError(404), ErrNotFound)
	assert.ErrorIs(t, NewStatusError(500), ErrServer)
	assert.ErrorIs(t, NewStatusError(409), ErrHTTP)
	assert.ErrorIs(t, NewTransportError(errors.New("x")), ErrTransport)
	assert.NotErrorIs(t, NewStatusError(401), ErrServer)

	inner := errors.New("reset by peer")
	assert.ErrorIs(t, NewTransportError(inner), inner)
}

func TestUpstreamError_Error(t *testing.T) {
	assert.Contains(t, NewStatusError(401).Error(), "authentication")
	assert.Contains(t, NewStatusError(401).Error(), "401")
	assert.Contains(t, NewTransportError(errors.New("eof")).Error(), "eof")
}
