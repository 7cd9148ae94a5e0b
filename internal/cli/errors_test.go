package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rshade/amlscreen/internal/screening"
)

func TestExitCode(t *testing.T) {
	match := &MatchFoundError{ExitCode: ExitCodeMatchFound, Caption: "Jane Roe", Tier: "High Match"}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain error", errors.New("boom"), 1},
		{"match", match, ExitCodeMatchFound},
		{"wrapped match", fmt.Errorf("search: %w", match), ExitCodeMatchFound},
		{"match without code", &MatchFoundError{}, 1},
		{"lookup failure", &LookupFailedError{Message: screening.MessageServer, Err: screening.ErrServer}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestLookupFailedError(t *testing.T) {
	err := &LookupFailedError{Message: screening.MessageNotFound, Err: screening.ErrNotFound}
	assert.Equal(t, screening.MessageNotFound, err.Error())
	assert.ErrorIs(t, err, screening.ErrNotFound)
}

func TestMatchFoundError_Message(t *testing.T) {
	err := &MatchFoundError{ExitCode: 2, Caption: "Jane Roe", Tier: "High Match"}
	assert.Equal(t, "match found: Jane Roe (High Match)", err.Error())
}
