package rpcerrors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "rpc error is returned as is",
			err:      UserRejectedRequest(),
			wantCode: CodeUserRejectedRequest,
			wantMsg:  "User rejected the request.",
		},
		{
			name:     "fmt wrapped rpc error is unwrapped",
			err:      fmt.Errorf("request permissions: %w", ResourceUnavailable("busy")),
			wantCode: CodeResourceUnavailable,
			wantMsg:  "busy",
		},
		{
			name:     "pkg/errors wrapped rpc error is unwrapped",
			err:      errors.Wrap(Unauthorized(), "lookup"),
			wantCode: CodeUnauthorized,
		},
		{
			name:     "plain error becomes internal",
			err:      errors.New("boom"),
			wantCode: CodeInternal,
			wantMsg:  "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCode, got.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, got.Message)
			}
		})
	}

	assert.Nil(t, FromError(nil))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ResourceUnavailable("Already processing eth_requestAccounts. Please wait."))
	assert.True(t, IsCode(err, CodeResourceUnavailable))
	assert.False(t, IsCode(err, CodeUserRejectedRequest))
	assert.False(t, IsCode(errors.New("plain"), CodeInternal))
}
