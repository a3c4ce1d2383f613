package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", Validation("name is required"), CodeValidation},
		{"wrapped conflict", fmt.Errorf("create client: %w", Conflict("email taken")), CodeConflict},
		{"plain error", errors.New("disk full"), CodeStore},
		{"mail", MailFailure("send failed", errors.New("535 auth")), CodeMail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := StoreFailure("Failed to fetch clients", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, CodeStore))
	assert.False(t, IsCode(err, CodeNotFound))
	assert.Contains(t, err.Error(), "connection reset")
}
