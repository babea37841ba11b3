package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_RegisterRequest(t *testing.T) {
	v := GetValidator()

	tests := []struct {
		name    string
		req     RegisterUserRequest
		wantErr bool
	}{
		{"valid", RegisterUserRequest{UserID: 1, Username: "alice"}, false},
		{"empty username keeps stored one", RegisterUserRequest{UserID: 1}, false},
		{"unicode name", RegisterUserRequest{UserID: 1, Username: "Zoë ✨"}, false},
		{"max length", RegisterUserRequest{UserID: 1, Username: strings.Repeat("a", 64)}, false},
		{"too long", RegisterUserRequest{UserID: 1, Username: strings.Repeat("a", 65)}, true},
		{"control characters", RegisterUserRequest{UserID: 1, Username: "bad\nname"}, true},
		{"missing user id", RegisterUserRequest{Username: "alice"}, true},
		{"negative user id", RegisterUserRequest{UserID: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateStruct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidator_BalanceRequest(t *testing.T) {
	v := GetValidator()

	err := v.ValidateStruct(AdminBalanceRequest{AdminID: 1, UserID: 2, Amount: 0, Reason: "  "})
	require.Error(t, err)

	fields := FormatValidationError(err)
	assert.Equal(t, "Must not be 0", fields["amount"])
	assert.Equal(t, "This field is required", fields["reason"])

	assert.NoError(t, v.ValidateStruct(AdminBalanceRequest{AdminID: 1, UserID: 2, Amount: -50, Reason: "refund"}))
}

func TestFormatValidationError_NonValidatorError(t *testing.T) {
	assert.Nil(t, FormatValidationError(nil))
	assert.Equal(t, map[string]string{"error": "Invalid request format"}, FormatValidationError(assert.AnError))
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "user_id", toSnake("UserID"))
	assert.Equal(t, "admin_id", toSnake("AdminID"))
	assert.Equal(t, "amount", toSnake("Amount"))
}
