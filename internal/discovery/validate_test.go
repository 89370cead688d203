package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePort(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"1", true},
		{"3000", true},
		{" 8080 ", true},
		{"65535", true},
		{"0", false},
		{"65536", false},
		{"99999", false},
		{"-1", false},
		{"", false},
		{"abc", false},
		{"80a", false},
		{"3000.5", false},
		{"+80", false},
		{"+3000", false},
		{"0x50", false},
		{"0080", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidatePort(tt.input)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidPort)
		})
	}
}

func TestInvalidPortMessage(t *testing.T) {
	assert.EqualError(t, ValidatePort("99999"), "Please enter a valid port number (1-65535)")
}

func TestParsePort(t *testing.T) {
	port, err := ParsePort(" 4321")
	assert.NoError(t, err)
	assert.Equal(t, 4321, port)
}
