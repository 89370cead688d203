package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromGOOS(t *testing.T) {
	tests := []struct {
		goos     string
		expected Platform
	}{
		{"windows", Windows},
		{"linux", Posix},
		{"darwin", Posix},
		{"freebsd", Posix},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromGOOS(tt.goos))
		})
	}
}

func TestPlatformString(t *testing.T) {
	assert.Equal(t, "posix", Posix.String())
	assert.Equal(t, "windows", Windows.String())
}

func TestPathSeparator(t *testing.T) {
	assert.Equal(t, "/", Posix.PathSeparator())
	assert.Equal(t, `\`, Windows.PathSeparator())
}
