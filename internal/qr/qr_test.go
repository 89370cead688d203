package qr

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, "http://192.168.1.42:3000"))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Greater(t, len(lines), 10)
	assert.True(t, strings.ContainsAny(out, "▀▄█"))
}

func TestRenderDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Render(&a, "http://10.0.0.5:8080"))
	require.NoError(t, Render(&b, "http://10.0.0.5:8080"))
	assert.Equal(t, a.String(), b.String())
}

func TestRenderEmpty(t *testing.T) {
	assert.Error(t, Render(&bytes.Buffer{}, ""))
}
