package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPrintJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	err := PrintJSON(buf, map[string]string{"key": "value"})
	require.NoError(t, err)

	var result map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "value", result["key"])
}

func TestPrintYAML(t *testing.T) {
	type row struct {
		Port  int    `yaml:"port"`
		Label string `yaml:"label"`
	}
	buf := new(bytes.Buffer)
	require.NoError(t, PrintYAML(buf, map[string][]row{"candidates": {{Port: 3000, Label: "web"}}}))

	assert.Contains(t, buf.String(), "candidates:\n")
	assert.Contains(t, buf.String(), "- port: 3000\n")

	var back map[string][]row
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, 3000, back["candidates"][0].Port)
}

func TestPrintError(t *testing.T) {
	buf := new(bytes.Buffer)
	err := PrintError(buf, "test_error", "something went wrong")
	require.NoError(t, err)

	var result map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "test_error", result["error"])
	assert.Equal(t, "something went wrong", result["message"])
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 1, ExitError)
	assert.Equal(t, 3, ExitTimeout)
	assert.Equal(t, 4, ExitNotFound)
	assert.Equal(t, 130, ExitCancelled)
}

func TestSetAndGetFlags(t *testing.T) {
	t.Cleanup(func() { SetFlags(false, false, false) })

	SetFlags(true, true, false)
	assert.True(t, IsJSON())
	assert.True(t, IsQuiet())
	assert.False(t, IsVerbose())

	SetFlags(false, false, true)
	assert.False(t, IsJSON())
	assert.False(t, IsQuiet())
	assert.True(t, IsVerbose())
}

func TestTable(t *testing.T) {
	buf := new(bytes.Buffer)
	w := NewTable(buf)
	_, _ = w.Write([]byte("PORT\tLABEL\n3000\tstorefront\n"))
	require.NoError(t, w.Flush())
	assert.Equal(t, "PORT  LABEL\n3000  storefront\n", buf.String())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "storefront", Truncate("storefront", 20))
	assert.Equal(t, "storefront", Truncate("storefront", 0))

	short := Truncate("a-very-long-project-name", 10)
	assert.Equal(t, 10, runewidth.StringWidth(short))
	assert.Equal(t, "a-very-lo…", short)

	wide := Truncate("日本語のプロジェクト", 8)
	assert.LessOrEqual(t, runewidth.StringWidth(wide), 8)
}
