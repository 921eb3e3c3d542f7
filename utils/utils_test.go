package utils

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRFC1918(t *testing.T) {
	tests := map[string]bool{
		"10.0.0.4":     true,
		"172.16.5.1":   true,
		"172.32.0.1":   false,
		"192.168.1.10": true,
		"52.1.1.1":     false,
		"not-an-ip":    false,
		"":             false,
	}
	for ip, want := range tests {
		assert.Equal(t, want, IsRFC1918(ip), ip)
	}
}

func TestWriteCSVFlattensNewlines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV([][]string{{"name", "routes"}, {"web", "a\nb\r\nc"}}, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a b  c", records[1][1])
}

func TestWriteOutputCSVOnly(t *testing.T) {
	viper.Set("output_format", "csv")
	t.Cleanup(func() { viper.Set("output_format", "") })

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteOutput([][]string{{"a"}, {"1"}}, nil, path))
	assert.FileExists(t, path)
}

func TestLogErrorExitsUnlessContinueOnError(t *testing.T) {
	var buf bytes.Buffer
	SetLogOutput(&buf)
	t.Cleanup(func() {
		SetLogOutput(os.Stderr)
		exit = os.Exit
		viper.Set("continue_on_error", false)
	})

	code := -1
	exit = func(c int) { code = c }

	LogErrorf("boom %d", 1)
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "boom 1")

	code = -1
	viper.Set("continue_on_error", true)
	LogError("soft")
	assert.Equal(t, -1, code)
}

func TestFileName(t *testing.T) {
	assert.Regexp(t, `^azvnet-routes-\d{8}_\d{6}\.csv$`, FileName("routes"))
	assert.Regexp(t, `^azvnet-output-\d{8}_\d{6}\.csv$`, FileName(""))
}

func TestLogBlankValue(t *testing.T) {
	assert.Equal(t, "<empty>", LogBlankValue(""))
	assert.Equal(t, "x", LogBlankValue("x"))
}
