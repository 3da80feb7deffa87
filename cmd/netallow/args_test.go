package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsRequiresFiles(t *testing.T) {
	_, err := parseArgs([]string{})
	assert.Error(t, err)
}

func TestParseArgsRequiresNowWithOutput(t *testing.T) {
	_, err := parseArgs([]string{"-o", "-", "file.nf"})
	assert.Error(t, err)
}

func TestParseArgsAcceptsShortAndLongFlags(t *testing.T) {
	a, err := parseArgs([]string{"--config", "cfg.json", "--now", "2024-01-01T00:00:00Z", "--output", "-", "a.nf", "b.nf"})
	require.NoError(t, err)
	assert.Equal(t, "cfg.json", a.configPath)
	assert.Equal(t, "-", a.output)
	assert.Equal(t, []string{"a.nf", "b.nf"}, a.files)

	b, err := parseArgs([]string{"-c", "cfg.json", "-n", "2024-01-01T00:00:00Z", "-o", "-", "a.nf"})
	require.NoError(t, err)
	assert.Equal(t, a.configPath, b.configPath)
}

func TestParseArgsSummaryOnlyWithoutOutput(t *testing.T) {
	a, err := parseArgs([]string{"a.nf"})
	require.NoError(t, err)
	assert.Empty(t, a.output)
	assert.Empty(t, a.now)
}
