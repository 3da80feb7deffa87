package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, int64(3600), cfg.AggregationTime)
	assert.Equal(t, 24, cfg.IPv4Aggregation)
	assert.Equal(t, 48, cfg.IPv6Aggregation)
	assert.Equal(t, int64(24), cfg.ParamWTrain)
	assert.Equal(t, 3, cfg.ParamSteady)
	assert.Equal(t, int64(128), cfg.ParamHeavy)
	require.Len(t, cfg.ProtectedPrefixes, 2)
}

func TestLoadWithComments(t *testing.T) {
	doc := `{
  // only watch the DNS resolvers
  "destination_addresses": ["203.0.113.0/24"],
  "param_steady": 1,
  "param_heavy": "128"
}`
	l := NewLoader(nil)
	cfg, err := l.Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.ParamSteady)
	assert.Equal(t, int64(128), cfg.ParamHeavy)
	require.Len(t, cfg.ProtectedPrefixes, 1)
	assert.Equal(t, "203.0.113.0/24", cfg.ProtectedPrefixes[0].String())
	// unspecified fields keep their defaults
	assert.Equal(t, int64(3600), cfg.AggregationTime)
}

func TestLoadUnrecognizedFieldIgnored(t *testing.T) {
	doc := `{"totally_unknown_field": 42, "param_steady": 2}`
	l := NewLoader(nil)
	cfg, err := l.Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ParamSteady)
}

func TestLoadInvalidPrefix(t *testing.T) {
	doc := `{"destination_addresses": ["not-a-cidr"]}`
	l := NewLoader(nil)
	_, err := l.Load(strings.NewReader(doc))
	require.Error(t, err)
}

func TestLoadNonPositiveParam(t *testing.T) {
	doc := `{"param_steady": 0}`
	l := NewLoader(nil)
	_, err := l.Load(strings.NewReader(doc))
	require.Error(t, err)
}

func TestLoadMalformedJSON(t *testing.T) {
	doc := `{"param_steady": `
	l := NewLoader(nil)
	_, err := l.Load(strings.NewReader(doc))
	require.Error(t, err)
}
