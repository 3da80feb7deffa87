package netflow

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleArray = `[
{
  "in_packets": 200,
  "dst_port": 53,
  "first": "2024-01-01T00:30:00Z",
  "last": "2024-01-01T00:30:00Z",
  "src4_addr": "192.0.2.7",
  "dst4_addr": "203.0.113.1"
},
{
  "in_packets": 2,
  "dst_port": 53,
  "t_first": "2024-01-01T00:59:59Z",
  "t_last": "2024-01-01T01:00:01Z",
  "src4_addr": "192.0.2.200",
  "dst4_addr": "203.0.113.1"
}
]
`

func TestDecoderStreamsAllRecords(t *testing.T) {
	d := NewDecoder(strings.NewReader(sampleArray))

	r1, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(200), r1.InPackets)
	assert.Equal(t, "192.0.2.7", r1.Src.String())

	r2, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(2), r2.InPackets)
	assert.Equal(t, "192.0.2.200", r2.Src.String())

	_, err = d.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoderEmptyArray(t *testing.T) {
	d := NewDecoder(strings.NewReader("[\n]\n"))
	_, err := d.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoderMalformedRecordIsFatal(t *testing.T) {
	doc := `[
{
  "in_packets": 5,
  "dst_port": 53,
  "src4_addr": "192.0.2.7",
  "dst4_addr": "203.0.113.1"
}
]`
	d := NewDecoder(strings.NewReader(doc))
	_, err := d.Next()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestDecoderBraceInsideStringDoesNotTerminateEarly(t *testing.T) {
	doc := `[
{
  "in_packets": 1,
  "dst_port": 53,
  "first": "2024-01-01T00:30:00Z",
  "last": "2024-01-01T00:30:00Z",
  "src4_addr": "192.0.2.7",
  "dst4_addr": "203.0.113.1",
  "comment": "contains a brace } right here"
}
]`
	d := NewDecoder(strings.NewReader(doc))
	r, err := d.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), r.InPackets)
}
