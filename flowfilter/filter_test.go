package flowfilter

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netallow/netallow/netflow"
)

func mustPrefix(s string) netip.Prefix { return netip.MustParsePrefix(s) }

func sampleRecord(dstPort int, dst string) *netflow.Record {
	return &netflow.Record{
		Src:       netip.MustParseAddr("192.0.2.7"),
		Dst:       netip.MustParseAddr(dst),
		DstPort:   dstPort,
		First:     time.Now(),
		Last:      time.Now(),
		InPackets: 10,
	}
}

func TestMatchPortAndPrefix(t *testing.T) {
	prefixes := []netip.Prefix{mustPrefix("203.0.113.0/24")}
	assert.True(t, Match(sampleRecord(53, "203.0.113.1"), prefixes))
	assert.False(t, Match(sampleRecord(443, "203.0.113.1"), prefixes))
	assert.False(t, Match(sampleRecord(53, "198.51.100.1"), prefixes))
}

func TestMatchAddressFamilyMismatchIsNonMatch(t *testing.T) {
	prefixes := []netip.Prefix{mustPrefix("2001:db8::/32")}
	assert.False(t, Match(sampleRecord(53, "203.0.113.1"), prefixes))
}

func TestCompileAndEval(t *testing.T) {
	e, err := Compile(`dst_port == 53 and src == 192.0.2.0/24`)
	require.NoError(t, err)

	rec := sampleRecord(53, "203.0.113.1")
	assert.True(t, e.Eval(rec))

	rec2 := sampleRecord(53, "203.0.113.1")
	rec2.Src = netip.MustParseAddr("198.51.100.1")
	assert.False(t, e.Eval(rec2))
}

func TestCompileNotAndOr(t *testing.T) {
	e, err := Compile(`not dst_port == 443 or packets > 1000`)
	require.NoError(t, err)
	assert.True(t, e.Eval(sampleRecord(53, "203.0.113.1")))
}

func TestCompileInvalidExpression(t *testing.T) {
	_, err := Compile(`dst_port ===`)
	assert.Error(t, err)
}

func TestPredicateCombinesBaseAndExpr(t *testing.T) {
	p, err := NewPredicate([]netip.Prefix{mustPrefix("203.0.113.0/24")}, `src == 192.0.2.0/24`)
	require.NoError(t, err)

	assert.True(t, p.Match(sampleRecord(53, "203.0.113.1")))

	other := sampleRecord(53, "203.0.113.1")
	other.Src = netip.MustParseAddr("198.51.100.1")
	assert.False(t, p.Match(other))
}
