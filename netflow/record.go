// Package netflow produces validated FlowRecord values from the JSON
// stream emitted by the NetFlow decoder subprocess (nfdump -o json).
package netflow

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/buger/jsonparser"
)

// Record is a single decoded NetFlow entry.
type Record struct {
	Src       netip.Addr
	Dst       netip.Addr
	DstPort   int
	First     time.Time
	Last      time.Time
	InPackets int64
}

// FromObject decodes one JSON object (the bytes between a matching
// "{"..."}" pair, as produced by Decoder) into a Record. It accepts both
// nfdump 1.6 field names (t_first/t_last) and 1.7 (first/last); a record
// with neither is rejected, as is one missing both the IPv4 and IPv6
// address pair for source or destination.
func FromObject(obj []byte) (*Record, error) {
	inPackets, err := jsonparser.GetInt(obj, "in_packets")
	if err != nil {
		return nil, fmt.Errorf("missing in_packets: %w", err)
	}
	dstPort, err := jsonparser.GetInt(obj, "dst_port")
	if err != nil {
		return nil, fmt.Errorf("missing dst_port: %w", err)
	}

	first, err := firstTimestamp(obj, "first", "t_first")
	if err != nil {
		return nil, fmt.Errorf("a NetFlow must have a first timestamp: %w", err)
	}
	last, err := firstTimestamp(obj, "last", "t_last")
	if err != nil {
		return nil, fmt.Errorf("a NetFlow must have a last timestamp: %w", err)
	}
	if last.Before(first) {
		return nil, fmt.Errorf("last timestamp %s precedes first %s", last, first)
	}

	src, err := addrPair(obj, "src4_addr", "src6_addr")
	if err != nil {
		return nil, fmt.Errorf("a NetFlow must have an IPv4 or IPv6 source, but both are missing: %w", err)
	}
	dst, err := addrPair(obj, "dst4_addr", "dst6_addr")
	if err != nil {
		return nil, fmt.Errorf("a NetFlow must have an IPv4 or IPv6 destination, but both are missing: %w", err)
	}

	return &Record{
		Src:       src,
		Dst:       dst,
		DstPort:   int(dstPort),
		First:     first,
		Last:      last,
		InPackets: inPackets,
	}, nil
}

// firstTimestamp returns the first key present among names, parsed as an
// RFC3339/ISO-8601 UTC timestamp.
func firstTimestamp(obj []byte, names ...string) (time.Time, error) {
	for _, name := range names {
		s, err := jsonparser.GetString(obj, name)
		if err != nil {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			// nfdump sometimes emits a space instead of "T" and no
			// zone suffix; treat it as UTC.
			t, err = time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
			if err != nil {
				return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
			}
		}
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("none of %v present", names)
}

// addrPair returns whichever of the v4Key/v6Key fields is present,
// preferring v4 as original_source does.
func addrPair(obj []byte, v4Key, v6Key string) (netip.Addr, error) {
	if s, err := jsonparser.GetString(obj, v4Key); err == nil && s != "" {
		a, perr := netip.ParseAddr(s)
		if perr == nil {
			return a, nil
		}
	}
	if s, err := jsonparser.GetString(obj, v6Key); err == nil && s != "" {
		a, perr := netip.ParseAddr(s)
		if perr == nil {
			return a, nil
		}
	}
	return netip.Addr{}, fmt.Errorf("neither %s nor %s present", v4Key, v6Key)
}
