// Package json provides small JSON helpers built directly on
// buger/jsonparser, for callers that want to pick individual values out
// of a byte buffer without paying for a full unmarshal into a struct.
package json

import (
	"net/netip"
	"unsafe"

	jsp "github.com/buger/jsonparser"
)

// UnPrefixes parses a JSON array of CIDR strings, appending to dst.
func UnPrefixes(dst []netip.Prefix, src []byte) (out []netip.Prefix, reterr error) {
	defer func() {
		if r, ok := recover().(error); ok {
			reterr = r
		}
	}()

	out = dst
	jsp.ArrayEach(src, func(buf []byte, typ jsp.ValueType, _ int, _ error) {
		p, err := netip.ParsePrefix(S(buf))
		if err != nil {
			panic(err)
		}
		out = append(out, p)
	})
	return
}

// S returns string from byte slice, in an unsafe way
func S(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// SQ returns string from byte slice, unquoting if necessary
func SQ(buf []byte) string {
	if l := len(buf); l > 1 && buf[0] == '"' && buf[l-1] == '"' {
		buf = buf[1 : l-1]
	}
	return *(*string)(unsafe.Pointer(&buf))
}

// ObjectEach calls cb for each key/value pair in the src object.
// If the callback returns a non-nil error, it breaks immediately and returns it.
func ObjectEach(src []byte, cb func(key, val []byte) error) error {
	return jsp.ObjectEach(src, func(key, val []byte, _ jsp.ValueType, _ int) error {
		return cb(key, val)
	})
}
