package main

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/netallow/netallow/allowlist"
)

// writeAllowlist serializes al as CSV to w: header "ip,packets", one row
// per entry, row order unspecified. Grounded on original_source's
// write_allowlist_as_csv. encoding/csv (stdlib) is used since no
// third-party CSV writer appears anywhere in the example pack.
func writeAllowlist(w io.Writer, al allowlist.Allowlist) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ip", "packets"}); err != nil {
		return err
	}
	for ip, packets := range al {
		row := []string{ip.String(), strconv.FormatInt(packets, 10)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
