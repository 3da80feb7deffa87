package driver

import "github.com/puzpuzpuz/xsync/v3"

// Stats tracks run-wide counters that have no bearing on the CountMap
// merge itself — they exist purely so cmd/netallow can log a useful
// summary line. Backed by xsync's sharded counters (the same library the
// teacher uses for its pipe.Pipe.KV store) so concurrent workers can bump
// them without a mutex, even though the CountMap reduce they sit beside
// stays a plain, single-threaded merge.
type Stats struct {
	filesProcessed *xsync.Counter
	recordsKept    *xsync.Counter
	recordsDropped *xsync.Counter
}

// NewStats returns a zeroed Stats.
func NewStats() *Stats {
	return &Stats{
		filesProcessed: xsync.NewCounter(),
		recordsKept:    xsync.NewCounter(),
		recordsDropped: xsync.NewCounter(),
	}
}

func (s *Stats) fileDone()     { s.filesProcessed.Add(1) }
func (s *Stats) recordKept()   { s.recordsKept.Add(1) }
func (s *Stats) recordDropped() { s.recordsDropped.Add(1) }

// FilesProcessed returns the number of input files fully decoded.
func (s *Stats) FilesProcessed() int64 { return s.filesProcessed.Value() }

// RecordsKept returns the number of records that passed the flow filter
// and were folded into the CountMap.
func (s *Stats) RecordsKept() int64 { return s.recordsKept.Value() }

// RecordsDropped returns the number of records the flow filter rejected.
func (s *Stats) RecordsDropped() int64 { return s.recordsDropped.Value() }
