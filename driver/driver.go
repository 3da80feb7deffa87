// Package driver runs the per-file decode/filter/aggregate pipeline
// (C1->C2->C3) across a worker pool and reduces the partial CountMaps
// into one, per spec.md §4.4.
package driver

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/netallow/netallow/aggregate"
	"github.com/netallow/netallow/config"
	"github.com/netallow/netallow/flowfilter"
	"github.com/netallow/netallow/internal/errs"
	"github.com/netallow/netallow/netflow"
)

// streamOpener opens the decoder subprocess for a file. It is a var so
// tests can substitute an in-memory stream without spawning nfdump.
var streamOpener = netflow.Stream

// Driver owns the worker pool configuration and the logger attached to
// it, mirroring the teacher's pattern of embedding a *zerolog.Logger on
// long-lived components (pipe.Pipe, speaker.Speaker).
type Driver struct {
	*zerolog.Logger

	cfg *config.Configuration
	// Concurrency caps the number of files processed at once. Zero
	// means runtime.NumCPU().
	Concurrency int
}

// New returns a Driver for cfg, logging through log (nil disables
// logging).
func New(cfg *config.Configuration, log *zerolog.Logger) *Driver {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Driver{Logger: log, cfg: cfg}
}

// Run processes every file in files and returns the single merged
// CountMap plus run statistics. Any worker error cancels the remaining
// workers and aborts the run: no partial result is ever returned on
// error, per spec.md §4.4's failure semantics.
func (d *Driver) Run(ctx context.Context, files []string) (aggregate.CountMap, *Stats, error) {
	stats := NewStats()
	if len(files) == 0 {
		return aggregate.New(), stats, nil
	}

	limit := d.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	pred, err := flowfilter.NewPredicate(d.cfg.ProtectedPrefixes, d.cfg.FilterExpr)
	if err != nil {
		return nil, stats, errs.Config(err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	results := make([]aggregate.CountMap, len(files))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			m, err := d.processFile(gctx, file, pred, stats)
			if err != nil {
				return err
			}
			results[i] = m
			stats.fileDone()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	merged := aggregate.New()
	for _, m := range results {
		merged = aggregate.Merge(merged, m)
	}
	return merged, stats, nil
}

// processFile runs the C1->C2->C3 pipeline for a single file: stream
// decode, filter, aggregate. It owns its own CountMap; no state is
// shared with any other worker (spec.md §4.4, §5).
func (d *Driver) processFile(ctx context.Context, file string, pred *flowfilter.Predicate, stats *Stats) (_ aggregate.CountMap, reterr error) {
	dec, closeFn, err := streamOpener(ctx, file)
	if err != nil {
		return nil, errs.IO(file, err)
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && reterr == nil {
			reterr = errs.Decoder(file, fmt.Errorf("decoder subprocess: %w", cerr))
		}
	}()

	local := aggregate.New()
	for {
		rec, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Decoder(file, fmt.Errorf("decoding record: %w", err))
		}

		if !pred.Match(rec) {
			stats.recordDropped()
			continue
		}
		stats.recordKept()
		local.Add(rec, d.cfg)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	d.Debug().Str("file", file).Int("sources", len(local)).Msg("file processed")
	return local, nil
}
