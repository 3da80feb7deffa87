// Command netallow builds a DNS traffic allowlist from NetFlow captures,
// for use as a DDoS-mitigation scrubbing policy input. See spec.md and
// SPEC_FULL.md for the full contract.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/netallow/netallow/allowlist"
	"github.com/netallow/netallow/config"
	"github.com/netallow/netallow/driver"
	"github.com/netallow/netallow/internal/ddlog"
	"github.com/netallow/netallow/internal/errs"
)

// cliArgs mirrors the flags spec.md §4.7 mandates. Grounded on the
// teacher's flag-based example.go (no cobra/viper anywhere in the
// example pack's relevant dependency set).
type cliArgs struct {
	configPath string
	now        string
	output     string
	verbose    bool
	files      []string
}

func parseArgs(argv []string) (*cliArgs, error) {
	fs := flag.NewFlagSet("netallow", flag.ContinueOnError)
	a := &cliArgs{}

	fs.StringVar(&a.configPath, "c", "", "path to the tolerant-JSON configuration file")
	fs.StringVar(&a.configPath, "config", "", "path to the tolerant-JSON configuration file")
	fs.StringVar(&a.now, "n", "", "reference time for the training window, RFC3339 UTC")
	fs.StringVar(&a.now, "now", "", "reference time for the training window, RFC3339 UTC")
	fs.StringVar(&a.output, "o", "", "CSV output path, or - for stdout")
	fs.StringVar(&a.output, "output", "", "CSV output path, or - for stdout")
	fs.BoolVar(&a.verbose, "v", false, "enable debug logging")
	fs.BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	a.files = fs.Args()
	if len(a.files) == 0 {
		return nil, errors.New("at least one input FILE is required")
	}
	if a.output != "" && a.now == "" {
		return nil, errors.New("-n/--now is required when -o/--output is used")
	}
	return a, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(argv []string, stdout *os.File) int {
	args, err := parseArgs(argv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 2
	}

	log := ddlog.Default(args.verbose)

	cfg, err := loadConfig(args.configPath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return errs.ExitCode(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	d := driver.New(cfg, log)
	merged, stats, err := d.Run(ctx, args.files)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return errs.ExitCode(err)
	}
	log.Info().
		Int64("files_processed", stats.FilesProcessed()).
		Int64("records_kept", stats.RecordsKept()).
		Int64("records_dropped", stats.RecordsDropped()).
		Msg("pipeline complete")

	// -n/--now is required whenever -o/--output is used (checked in
	// parseArgs); in summary-only mode it's optional, so fall back to
	// the real wall clock.
	ref := time.Now().UTC()
	if args.now != "" {
		parsed, err := time.Parse(time.RFC3339, args.now)
		if err != nil {
			err = errs.Config(fmt.Errorf("invalid -n/--now value %q: %w", args.now, err))
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return errs.ExitCode(err)
		}
		ref = parsed.UTC()
	}
	al := allowlist.Build(merged, cfg, ref.Unix())

	if args.output == "" {
		fmt.Fprintf(stdout, "The allowlist contains %d entries.\n", len(al))
		return 0
	}

	if args.output == "-" {
		if err := writeAllowlist(stdout, al); err != nil {
			err = errs.IO("-", err)
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return errs.ExitCode(err)
		}
		return 0
	}

	f, err := os.Create(args.output)
	if err != nil {
		err = errs.IO(args.output, err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return errs.ExitCode(err)
	}
	defer f.Close()
	if err := writeAllowlist(f, al); err != nil {
		err = errs.IO(args.output, err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return errs.ExitCode(err)
	}
	return 0
}

func loadConfig(path string, log *zerolog.Logger) (*config.Configuration, error) {
	if path == "" {
		return config.Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.IO(path, err)
	}
	defer f.Close()
	return config.NewLoader(log).Load(f)
}
