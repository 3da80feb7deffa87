package config

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"

	"github.com/netallow/netallow/internal/errs"
	jutil "github.com/netallow/netallow/json"
)

// stripComments removes any line whose first non-space character is "//",
// matching spec.md §4.6 ("// line comments permitted at the start of any
// line, after optional leading spaces"). It does not attempt to detect
// "//" inside a JSON string value — the teacher corpus's own config
// tooling (original_source's JsonWithComments) has the same limitation,
// and production NetFlow configs never need literal "//" in a value.
func stripComments(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "//") {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Load reads and validates a Configuration document from r. A nil r is
// not valid; callers wanting defaults should use Default() directly.
func (l *Loader) Load(r io.Reader) (*Configuration, error) {
	cleaned, err := stripComments(r)
	if err != nil {
		return nil, errs.Config(fmt.Errorf("reading config: %w", err))
	}

	var doc rawDoc
	if err := json.Unmarshal(cleaned, &doc); err != nil {
		return nil, errs.Config(fmt.Errorf("parsing config JSON: %w", err))
	}
	l.logUnknownKeys(cleaned)

	cfg := Default()

	if len(doc.DestinationAddresses) > 0 {
		prefixes, err := jutil.UnPrefixes(nil, doc.DestinationAddresses)
		if err != nil {
			return nil, errs.Config(fmt.Errorf("destination_addresses: %w", err))
		}
		cfg.ProtectedPrefixes = prefixes
	}

	if err := assignInt64(&cfg.AggregationTime, doc.AggregationTime); err != nil {
		return nil, errs.Config(fmt.Errorf("aggregation_time: %w", err))
	}
	if err := assignInt(&cfg.IPv4Aggregation, doc.IPv4Aggregation); err != nil {
		return nil, errs.Config(fmt.Errorf("ipv4_aggregation: %w", err))
	}
	if err := assignInt(&cfg.IPv6Aggregation, doc.IPv6Aggregation); err != nil {
		return nil, errs.Config(fmt.Errorf("ipv6_aggregation: %w", err))
	}
	if err := assignInt64(&cfg.ParamWTrain, doc.ParamWTrain); err != nil {
		return nil, errs.Config(fmt.Errorf("param_w_train: %w", err))
	}
	if err := assignInt(&cfg.ParamSteady, doc.ParamSteady); err != nil {
		return nil, errs.Config(fmt.Errorf("param_steady: %w", err))
	}
	if err := assignInt64(&cfg.ParamHeavy, doc.ParamHeavy); err != nil {
		return nil, errs.Config(fmt.Errorf("param_heavy: %w", err))
	}
	if doc.FilterExpr != "" {
		cfg.FilterExpr = doc.FilterExpr
	}

	if err := validate(cfg); err != nil {
		return nil, errs.Config(err)
	}
	return cfg, nil
}

// assignInt64 coerces a tolerant JSON value (number, numeric string, or
// nil/absent) into *dst, leaving dst untouched when v is nil. spf13/cast
// is used here rather than a strict type assertion because operators
// hand-editing config files commonly quote numbers.
func assignInt64(dst *int64, v any) error {
	if v == nil {
		return nil
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func assignInt(dst *int, v any) error {
	if v == nil {
		return nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

// logUnknownKeys walks the top-level JSON object and logs, at Debug
// level, any key not among the recognized set. Unrecognized fields are
// tolerated for forward compatibility (spec.md §4.6); this only makes
// that silence auditable.
func (l *Loader) logUnknownKeys(doc []byte) {
	if l.log == nil {
		return
	}
	_ = jutil.ObjectEach(doc, func(key, val []byte) error {
		k := jutil.SQ(key)
		if !recognizedKeys[k] {
			l.log.Debug().Str("key", k).Msg("ignoring unrecognized config field")
		}
		return nil
	})
}

var recognizedKeys = map[string]bool{
	"destination_addresses": true,
	"aggregation_time":       true,
	"ipv4_aggregation":       true,
	"ipv6_aggregation":       true,
	"param_w_train":          true,
	"param_steady":           true,
	"param_heavy":            true,
	"filter_expr":            true,
}
