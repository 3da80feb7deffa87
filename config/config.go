// Package config loads and validates the pipeline's Configuration
// document: a tolerant-JSON file (// line comments allowed) describing
// protected destination prefixes, aggregation parameters, and the
// steady/heavy selection thresholds.
package config

import (
	encjson "encoding/json"
	"net/netip"

	"github.com/rs/zerolog"
)

// Configuration is immutable after Load returns.
type Configuration struct {
	// ProtectedPrefixes restricts aggregation to traffic destined to
	// these networks. Defaults to 0.0.0.0/0 and ::/0 (everything).
	ProtectedPrefixes []netip.Prefix

	// AggregationTime is the bucket width, in seconds.
	AggregationTime int64

	// IPv4Aggregation and IPv6Aggregation are the per-family prefix
	// lengths, in bits, that source addresses are masked to.
	IPv4Aggregation int
	IPv6Aggregation int

	// ParamWTrain is the training window length, measured in buckets.
	ParamWTrain int64
	// ParamSteady is the minimum number of active buckets required
	// inside the training window.
	ParamSteady int
	// ParamHeavy is the minimum peak per-bucket packet count required.
	ParamHeavy int64

	// FilterExpr, if non-empty, is an additional compiled expression
	// (see package flowfilter) a record must satisfy beyond the base
	// port-53/protected-prefix predicate.
	FilterExpr string
}

// Default returns the Configuration spec.md mandates when no config file
// is supplied.
func Default() *Configuration {
	return &Configuration{
		ProtectedPrefixes: []netip.Prefix{
			netip.MustParsePrefix("0.0.0.0/0"),
			netip.MustParsePrefix("::/0"),
		},
		AggregationTime: 3600,
		IPv4Aggregation: 24,
		IPv6Aggregation: 48,
		ParamWTrain:     24,
		ParamSteady:     3,
		ParamHeavy:      128,
	}
}

// rawDoc mirrors the JSON document's recognized top-level keys. Numeric
// fields are `any` so Load can tell "absent" (nil) from "zero value" and
// fall back to defaults field-by-field, matching spec.md §4.6 ("any
// recognized field may be omitted; defaults apply").
type rawDoc struct {
	DestinationAddresses encjson.RawMessage `json:"destination_addresses"`
	AggregationTime       any               `json:"aggregation_time"`
	IPv4Aggregation       any               `json:"ipv4_aggregation"`
	IPv6Aggregation       any               `json:"ipv6_aggregation"`
	ParamWTrain           any               `json:"param_w_train"`
	ParamSteady           any               `json:"param_steady"`
	ParamHeavy            any               `json:"param_heavy"`
	FilterExpr            string            `json:"filter_expr"`
}

// Loader parses Configuration documents, logging at Debug level each
// top-level key it does not recognize and therefore ignores.
type Loader struct {
	log *zerolog.Logger
}

// NewLoader returns a Loader that logs through log (nil disables
// logging).
func NewLoader(log *zerolog.Logger) *Loader {
	return &Loader{log: log}
}
