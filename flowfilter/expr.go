package flowfilter

import (
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	"github.com/netallow/netallow/netflow"
)

// Attr identifies a Record field an Expr can compare against. Grounded on
// the teacher's filter.Attr design (filter/filter.go), narrowed to the
// handful of fields a NetFlow record actually exposes.
type Attr int

const (
	AttrDstPort Attr = iota
	AttrSrc
	AttrDst
	AttrPackets
)

// Op identifies a comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

// Expr is one compiled comparison, optionally chained to the next one
// with a logical And/Or, and optionally negated. This is the same
// recursive, linked shape as the teacher's filter.Expr (And/Not/Next/
// Attr/Op/Val), re-expressed over netflow.Record attributes instead of
// BGP UPDATE attributes.
type Expr struct {
	Not  bool
	And  bool // combine with Next using AND (true) or OR (false)
	Next *Expr

	Attr Attr
	Op   Op
	Val  any // int64, or netip.Prefix for Src/Dst
}

// Eval reports whether rec satisfies e and (recursively) its chain.
func (e *Expr) Eval(rec *netflow.Record) bool {
	if e == nil {
		return true
	}
	result := e.evalOne(rec)
	if e.Not {
		result = !result
	}
	if e.Next == nil {
		return result
	}
	if e.And {
		return result && e.Next.Eval(rec)
	}
	return result || e.Next.Eval(rec)
}

func (e *Expr) evalOne(rec *netflow.Record) bool {
	switch e.Attr {
	case AttrDstPort:
		return compareInt(int64(rec.DstPort), e.Op, e.Val.(int64))
	case AttrPackets:
		return compareInt(rec.InPackets, e.Op, e.Val.(int64))
	case AttrSrc:
		return comparePrefix(rec.Src, e.Op, e.Val.(netip.Prefix))
	case AttrDst:
		return comparePrefix(rec.Dst, e.Op, e.Val.(netip.Prefix))
	default:
		return false
	}
}

func compareInt(have int64, op Op, want int64) bool {
	switch op {
	case OpEq:
		return have == want
	case OpNe:
		return have != want
	case OpLt:
		return have < want
	case OpGt:
		return have > want
	case OpLe:
		return have <= want
	case OpGe:
		return have >= want
	default:
		return false
	}
}

// comparePrefix treats "==" and "!=" as CIDR containment / non-
// containment; ordering operators are not meaningful for addresses.
func comparePrefix(have netip.Addr, op Op, want netip.Prefix) bool {
	contains := want.Contains(have)
	switch op {
	case OpEq:
		return contains
	case OpNe:
		return !contains
	default:
		return false
	}
}

// Compile parses a filter expression of the form:
//
//	not? atom ( (and|or) not? atom )*
//	atom := attr op value | "(" expr ")"
//	attr := "dst_port" | "src" | "dst" | "packets"
//	op   := "==" | "!=" | "<" | ">" | "<=" | ">="
//
// Grounded on the teacher's filter.Filter/parseFilter split into a
// tokenizer + recursive-descent parser (filter/filter.go), with the
// BGP-specific attribute table (AS path, community, next-hop) dropped
// since flow records have no analogue for them.
func Compile(src string) (*Expr, error) {
	p := &parser{toks: tokenize(src)}
	e, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("flowfilter: %w", err)
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("flowfilter: unexpected trailing input near %q", p.toks[p.pos])
	}
	return e, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *parser) next() string {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) parseExpr() (*Expr, error) {
	first, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	cur := first
	for {
		switch strings.ToLower(p.peek()) {
		case "and":
			p.next()
			nxt, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			cur.And = true
			cur.Next = nxt
			cur = nxt
		case "or":
			p.next()
			nxt, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			cur.And = false
			cur.Next = nxt
			cur = nxt
		default:
			return first, nil
		}
	}
}

func (p *parser) parseUnary() (*Expr, error) {
	not := false
	if strings.ToLower(p.peek()) == "not" {
		p.next()
		not = true
	}
	if p.peek() == "(" {
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("expected ')', got %q", p.peek())
		}
		p.next()
		inner.Not = inner.Not != not
		return inner, nil
	}
	return p.parseAtom(not)
}

func (p *parser) parseAtom(not bool) (*Expr, error) {
	attrTok := strings.ToLower(p.next())
	var attr Attr
	switch attrTok {
	case "dst_port":
		attr = AttrDstPort
	case "src":
		attr = AttrSrc
	case "dst":
		attr = AttrDst
	case "packets":
		attr = AttrPackets
	case "":
		return nil, fmt.Errorf("unexpected end of expression")
	default:
		return nil, fmt.Errorf("unknown attribute %q", attrTok)
	}

	opTok := p.next()
	var op Op
	switch opTok {
	case "==":
		op = OpEq
	case "!=":
		op = OpNe
	case "<":
		op = OpLt
	case ">":
		op = OpGt
	case "<=":
		op = OpLe
	case ">=":
		op = OpGe
	default:
		return nil, fmt.Errorf("unknown operator %q", opTok)
	}

	valTok := p.next()
	var val any
	switch attr {
	case AttrSrc, AttrDst:
		pfx, err := parsePrefixLiteral(valTok)
		if err != nil {
			return nil, err
		}
		val = pfx
	default:
		n, err := strconv.ParseInt(valTok, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q", valTok)
		}
		val = n
	}

	return &Expr{Not: not, Attr: attr, Op: op, Val: val}, nil
}

// parsePrefixLiteral accepts either a bare address (treated as a /32 or
// /128 host prefix) or an explicit CIDR.
func parsePrefixLiteral(s string) (netip.Prefix, error) {
	if strings.Contains(s, "/") {
		return netip.ParsePrefix(s)
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid address/prefix %q: %w", s, err)
	}
	bits := 32
	if addr.Is6() {
		bits = 128
	}
	return netip.PrefixFrom(addr, bits), nil
}

// tokenize splits src into a flat token stream: identifiers/numbers,
// parentheses, and the two/one-character operators. Grounded on the
// teacher's filter lexer (same job: turn free text into atoms before the
// recursive-descent parser runs), simplified since this grammar has no
// string/regex literals.
func tokenize(src string) []string {
	var toks []string
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '(' || c == ')':
			toks = append(toks, string(c))
			i++
		case strings.ContainsRune("=!<>", c):
			if i+1 < len(runes) && runes[i+1] == '=' {
				toks = append(toks, string(runes[i:i+2]))
				i += 2
			} else {
				toks = append(toks, string(c))
				i++
			}
		default:
			j := i
			for j < len(runes) && !strings.ContainsRune(" \t\n()=!<>", runes[j]) {
				j++
			}
			toks = append(toks, string(runes[i:j]))
			i = j
		}
	}
	return toks
}
