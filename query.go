// Package query flattens nested parameter structures into a URL-encoded query string
// using the bracket notation of PHP's http_build_query:
//
//	foo=bar&user[name]=Bob&user[children][0][name]=Bobby&user[children][1][name]=John
//
// Mappings are walked in insertion order and lists in index order, so the output is
// stable for a given input. The input must not contain cycles.
package query

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/caelisco/http-query/options"
)

const (
	delimiter = "&"
	equals    = "="
)

// ErrNotMapping is returned when the root of a value to encode is not a mapping.
var ErrNotMapping = errors.New("root value must be a mapping")

// Pair is a single encoded key=value pair.
type Pair struct {
	Key   string
	Value string
}

func (p Pair) String() string {
	return p.Key + equals + p.Value
}

// Build flattens params into a query string. An empty map gives an empty string.
func Build(params *Map, opts ...*options.Option) string {
	opt := options.New(opts...)

	var sb strings.Builder
	n := 0
	for p := range pairs(params, opt) {
		if n > 0 {
			sb.WriteString(delimiter)
		}
		sb.WriteString(p.String())
		n++
	}

	if opt.Verbose {
		opt.LogVerbose("query built", "id", opt.GenerateIdentifier(), "pairs", n, "length", sb.Len())
	}
	return sb.String()
}

// Pairs returns the encoded pairs of params in the order Build joins them.
// The sequence can be ranged over more than once.
func Pairs(params *Map, opts ...*options.Option) iter.Seq[Pair] {
	return pairs(params, options.New(opts...))
}

// Encode converts v with ValueOf and builds it. The root must convert to a mapping.
func Encode(v any, opts ...*options.Option) (string, error) {
	m, ok := ValueOf(v).(*Map)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrNotMapping, v)
	}
	return Build(m, opts...), nil
}

func pairs(params *Map, opt *options.Option) iter.Seq[Pair] {
	return func(yield func(Pair) bool) {
		walk(nil, params, opt, yield)
	}
}

// walk emits the pairs below v. It returns false once yield asks to stop.
func walk(chain *keyChain, v Value, opt *options.Option, yield func(Pair) bool) bool {
	switch t := v.(type) {
	case *Map:
		for k, child := range t.All() {
			if !walk(chain.push(k), child, opt, yield) {
				return false
			}
		}
		return true
	case List:
		for i, child := range t {
			if !walk(chain.push(strconv.Itoa(i)), child, opt, yield) {
				return false
			}
		}
		return true
	case Scalar:
		return leaf(chain, t, opt, yield)
	}
	return leaf(chain, Null, opt, yield)
}

func leaf(chain *keyChain, s Scalar, opt *options.Option, yield func(Pair) bool) bool {
	// A scalar at the root has no key to hang it on.
	if chain == nil {
		return true
	}
	if s.IsNull() && opt.OmitNull {
		return true
	}
	return yield(Pair{Key: chain.encode(opt), Value: encodeScalar(s, opt)})
}

func encodeScalar(s Scalar, opt *options.Option) string {
	if b, ok := s.v.(bool); ok && opt.PHPBooleans {
		if b {
			return "1"
		}
		return "0"
	}
	return opt.Escape(s.String())
}
