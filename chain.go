package query

import (
	"strconv"
	"strings"

	"github.com/caelisco/http-query/options"
)

// keyChain is the path of keys from the root to a node. It is an immutable linked
// list growing at the tip, so every branch of the walk shares its prefix and owns
// only the segment it pushed. The nil chain is the root.
type keyChain struct {
	parent  *keyChain
	segment string
	depth   int
}

func (c *keyChain) push(segment string) *keyChain {
	depth := 1
	if c != nil {
		depth = c.depth + 1
	}
	return &keyChain{parent: c, segment: segment, depth: depth}
}

// segments returns the chain from root to tip.
func (c *keyChain) segments() []string {
	if c == nil {
		return nil
	}
	s := make([]string, c.depth)
	for n := c; n != nil; n = n.parent {
		s[n.depth-1] = n.segment
	}
	return s
}

// encode renders the chain as first[second][third] with every segment escaped.
func (c *keyChain) encode(opt *options.Option) string {
	lb, rb := "[", "]"
	if opt.EscapeBrackets {
		lb, rb = "%5B", "%5D"
	}

	var sb strings.Builder
	for i, seg := range c.segments() {
		if i == 0 {
			if opt.NumericPrefix != "" && isInteger(seg) {
				seg = opt.NumericPrefix + seg
			}
			sb.WriteString(opt.Escape(seg))
			continue
		}
		sb.WriteString(lb)
		sb.WriteString(opt.Escape(seg))
		sb.WriteString(rb)
	}
	return sb.String()
}

// isInteger reports whether s is a canonical decimal integer. "+3" and "007" are not.
func isInteger(s string) bool {
	n, err := strconv.ParseInt(s, 10, 64)
	return err == nil && strconv.FormatInt(n, 10) == s
}
