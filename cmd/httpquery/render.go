package main

import (
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	query "github.com/caelisco/http-query"
	"github.com/caelisco/http-query/options"
)

// renderPairs prints each pair on its own line with key and value unescaped for reading.
// Colour is only used when w is a terminal.
func renderPairs(w io.Writer, params *query.Map, opt *options.Option) error {
	keyColor := color.New(color.FgCyan)
	sepColor := color.New(color.Faint)
	valueColor := color.New(color.FgGreen)
	nullColor := color.New(color.FgMagenta, color.Italic)

	tty := isTerminal(w)
	for _, c := range []*color.Color{keyColor, sepColor, valueColor, nullColor} {
		if tty {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	n := 0
	for p := range query.Pairs(params, opt) {
		key := unescape(p.Key)
		value := valueColor.Sprint(unescape(p.Value))
		if p.Value == "" {
			value = nullColor.Sprint("(empty)")
		}
		if _, err := fmt.Fprintf(w, "%s %s %s\n", keyColor.Sprint(key), sepColor.Sprint("="), value); err != nil {
			return err
		}
		n++
	}
	opt.LogVerbose("pairs rendered", "pairs", n, "terminal", tty)
	return nil
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
