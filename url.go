package query

import (
	"fmt"
	netURL "net/url"
	"strings"

	"github.com/caelisco/http-query/options"
)

const (
	SchemeHTTP  string = "http://"
	SchemeHTTPS string = "https://"
)

// URL attaches the query built from params to base. The base is normalised first: a
// missing scheme defaults to https, or to the ProtocolScheme of the options.
// An existing query on base is kept and the new pairs are appended after it.
func URL(base string, params *Map, opts ...*options.Option) (string, error) {
	opt := options.New(opts...)

	url, err := normaliseURL(base, opt.ProtocolScheme)
	if err != nil {
		return "", fmt.Errorf("supplied url did not pass url.Parse(): %w", err)
	}

	q := Build(params, opt)
	if q == "" {
		return url, nil
	}

	u, err := netURL.Parse(url)
	if err != nil {
		return "", fmt.Errorf("supplied url did not pass url.Parse(): %w", err)
	}
	switch {
	case u.RawQuery == "":
		u.RawQuery = q
	case strings.HasSuffix(u.RawQuery, delimiter):
		u.RawQuery += q
	default:
		u.RawQuery += delimiter + q
	}
	// Parse records a bare trailing '?' as ForceQuery; RawQuery is no longer empty.
	u.ForceQuery = false

	opt.LogVerbose("query attached to url", "url", u.String())
	return u.String(), nil
}

func normaliseURL(url string, protocolScheme string) (string, error) {
	url = strings.TrimSpace(url)

	// First validate if the input URL has proper scheme format if it contains a colon
	if strings.Contains(url, ":") {
		if !strings.Contains(url, "://") {
			return "", fmt.Errorf("invalid URL format: missing // after scheme")
		}
	}

	if protocolScheme != "" {
		url = strings.TrimPrefix(url, SchemeHTTP)
		url = strings.TrimPrefix(url, SchemeHTTPS)
		if !strings.Contains(protocolScheme, "://") {
			protocolScheme += "://"
		}
		if !strings.HasPrefix(url, protocolScheme) {
			url = protocolScheme + url
		}
	} else {
		if !strings.HasPrefix(url, SchemeHTTP) && !strings.HasPrefix(url, SchemeHTTPS) {
			url = SchemeHTTPS + url
		}
	}

	// Parse the URL to validate it
	if _, err := netURL.Parse(url); err != nil {
		return "", err
	}

	return url, nil
}
