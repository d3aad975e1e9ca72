package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/cobra"

	query "github.com/caelisco/http-query"
	"github.com/caelisco/http-query/document"
	"github.com/caelisco/http-query/form"
	"github.com/caelisco/http-query/options"
)

type flags struct {
	encoding       string
	numericPrefix  string
	omitNull       bool
	phpBools       bool
	escapeBrackets bool
	url            string
	scheme         string
	pairs          bool
	compress       string
	output         string
	verbose        bool
	jsonLog        bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "httpquery [file]",
		Short: "Flatten a YAML or JSON document into a PHP-style query string",
		Long: `httpquery reads a YAML or JSON document (stdin when no file or "-" is given)
and prints it as a URL-encoded query string in bracket notation, keeping the
order in which keys appear in the document.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.encoding, "encoding", string(options.EncodingRFC1738), "escaping: rfc1738 (space as +) or rfc3986 (space as %20)")
	fl.StringVar(&f.numericPrefix, "numeric-prefix", "", "prefix for numeric keys at the root")
	fl.BoolVar(&f.omitNull, "omit-null", false, "skip null values instead of emitting key=")
	fl.BoolVar(&f.phpBools, "php-bools", false, "render booleans as 1 and 0")
	fl.BoolVar(&f.escapeBrackets, "escape-brackets", false, "percent-encode the brackets of nested keys")
	fl.StringVar(&f.url, "url", "", "attach the query to this base URL")
	fl.StringVar(&f.scheme, "scheme", "", "protocol scheme for --url when it has none (default https)")
	fl.BoolVar(&f.pairs, "pairs", false, "print one decoded key = value line per pair")
	fl.StringVar(&f.compress, "compress", "none", "write a compressed form body: none, gzip, deflate, br, snappy or lz4")
	fl.StringVarP(&f.output, "output", "o", "", "write to this file instead of stdout")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log build details to stderr")
	fl.BoolVar(&f.jsonLog, "json-log", false, "log as JSON instead of text")

	return cmd
}

func run(cmd *cobra.Command, args []string, f *flags) error {
	opt, err := f.option(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	params, err := readParams(cmd, args)
	if err != nil {
		return err
	}
	opt.LogVerbose("document decoded", "keys", params.Len())

	if f.output == "" {
		return write(cmd.OutOrStdout(), params, opt, f)
	}

	file, err := os.Create(f.output)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(file, params, opt, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

func write(out io.Writer, params *query.Map, opt *options.Option, f *flags) error {
	switch {
	case opt.Compression != options.CompressionNone:
		body, _, err := form.NewReader(params, opt)
		if err != nil {
			return err
		}
		defer body.Close()
		n, err := io.Copy(out, body)
		if err != nil {
			return fmt.Errorf("unable to write form body: %w", err)
		}
		opt.LogVerbose("form body written", "content-encoding", opt.ContentEncoding(), "bytes", n)
		return nil
	case f.pairs:
		return renderPairs(out, params, opt)
	case f.url != "":
		u, err := query.URL(f.url, params, opt)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, u)
		return err
	}

	_, err := fmt.Fprintln(out, query.Build(params, opt))
	return err
}

func readParams(cmd *cobra.Command, args []string) (*query.Map, error) {
	if len(args) == 0 || args[0] == "-" {
		return document.Decode(cmd.InOrStdin())
	}
	file, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return document.Decode(file)
}

// option maps the command line flags onto an Option. Logs go to w.
func (f *flags) option(w io.Writer) (*options.Option, error) {
	opt := options.New()

	switch e := options.EncodingType(f.encoding); e {
	case options.EncodingRFC1738, options.EncodingRFC3986:
		opt.SetEncoding(e)
	default:
		return nil, fmt.Errorf("unknown encoding %q", f.encoding)
	}

	opt.NumericPrefix = f.numericPrefix
	opt.OmitNull = f.omitNull
	opt.PHPBooleans = f.phpBools
	opt.EscapeBrackets = f.escapeBrackets
	if f.scheme != "" {
		opt.SetProtocolScheme(f.scheme)
	}

	switch f.compress {
	case "", "none":
		opt.SetCompression(options.CompressionNone)
	case "gzip":
		opt.SetCompression(options.CompressionGzip)
	case "deflate":
		opt.SetCompression(options.CompressionDeflate)
	case "br", "brotli":
		opt.SetCompression(options.CompressionBrotli)
	case "snappy":
		opt.SetCompression(options.CompressionCustom)
		opt.CustomCompressionType = "snappy"
		opt.CustomCompressor = func(w io.Writer) (io.WriteCloser, error) {
			return snappy.NewBufferedWriter(w), nil
		}
	case "lz4":
		opt.SetCompression(options.CompressionCustom)
		opt.CustomCompressionType = "lz4"
		opt.CustomCompressor = func(w io.Writer) (io.WriteCloser, error) {
			return lz4.NewWriter(w), nil
		}
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", f.compress)
	}

	if f.verbose {
		if f.jsonLog {
			opt.SetLogger(slog.New(slog.NewJSONHandler(w, nil)))
		} else {
			opt.SetLogger(slog.New(slog.NewTextHandler(w, nil)))
		}
	}

	return opt, nil
}
