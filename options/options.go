package options

import (
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type EncodingType string
type CompressionType string
type UniqueIdentifierType string

const (
	// EncodingRFC1738 encodes spaces as '+', like PHP_QUERY_RFC1738 and url.QueryEscape.
	EncodingRFC1738 EncodingType = "rfc1738"
	// EncodingRFC3986 encodes spaces as "%20", like PHP_QUERY_RFC3986.
	EncodingRFC3986 EncodingType = "rfc3986"
)

const (
	CompressionNone    CompressionType = ""
	CompressionGzip    CompressionType = "gzip"
	CompressionDeflate CompressionType = "deflate"
	CompressionBrotli  CompressionType = "br"
	CompressionCustom  CompressionType = "custom"
)

const (
	IdentifierNone UniqueIdentifierType = ""
	IdentifierUUID UniqueIdentifierType = "uuid"
	IdentifierULID UniqueIdentifierType = "ulid"
)

// Option provides configuration for building query strings and form bodies. It controls
// how keys and values are escaped, a few PHP compatibility switches, logging and the
// compression applied to form bodies.
// If no options are provided when building, a default configuration is automatically generated.
type Option struct {
	Verbose               bool                                      // Whether logging should be verbose or not
	Logger                slog.Logger                               // Logging - default uses the slog TextHandler
	Encoding              EncodingType                              // rfc1738 (default) or rfc3986
	NumericPrefix         string                                    // Prefix for numeric keys at the root, like PHP numeric_prefix
	OmitNull              bool                                      // Skip null leaves instead of emitting "key="
	PHPBooleans           bool                                      // Render booleans as 1 and 0
	EscapeBrackets        bool                                      // Render structural brackets as %5B and %5D
	ProtocolScheme        string                                    // define a custom protocol scheme. It defaults to https
	Compression           CompressionType                           // CompressionType to use: none, gzip, deflate, brotli or custom
	CustomCompressionType CompressionType                           // Content-Encoding reported for custom compression
	CustomCompressor      func(w io.Writer) (io.WriteCloser, error) // Function for custom compression
	UniqueIdentifierType  UniqueIdentifierType                      // Identifier attached to each build in the logs
}

// New creates a default Option with pre-configured settings. If additional options are provided
// via the variadic parameter, they will be merged with the default settings, with the provided
// options taking precedence.
func New(opts ...*Option) *Option {
	opt := &Option{
		Verbose:              false,
		Logger:               *slog.New(slog.NewTextHandler(os.Stdout, nil)),
		Encoding:             EncodingRFC1738,
		Compression:          CompressionNone,
		UniqueIdentifierType: IdentifierULID,
	}

	// If an Option is provided as a variadic merge it with the default one.
	// The source (opts[0]) takes preference when assigning variables.
	if len(opts) > 0 && opts[0] != nil {
		opt.Merge(opts[0])
	}

	return opt
}

// LogVerbose logs a message with the configured logger if verbose logging is enabled.
// The message will be logged at INFO level with any additional arguments provided.
func (opt *Option) LogVerbose(msg string, args ...any) {
	if opt.Verbose {
		opt.Logger.Info(msg, args...)
	}
}

// EnableLogging turns on verbose logging for the Option instance.
func (opt *Option) EnableLogging() {
	opt.Verbose = true
}

// DisableLogging turns off verbose logging for the Option instance.
func (opt *Option) DisableLogging() {
	opt.Verbose = false
}

// UseTextLogger configures the Option to use a text-based logger and enables verbose logging.
func (opt *Option) UseTextLogger() {
	opt.Verbose = true
	opt.Logger = *slog.New(slog.NewTextHandler(os.Stdout, nil))
}

// UseJsonLogger configures the Option to use a JSON-based logger and enables verbose logging.
func (opt *Option) UseJsonLogger() {
	opt.Verbose = true
	opt.Logger = *slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// SetLogger configures a custom logger and enables verbose logging.
func (opt *Option) SetLogger(logger *slog.Logger) {
	opt.Verbose = true
	opt.Logger = *logger
}

// SetEncoding selects how spaces and reserved characters are escaped.
// Unknown values fall back to rfc1738 when escaping.
func (opt *Option) SetEncoding(encoding EncodingType) {
	opt.Encoding = encoding
}

// SetProtocolScheme sets the protocol scheme (e.g., "http://", "https://") used by query.URL.
// If the provided scheme doesn't end with "://", it will be automatically appended.
func (opt *Option) SetProtocolScheme(scheme string) {
	if !strings.HasSuffix(scheme, "://") {
		scheme += "://"
	}
	opt.ProtocolScheme = scheme
}

// SetCompression configures the compression type used for form bodies.
func (opt *Option) SetCompression(compressionType CompressionType) {
	opt.Compression = compressionType
}

// Escape percent-encodes a single key segment or value for a query component.
func (opt *Option) Escape(s string) string {
	escaped := url.QueryEscape(s)
	if opt.Encoding == EncodingRFC3986 {
		// QueryEscape turns a literal '+' into %2B, so every remaining '+' is a space.
		return strings.ReplaceAll(escaped, "+", "%20")
	}
	return escaped
}

// GetCompressor returns an appropriate io.WriteCloser based on the configured compression type.
// Returns an error if the compression type is unsupported or if a custom compressor
// is not properly configured.
func (opt *Option) GetCompressor(w io.Writer) (io.WriteCloser, error) {
	switch opt.Compression {
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionDeflate:
		return zlib.NewWriter(w), nil
	case CompressionBrotli:
		return brotli.NewWriter(w), nil
	case CompressionCustom:
		if opt.CustomCompressor != nil {
			return opt.CustomCompressor(w)
		}
		return nil, fmt.Errorf("custom compressor function is not defined")
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", opt.Compression)
	}
}

// ContentEncoding returns the Content-Encoding value matching the configured compression.
// It is empty when no compression is configured.
func (opt *Option) ContentEncoding() string {
	switch opt.Compression {
	case CompressionNone:
		return ""
	case CompressionCustom:
		if opt.CustomCompressionType != "" {
			return string(opt.CustomCompressionType)
		}
		return "application/octet-stream"
	}
	return string(opt.Compression)
}

// GenerateIdentifier creates a unique identifier based on the configured UniqueIdentifierType.
// Returns a UUID or ULID string, or an empty string if no identifier type is configured.
func (opt *Option) GenerateIdentifier() string {
	switch opt.UniqueIdentifierType {
	case IdentifierUUID:
		return uuid.New().String()
	case IdentifierULID:
		return ulid.Make().String()
	}
	return ""
}

// Merge combines the settings from another Option instance into this one.
// Settings from the source Option take precedence over existing settings.
func (opt *Option) Merge(src *Option) {
	// Merge boolean fields with source priority
	opt.Verbose = src.Verbose
	opt.OmitNull = src.OmitNull
	opt.PHPBooleans = src.PHPBooleans
	opt.EscapeBrackets = src.EscapeBrackets

	// A zero Logger has no handler and would panic when used
	if src.Logger.Handler() != nil {
		opt.Logger = src.Logger
	}

	// Merge string fields if source is not empty
	if src.Encoding != "" {
		opt.Encoding = src.Encoding
	}

	if src.NumericPrefix != "" {
		opt.NumericPrefix = src.NumericPrefix
	}

	if src.ProtocolScheme != "" {
		opt.ProtocolScheme = src.ProtocolScheme
	}

	if src.Compression != "" {
		opt.Compression = src.Compression
	}

	if src.CustomCompressionType != "" {
		opt.CustomCompressionType = src.CustomCompressionType
	}

	if src.CustomCompressor != nil {
		opt.CustomCompressor = src.CustomCompressor
	}

	if src.UniqueIdentifierType != "" {
		opt.UniqueIdentifierType = src.UniqueIdentifierType
	}
}
