package form

import (
	"bytes"
	"fmt"
	"io"

	query "github.com/caelisco/http-query"
	"github.com/caelisco/http-query/options"
)

const ContentType = "application/x-www-form-urlencoded"

// Encode builds the x-www-form-urlencoded body for params.
func Encode(params *query.Map, opts ...*options.Option) []byte {
	return []byte(query.Build(params, opts...))
}

// NewReader returns the form body for params together with its size.
// When compression is configured the body is compressed while it is read and the size
// is reported as -1, since it is not known in advance. The matching Content-Encoding
// is available from the option's ContentEncoding method.
// The caller must read the body to EOF or close it; closing early stops the compressor.
func NewReader(params *query.Map, opts ...*options.Option) (io.ReadCloser, int64, error) {
	opt := options.New(opts...)
	body := Encode(params, opt)

	if opt.Compression == options.CompressionNone {
		return io.NopCloser(bytes.NewReader(body)), int64(len(body)), nil
	}

	opt.LogVerbose("Compressing form body", "compression type", opt.Compression, "size", len(body))
	pr, pw := io.Pipe()
	// Goroutine to handle compression and closing of resources
	go func() {
		compressor, err := opt.GetCompressor(pw)
		if err != nil {
			pw.CloseWithError(fmt.Errorf("unable to create compressor: %w", err))
			return
		}

		if _, err := io.Copy(compressor, bytes.NewReader(body)); err != nil {
			compressor.Close()
			pw.CloseWithError(fmt.Errorf("compression error during copy: %w", err))
			return
		}
		// Close flushes the compressor's trailer into the pipe
		if err := compressor.Close(); err != nil {
			pw.CloseWithError(fmt.Errorf("compression error during close: %w", err))
			return
		}
		pw.Close()
	}()

	return pr, -1, nil
}
