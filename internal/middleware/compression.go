package middleware

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"

	"ember/internal/httpwire"
	"ember/internal/router"
)

type compressionConfig struct {
	level               int
	excludeContentTypes map[string]bool
}

// CompressionOption configures NewCompression.
type CompressionOption func(*compressionConfig)

// WithCompressionLevel sets the gzip level, gzip.DefaultCompression (-1)
// through gzip.BestCompression (9). Default: gzip.DefaultCompression.
func WithCompressionLevel(level int) CompressionOption {
	return func(c *compressionConfig) { c.level = level }
}

// WithExcludeContentTypes skips compression for responses whose
// Content-Type contains one of these substrings (e.g. already-compressed
// image formats).
func WithExcludeContentTypes(contentTypes ...string) CompressionOption {
	return func(c *compressionConfig) {
		for _, ct := range contentTypes {
			c.excludeContentTypes[ct] = true
		}
	}
}

// NewCompression returns post-route middleware that gzip-encodes the
// response body when the client sends Accept-Encoding: gzip.
//
// The core's ResponseWriter computes Content-Length at write time from
// the literal, uncompressed body a handler hands it (spec §4.3's
// WriteJSON/WriteText/WriteHTML helpers), so there is no seam to
// compress a body in flight without also rewriting the length it already
// declared. This middleware instead redirects the handler's entire
// output into a buffer, then — once the handler has finished and the
// true response size is known — splits the buffered bytes at the
// header/body boundary, gzips the body, substitutes a corrected
// Content-Length, and forwards the result to the real connection.
func NewCompression(opts ...CompressionOption) router.Middleware {
	cfg := compressionConfig{
		level:               gzip.DefaultCompression,
		excludeContentTypes: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next router.Handler) router.Handler {
		return func(req *httpwire.Request, resp *httpwire.ResponseWriter) error {
			if !strings.Contains(req.GetHeaderString("Accept-Encoding"), "gzip") {
				return next(req, resp)
			}

			var buf bytes.Buffer
			real := resp.SetWriter(&buf)

			err := next(req, resp)
			if flushErr := resp.Flush(); flushErr != nil && err == nil {
				err = flushErr
			}
			resp.SetWriter(real)

			raw := buf.Bytes()
			sep := bytes.Index(raw, []byte("\r\n\r\n"))
			if sep < 0 || len(raw) == sep+4 {
				// No body (e.g. 204, HEAD) or malformed: forward unchanged.
				_, werr := real.Write(raw)
				if werr != nil && err == nil {
					err = werr
				}
				return err
			}

			headerBlock, body := raw[:sep], raw[sep+4:]
			contentType := headerValue(headerBlock, "Content-Type")
			excluded := false
			for ct := range cfg.excludeContentTypes {
				if strings.Contains(contentType, ct) {
					excluded = true
					break
				}
			}
			if excluded || len(body) == 0 {
				_, werr := real.Write(raw)
				if werr != nil && err == nil {
					err = werr
				}
				return err
			}

			var compressed bytes.Buffer
			gz, gzErr := gzip.NewWriterLevel(&compressed, cfg.level)
			if gzErr != nil {
				_, werr := real.Write(raw)
				if werr != nil && err == nil {
					err = werr
				}
				return err
			}
			gz.Write(body)
			gz.Close()

			headerBlock = stripHeaderLine(headerBlock, "Content-Length")
			headerBlock = append(headerBlock, "\r\nContent-Encoding: gzip\r\nContent-Length: "+
				strconv.Itoa(compressed.Len())...)

			if _, werr := real.Write(headerBlock); werr != nil {
				if err == nil {
					err = werr
				}
				return err
			}
			if _, werr := real.Write([]byte("\r\n\r\n")); werr != nil {
				if err == nil {
					err = werr
				}
				return err
			}
			if _, werr := real.Write(compressed.Bytes()); werr != nil {
				if err == nil {
					err = werr
				}
			}
			return err
		}
	}
}

// headerValue extracts a header's value from a raw status-line+headers
// block by case-insensitive name match, or "" if absent.
func headerValue(block []byte, name string) string {
	for _, line := range strings.Split(string(block), "\r\n") {
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
			return strings.TrimSpace(line[idx+1:])
		}
	}
	return ""
}

// stripHeaderLine removes any header line matching name (case-insensitive)
// from a raw status-line+headers block.
func stripHeaderLine(block []byte, name string) []byte {
	lines := strings.Split(string(block), "\r\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		idx := strings.IndexByte(line, ':')
		if idx >= 0 && strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
			continue
		}
		out = append(out, line)
	}
	return []byte(strings.Join(out, "\r\n"))
}
