package fetcher

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/dydl/pkg/domain/interfaces"
	"github.com/m-mizutani/dydl/pkg/domain/model"
	"github.com/m-mizutani/dydl/pkg/infra/douyin"
)

// DefaultChunkSize is the read buffer size of a transfer
const DefaultChunkSize = 8 << 10

// ProgressFunc receives a snapshot after every chunk written
type ProgressFunc func(ctx context.Context, p model.Progress)

type config struct {
	userAgent  string
	chunkSize  int
	httpClient *http.Client
	progress   ProgressFunc
}

// Option is a functional option for Fetcher configuration
type Option func(*config)

// WithUserAgent sets the User-Agent header of media requests
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithChunkSize sets the read buffer size. Non-positive values are ignored.
func WithChunkSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithHTTPClient sets the HTTP client used for media requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithTimeout sets a timeout on the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

// WithProgress replaces the default progress reporter
func WithProgress(fn ProgressFunc) Option {
	return func(c *config) {
		c.progress = fn
	}
}

type fetcher struct {
	cfg config
}

// New creates a MediaFetcher. Requests carry the same mobile User-Agent as the
// link resolver unless WithUserAgent overrides it.
func New(opts ...Option) interfaces.MediaFetcher {
	cfg := config{
		userAgent:  douyin.DefaultUserAgent,
		chunkSize:  DefaultChunkSize,
		httpClient: http.DefaultClient,
		progress:   logProgress,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &fetcher{cfg: cfg}
}

// Fetch streams url into dstPath. A failed transfer may leave a truncated file behind.
func (f *fetcher) Fetch(ctx context.Context, url, dstPath string) (int64, error) {
	logger := ctxlog.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create media request",
			goerr.V("url", url),
			goerr.T(model.ErrTagUpstream))
	}
	if f.cfg.userAgent != "" {
		req.Header.Set("User-Agent", f.cfg.userAgent)
	}

	resp, err := f.cfg.httpClient.Do(req)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to request media",
			goerr.V("url", url),
			goerr.T(model.ErrTagUpstream))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, goerr.New("unexpected status code of media",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
			goerr.T(model.ErrTagUpstream))
	}

	// -1 when Content-Length is absent
	total := resp.ContentLength

	file, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create destination file",
			goerr.V("path", dstPath),
			goerr.T(model.ErrTagIO))
	}
	defer file.Close()

	logger.Info("Downloading media", "path", dstPath, "content_length", total)

	buf := make([]byte, f.cfg.chunkSize)
	var written int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, err := file.Write(buf[:n]); err != nil {
				return written, goerr.Wrap(err, "failed to write destination file",
					goerr.V("path", dstPath),
					goerr.V("written", written),
					goerr.T(model.ErrTagIO))
			}
			written += int64(n)

			if f.cfg.progress != nil {
				f.cfg.progress(ctx, model.Progress{Written: written, Total: total})
			}
		}

		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return written, goerr.Wrap(readErr, "failed to read media stream",
				goerr.V("url", url),
				goerr.V("written", written),
				goerr.T(model.ErrTagUpstream))
		}
	}

	if err := file.Close(); err != nil {
		return written, goerr.Wrap(err, "failed to close destination file",
			goerr.V("path", dstPath),
			goerr.T(model.ErrTagIO))
	}

	logger.Info("Downloaded media", "path", dstPath, "size_bytes", written)
	return written, nil
}

func logProgress(ctx context.Context, p model.Progress) {
	if !p.Known() {
		return
	}
	ctxlog.From(ctx).Debug("Download progress",
		"written", p.Written,
		"total", p.Total,
		"percent", p.Percent(),
	)
}
