// Package fetcher downloads the administrative boundary shapefile used to
// pre-filter taxi drop-offs. Downloads are rate limited and retried with
// exponential backoff so a flaky open-data server does not fail a run.
package fetcher

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wheretodine/hotspot-cli/internal/config"
)

// Fetcher downloads files over HTTP with rate limiting and retries.
type Fetcher struct {
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	userAgent  string
}

// New creates a Fetcher from the fetch configuration.
func New(cfg config.FetchConfig) *Fetcher {
	ratePerSecond := cfg.RatePerSecond
	if ratePerSecond <= 0 {
		ratePerSecond = 2
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		maxRetries: maxRetries,
		userAgent:  "hotspot-cli/1.0",
	}
}

// DownloadToFile fetches the URL and writes the body to the given path.
// Returns the number of bytes written.
func (f *Fetcher) DownloadToFile(ctx context.Context, rawURL, path string) (int64, error) {
	body, err := f.download(ctx, rawURL)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, eris.Wrap(err, "fetcher: create download dir")
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "fetcher: create file")
	}
	defer file.Close() //nolint:errcheck

	n, err := io.Copy(file, body)
	if err != nil {
		return n, eris.Wrap(err, "fetcher: write file")
	}
	return n, nil
}

func (f *Fetcher) download(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "fetcher: create request")
	}
	req.Header.Set("User-Agent", f.userAgent)

	log := zap.L().With(zap.String("component", "fetcher"))

	var lastErr error
	for attempt := range f.maxRetries {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "fetcher: rate limiter wait")
		}

		resp, err := f.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			log.Warn("request failed, retrying",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			f.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			_ = resp.Body.Close()
			lastErr = eris.Errorf("fetcher: http %d from %s", resp.StatusCode, rawURL)
			log.Warn("retryable status, backing off",
				zap.String("url", rawURL),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			f.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, eris.Errorf("fetcher: unexpected status %d from %s", resp.StatusCode, rawURL)
		}

		return resp.Body, nil
	}

	return nil, eris.Wrap(lastErr, "fetcher: all retries exhausted")
}

func (f *Fetcher) backoff(ctx context.Context, attempt int) {
	base := time.Second
	maxBackoff := 30 * time.Second
	d := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if d > maxBackoff {
		d = maxBackoff
	}
	d += time.Duration(rand.Int64N(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// FetchBoundary downloads the boundary shapefile ZIP, extracts it, and
// returns the path to the .shp file inside.
func FetchBoundary(ctx context.Context, cfg config.FetchConfig) (string, error) {
	if cfg.BoundaryURL == "" {
		return "", eris.New("fetcher: boundary URL not configured")
	}
	tempDir := cfg.TempDir
	if tempDir == "" {
		tempDir = filepath.Join(os.TempDir(), "hotspot-cli")
	}
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetcher: create temp dir")
	}

	log := zap.L().With(zap.String("component", "fetcher"))
	log.Info("downloading boundary shapefile", zap.String("url", cfg.BoundaryURL))

	zipPath := filepath.Join(tempDir, "boundary.zip")
	n, err := New(cfg).DownloadToFile(ctx, cfg.BoundaryURL, zipPath)
	if err != nil {
		return "", eris.Wrap(err, "fetcher: download boundary")
	}
	log.Info("boundary downloaded", zap.Int64("bytes", n))

	extractDir := filepath.Join(tempDir, "boundary")
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "fetcher: create extract dir")
	}
	if _, err := ExtractZIP(zipPath, extractDir); err != nil {
		return "", eris.Wrap(err, "fetcher: extract boundary ZIP")
	}

	shpPath, err := FindFileByExt(extractDir, ".shp")
	if err != nil {
		return "", eris.Wrap(err, "fetcher: locate .shp file")
	}
	log.Info("boundary shapefile ready", zap.String("path", shpPath))
	return shpPath, nil
}

// FindFileByExt returns the first file with the given extension found under
// dir, walking subdirectories in lexical order.
func FindFileByExt(dir, ext string) (string, error) {
	var found string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if found == "" && !d.IsDir() && filepath.Ext(path) == ext {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: walk %s", dir)
	}
	if found == "" {
		return "", eris.Errorf("fetcher: no %s file under %s", ext, dir)
	}
	return found, nil
}
