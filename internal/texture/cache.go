package texture

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"garment-texture-studio/internal/logging"
)

// ErrAssetFetch marks a template or generated-image download failure.
var ErrAssetFetch = errors.New("texture: asset fetch failed")

// Resolver resolves an asset URL to a decoded image.
type Resolver interface {
	Resolve(ctx context.Context, src string) (*image.NRGBA, error)
}

// Cache is a concurrency-safe asset cache. Decoded images are kept in memory;
// raw bytes are mirrored to Dir when it is set so later runs skip the network.
// Failures are not memoized: asking again retries.
type Cache struct {
	Dir    string
	Client *http.Client

	mu    sync.RWMutex
	items map[string]*image.NRGBA
}

// NewCache creates a cache storing files under dir (may be empty).
func NewCache(dir string) *Cache {
	return &Cache{
		Dir:    dir,
		Client: &http.Client{Timeout: 15 * time.Second},
		items:  make(map[string]*image.NRGBA),
	}
}

// Resolve returns the decoded asset at src, loading it on first use.
func (c *Cache) Resolve(ctx context.Context, src string) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if img, ok := c.items[src]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := c.load(ctx, src)
	if err != nil {
		return nil, err
	}

	// Write lock with double-check
	c.mu.Lock()
	if existing, ok := c.items[src]; ok {
		c.mu.Unlock()
		return existing, nil
	}
	c.items[src] = img
	c.mu.Unlock()

	return img, nil
}

// ResolveAsync resolves src on a new goroutine and hands the result to done.
func (c *Cache) ResolveAsync(ctx context.Context, src string, done func(*image.NRGBA, error)) {
	go func() {
		img, err := c.Resolve(ctx, src)
		done(img, err)
	}()
}

func (c *Cache) load(ctx context.Context, src string) (*image.NRGBA, error) {
	cached := c.diskPath(src)
	if cached != "" {
		if raw, err := os.ReadFile(cached); err == nil {
			if img, _, err := Decode(raw); err == nil {
				return img, nil
			}
			logging.Logger().Warn("discarding unreadable cached asset", "path", cached)
		}
	}

	raw, err := Download(ctx, c.Client, src)
	if err != nil {
		logging.Logger().Warn("asset fetch failed", "url", src, "err", err)
		return nil, err
	}
	img, _, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetFetch, src, err)
	}

	if cached != "" {
		if err := os.MkdirAll(filepath.Dir(cached), 0755); err == nil {
			if err := os.WriteFile(cached, raw, 0644); err != nil {
				logging.Logger().Warn("asset cache write failed", "path", cached, "err", err)
			}
		}
	}
	logging.Logger().Info("asset loaded", "url", src, "size", img.Bounds().Size())
	return img, nil
}

// Download performs a GET and returns the body, wrapping failures in ErrAssetFetch.
func Download(ctx context.Context, client *http.Client, src string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetFetch, src, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetFetch, src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %s", ErrAssetFetch, src, resp.Status)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrAssetFetch, src, err)
	}
	return raw, nil
}

func (c *Cache) diskPath(src string) string {
	if c.Dir == "" {
		return ""
	}
	return filepath.Join(c.Dir, cacheName(src))
}

// cacheName derives a stable file name from the URL's last path element.
func cacheName(rawURL string) string {
	base := "asset"
	if u, err := url.Parse(rawURL); err == nil {
		if b := path.Base(u.Path); b != "" && b != "." && b != "/" {
			base = b
		}
	}
	h := fnv.New32a()
	h.Write([]byte(rawURL))
	return fmt.Sprintf("%08x_%s", h.Sum32(), base)
}
