// Package cache maps remote attachment URLs to locally cached files
// with TTL expiry. Failure to fetch is never an error for callers: the
// original URL comes back unchanged and the task mutation that wanted
// the attachment is unaffected.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"
)

const DefaultTTL = 7 * 24 * time.Hour

type entry struct {
	Path      string    `json:"path"`
	FetchedAt time.Time `json:"fetched_at"`
}

type index struct {
	Entries map[string]entry `json:"entries"`
}

type Cache struct {
	dir    string
	ttl    time.Duration
	client *http.Client
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

func WithClient(client *http.Client) Option {
	return func(c *Cache) { c.client = client }
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New opens (or creates) a cache directory and loads its index.
func New(dir string, opts ...Option) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	c := &Cache{
		dir:     dir,
		ttl:     DefaultTTL,
		client:  &http.Client{Timeout: 30 * time.Second},
		now:     func() time.Time { return time.Now().UTC() },
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if err := c.loadIndex(); err != nil {
		return nil, err
	}
	return c, nil
}

// Resolve returns the local path of a fresh cached copy of uri,
// fetching and storing it on a miss. Any failure along the way falls
// back to returning uri unchanged.
func (c *Cache) Resolve(ctx context.Context, uri string) string {
	c.mu.Lock()
	if e, ok := c.entries[uri]; ok && c.now().Sub(e.FetchedAt) < c.ttl {
		if _, err := os.Stat(e.Path); err == nil {
			c.mu.Unlock()
			return e.Path
		}
		// Index entry without a file; treat as a miss.
		delete(c.entries, uri)
	}
	c.mu.Unlock()

	local, err := c.fetch(ctx, uri)
	if err != nil {
		return uri
	}

	c.mu.Lock()
	c.entries[uri] = entry{Path: local, FetchedAt: c.now()}
	err = c.saveIndexLocked()
	c.mu.Unlock()
	if err != nil {
		return uri
	}
	return local
}

// EvictExpired deletes every cached file older than the TTL.
func (c *Cache) EvictExpired() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for uri, e := range c.entries {
		if now.Sub(e.FetchedAt) < c.ttl {
			continue
		}
		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		delete(c.entries, uri)
	}
	return c.saveIndexLocked()
}

// ClearAll removes every cached entry regardless of age.
func (c *Cache) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for uri, e := range c.entries {
		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
			return err
		}
		delete(c.entries, uri)
	}
	return c.saveIndexLocked()
}

// Len reports how many entries the cache currently tracks.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) fetch(ctx context.Context, uri string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &url.Error{Op: "Get", URL: uri, Err: errUnexpectedStatus(resp.StatusCode)}
	}

	local := filepath.Join(c.dir, localName(uri))
	tmp := local + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, local); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return local, nil
}

// localName keys the file by a hash of the full URL, keeping the
// remote extension so viewers can infer the content type.
func localName(uri string) string {
	sum := sha256.Sum256([]byte(uri))
	name := hex.EncodeToString(sum[:8])
	if parsed, err := url.Parse(uri); err == nil {
		if ext := path.Ext(parsed.Path); ext != "" && len(ext) <= 8 {
			name += ext
		}
	}
	return name
}

func (c *Cache) indexPath() string {
	return filepath.Join(c.dir, "index.json")
}

func (c *Cache) loadIndex() error {
	raw, err := os.ReadFile(c.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	var idx index
	if err := json.Unmarshal(raw, &idx); err != nil {
		return err
	}
	if idx.Entries != nil {
		c.entries = idx.Entries
	}
	return nil
}

func (c *Cache) saveIndexLocked() error {
	payload, err := json.MarshalIndent(index{Entries: c.entries}, "", "  ")
	if err != nil {
		return err
	}
	tmp := c.indexPath() + ".tmp"
	if err := os.WriteFile(tmp, append(payload, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.indexPath())
}

type errUnexpectedStatus int

func (e errUnexpectedStatus) Error() string {
	return http.StatusText(int(e))
}
