package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"EconomyBench/internal/model"
)

// Source supplies a catalog document.
type Source interface {
	Load(ctx context.Context) (*model.Catalog, error)
	Name() string
}

// FileSource reads a YAML or JSON catalog from disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a Source for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Name() string { return "file:" + f.Path }

// Load reads and parses the file. The file is re-read on every call so a
// long-running process picks up catalog edits.
func (f *FileSource) Load(_ context.Context) (*model.Catalog, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", f.Path, err)
	}
	return Parse(data)
}

// HTTPSource fetches a catalog document published over HTTP, such as the
// generated economy data of a game build.
type HTTPSource struct {
	Client *http.Client
	URL    string
}

// NewHTTPSource creates an HTTP catalog source with an optional proxy.
func NewHTTPSource(rawURL, proxyURL string) *HTTPSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPSource{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		URL: rawURL,
	}
}

func (h *HTTPSource) Name() string { return "http:" + h.URL }

func (h *HTTPSource) Load(ctx context.Context) (*model.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog body: %w", err)
	}
	return Parse(data)
}

// StaticSource returns a fixed catalog, for development and testing.
type StaticSource struct {
	Catalog *model.Catalog
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Load(_ context.Context) (*model.Catalog, error) {
	if s.Catalog == nil {
		return nil, fmt.Errorf("static source has no catalog")
	}
	Normalize(s.Catalog)
	return s.Catalog, nil
}

// NewSource picks an HTTP source for http(s) locations and a file source
// otherwise.
func NewSource(location, proxyURL string) Source {
	if u, err := url.Parse(location); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return NewHTTPSource(location, proxyURL)
	}
	return NewFileSource(location)
}
