package builtin

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"

	"github.com/conorfennell/flashdeck/internal/gitsource"
)

// Fetcher returns the text stored under a name.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (string, error)
}

// Syncer is implemented by fetchers that must refresh a local copy before
// files can be fetched.
type Syncer interface {
	Sync(ctx context.Context) error
}

// HTTPFetcher fetches files relative to a base URL.
type HTTPFetcher struct {
	client *resty.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{client: resty.New().SetBaseURL(baseURL)}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, name string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(name)
	if err != nil {
		return "", fmt.Errorf("failed to request %s: %w", name, err)
	}
	if res.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d for %s", res.StatusCode(), name)
	}
	return string(res.Body()), nil
}

// DirFetcher reads files below a local directory.
type DirFetcher struct {
	Dir string
}

func (f DirFetcher) Fetch(_ context.Context, name string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(name)) {
		return "", fmt.Errorf("file name %q leaves the lesson directory", name)
	}
	data, err := os.ReadFile(filepath.Join(f.Dir, filepath.FromSlash(name)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GitFetcher reads files from a local checkout of a git repository, which
// Sync clones or pulls.
type GitFetcher struct {
	URL      string
	Checkout string
}

func (f GitFetcher) Sync(ctx context.Context) error {
	return gitsource.Sync(ctx, f.URL, f.Checkout)
}

func (f GitFetcher) Fetch(ctx context.Context, name string) (string, error) {
	return DirFetcher{Dir: f.Checkout}.Fetch(ctx, name)
}
