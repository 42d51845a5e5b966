package svgdoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
)

// Fetcher retrieves an SVG asset by name.
type Fetcher interface {
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)
}

// FSFetcher reads assets from a file system, such
// as an embed.FS or os.DirFS.
type FSFetcher struct {
	FS fs.FS
}

func (f FSFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.FS.Open(name)
}

// HTTPFetcher downloads assets relative to BaseURL.
// A nil Client means http.DefaultClient.
type HTTPFetcher struct {
	Client  *http.Client
	BaseURL string
}

func (f HTTPFetcher) Fetch(ctx context.Context, name string) (io.ReadCloser, error) {
	url := strings.TrimSuffix(f.BaseURL, "/") + "/" + strings.TrimPrefix(name, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching %s: unexpected status %s", url, resp.Status)
	}
	return resp.Body, nil
}

// ErrInvalidDocument is matched by the errors of FetchDocument
// caused by the content of the asset rather than its retrieval.
var ErrInvalidDocument = errors.New("invalid svg document")

type invalidDocumentError struct {
	name string
	err  error
}

func (e invalidDocumentError) Error() string {
	return fmt.Sprintf("svgdoc: parsing %s: %s", e.name, e.err)
}

func (e invalidDocumentError) Unwrap() error { return e.err }

func (e invalidDocumentError) Is(target error) bool { return target == ErrInvalidDocument }

// FetchDocument fetches and parses the named asset.
// Fetcher errors are returned as is, parsing errors
// match ErrInvalidDocument.
func FetchDocument(ctx context.Context, f Fetcher, name string) (*Document, error) {
	rc, err := f.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	doc, err := ReadDocumentStream(rc)
	if err != nil {
		return nil, invalidDocumentError{name: name, err: err}
	}
	return doc, nil
}
