package content

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/byte4ever/repofiles/hosting"
)

// Fetcher retrieves a remote document as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherFunc adapts a plain function to the Fetcher
// interface.
type FetcherFunc func(
	ctx context.Context,
	url string,
) (string, error)

// Fetch delegates to the wrapped function.
func (f FetcherFunc) Fetch(
	ctx context.Context,
	url string,
) (string, error) {
	return f(ctx, url)
}

// maxDocumentSize caps how much of a document is read.
const maxDocumentSize = 10 << 20

// HTTPFetcher fetches documents with a plain GET.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher with its own
// pooled client. A zero timeout means no client-side
// limit beyond ctx.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = timeout

	return &HTTPFetcher{client: client}
}

// Fetch GETs url and returns the body. Non-2xx
// responses are reported as *hosting.RemoteError.
func (f *HTTPFetcher) Fetch(
	ctx context.Context,
	url string,
) (string, error) {
	const errCtx = "fetching document"

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, url, nil,
	)
	if err != nil {
		return "", fmt.Errorf(
			"%s: %w: build request: %v",
			errCtx, hosting.ErrInvalidArgument, err,
		)
	}

	req.Header.Set(
		"Accept",
		"text/html, text/plain, text/markdown;q=0.9, */*;q=0.8",
	)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &hosting.RemoteError{Op: errCtx, Err: err}
	}

	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(
		io.LimitReader(resp.Body, maxDocumentSize),
	)
	if err != nil {
		return "", &hosting.RemoteError{
			Op:         errCtx,
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn(
			"document fetch failed",
			"url", url,
			"status", resp.Status,
		)

		return "", &hosting.RemoteError{
			Op:         errCtx,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	slog.Info(
		"fetched document",
		"url", url,
		"status", resp.Status,
		"bytes", len(body),
	)

	return string(body), nil
}
