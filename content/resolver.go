package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/byte4ever/repofiles/hosting"
)

// Source names where content comes from. Exactly one
// of Content and DocumentURL must be set; an empty
// literal is still a literal.
type Source struct {
	Content     *string
	DocumentURL string
}

// Resolver turns a Source into the text to write.
type Resolver struct {
	fetcher Fetcher
}

// NewResolver returns a Resolver that fetches documents
// with fetcher.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// Resolve returns the literal content verbatim, or
// fetches the document and extracts its only code
// block. Invalid sources fail before any fetch.
func (r *Resolver) Resolve(
	ctx context.Context,
	src Source,
) (string, error) {
	const errCtx = "resolving content"

	hasContent := src.Content != nil
	hasURL := src.DocumentURL != ""

	switch {
	case hasContent && hasURL:
		return "", fmt.Errorf(
			"%s: %w", errCtx, hosting.Invalidf(
				"content and document url are mutually exclusive",
			),
		)
	case !hasContent && !hasURL:
		return "", fmt.Errorf(
			"%s: %w", errCtx, hosting.Invalidf(
				"one of content or document url is required",
			),
		)
	case hasContent:
		return *src.Content, nil
	}

	doc, err := r.fetcher.Fetch(ctx, src.DocumentURL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	text, err := ExtractCodeBlock(doc)
	if err != nil {
		var ee *ExtractionError
		if errors.As(err, &ee) {
			ee.URL = src.DocumentURL
		}

		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return text, nil
}
