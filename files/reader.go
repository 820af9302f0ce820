package files

import (
	"context"
	"fmt"

	"github.com/byte4ever/repofiles/hosting"
)

// Reader reads file contents and directory listings.
type Reader struct {
	contents hosting.ContentStore
}

// NewReader returns a Reader backed by contents.
func NewReader(contents hosting.ContentStore) *Reader {
	return &Reader{contents: contents}
}

// Read returns the decoded file at path, or the listing
// when path is a directory. An empty ref reads the
// default branch.
func (r *Reader) Read(
	ctx context.Context,
	owner string,
	repo string,
	path string,
	ref string,
) (*hosting.Contents, error) {
	const errCtx = "reading contents"

	if owner == "" || repo == "" {
		return nil, fmt.Errorf(
			"%s: %w", errCtx,
			hosting.Invalidf("owner and repo must be set"),
		)
	}

	got, err := r.contents.GetContents(ctx, owner, repo, path, ref)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path, err,
		)
	}

	if got == nil || (got.File == nil && got.Dir == nil) {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, path,
			hosting.Malformedf("neither file nor listing"),
		)
	}

	return got, nil
}
