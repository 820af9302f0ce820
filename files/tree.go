package files

import (
	"context"
	"fmt"

	"github.com/byte4ever/repofiles/hosting"
)

// BuildTree creates a tree holding edits on top of
// baseTreeSHA, which may name a tree or a commit.
// Listed paths are replaced or added; all other paths
// of the base are kept. Duplicate or empty paths are
// rejected before any remote call.
func BuildTree(
	ctx context.Context,
	git hosting.GitData,
	owner string,
	repo string,
	edits []hosting.FileEdit,
	baseTreeSHA string,
) (*hosting.TreeDescriptor, error) {
	const errCtx = "building tree"

	if err := validateEdits(edits); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	entries := make([]hosting.TreeEntry, 0, len(edits))
	for _, e := range edits {
		entries = append(entries, hosting.TreeEntry{
			Path:    e.Path,
			Mode:    hosting.FileMode,
			Type:    hosting.BlobType,
			Content: e.Content,
		})
	}

	tree, err := git.CreateTree(
		ctx, owner, repo,
		hosting.TreeRequest{
			Entries:  entries,
			BaseTree: baseTreeSHA,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if tree == nil || tree.SHA == "" {
		return nil, fmt.Errorf(
			"%s: %w", errCtx,
			hosting.Malformedf("tree without sha"),
		)
	}

	return tree, nil
}

// validateEdits requires a non-empty list of edits
// with distinct, non-empty paths.
func validateEdits(edits []hosting.FileEdit) error {
	if len(edits) == 0 {
		return hosting.Invalidf("no file edits")
	}

	seen := make(map[string]struct{}, len(edits))

	for i, e := range edits {
		if e.Path == "" {
			return hosting.Invalidf("edit %d: empty path", i)
		}

		if _, ok := seen[e.Path]; ok {
			return hosting.Invalidf(
				"edit %d: duplicate path %q", i, e.Path,
			)
		}

		seen[e.Path] = struct{}{}
	}

	return nil
}
