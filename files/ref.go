package files

import (
	"context"
	"fmt"

	"github.com/byte4ever/repofiles/hosting"
)

// UpdateRef points ref (e.g. "heads/main") at sha.
// With force set the update overwrites whatever the
// reference held.
func UpdateRef(
	ctx context.Context,
	git hosting.GitData,
	owner string,
	repo string,
	ref string,
	sha string,
	force bool,
) (*hosting.BranchReference, error) {
	const errCtx = "updating ref"

	out, err := git.UpdateRef(ctx, owner, repo, ref, sha, force)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, ref, err,
		)
	}

	if out == nil || out.Object.SHA == "" {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, ref,
			hosting.Malformedf("reference without object sha"),
		)
	}

	return out, nil
}
