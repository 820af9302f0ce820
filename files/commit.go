package files

import (
	"context"
	"fmt"

	"github.com/byte4ever/repofiles/hosting"
)

// BuildCommit creates a commit of req.TreeSHA with
// exactly req.ParentSHAs as parents.
func BuildCommit(
	ctx context.Context,
	git hosting.GitData,
	owner string,
	repo string,
	req hosting.CommitRequest,
) (*hosting.CommitDescriptor, error) {
	const errCtx = "building commit"

	commit, err := git.CreateCommit(ctx, owner, repo, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if commit == nil || commit.SHA == "" {
		return nil, fmt.Errorf(
			"%s: %w", errCtx,
			hosting.Malformedf("commit without sha"),
		)
	}

	return commit, nil
}
