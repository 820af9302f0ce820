package files

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/byte4ever/repofiles/hosting"
)

// CommitFiles lands req as one commit through a
// backend that commits several files in a single call.
// The remote appends the commit to the current branch
// head, so req.NoForce has nothing to guard.
func CommitFiles(
	ctx context.Context,
	commits hosting.Commits,
	req PushRequest,
) (*hosting.BranchReference, error) {
	const errCtx = "committing files"

	if err := validatePush(req); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	ref, err := commits.CommitFiles(
		ctx, req.Owner, req.Repo,
		hosting.CommitFilesRequest{
			Branch:  req.Branch,
			Message: req.Message,
			Edits:   req.Edits,
			Author:  req.Author,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	if ref == nil || ref.Object.SHA == "" {
		return nil, fmt.Errorf(
			"%s: %w", errCtx,
			hosting.Malformedf("reference without object sha"),
		)
	}

	slog.Info(
		"committed files",
		"repo", req.Owner+"/"+req.Repo,
		"branch", req.Branch,
		"commit", ref.Object.SHA,
		"files", len(req.Edits),
	)

	return ref, nil
}
