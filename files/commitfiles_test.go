package files_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/repofiles/files"
	"github.com/byte4ever/repofiles/hosting"
)

func TestCommitFiles(t *testing.T) {
	t.Parallel()

	fr := newFakeRemote()

	ref, err := files.CommitFiles(
		context.Background(), fr,
		pushReq(
			hosting.FileEdit{Path: "a.txt", Content: "X"},
			hosting.FileEdit{Path: "b.txt", Content: "Y"},
		),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"commit-files"}, fr.callLog())
	assert.Equal(t, fr.head("heads/main"), ref.Object.SHA)
	assert.Equal(t, map[string]string{
		"readme.md": "hello",
		"a.txt":     "X",
		"b.txt":     "Y",
	}, fr.treeOf(ref.Object.SHA))
}

func TestCommitFiles_invalid_edits_make_no_call(t *testing.T) {
	t.Parallel()

	fr := newFakeRemote()

	_, err := files.CommitFiles(
		context.Background(), fr,
		pushReq(
			hosting.FileEdit{Path: "a.txt"},
			hosting.FileEdit{Path: "a.txt"},
		),
	)

	require.ErrorIs(t, err, hosting.ErrInvalidArgument)
	assert.Empty(t, fr.callLog())
}

func TestCommitFiles_branch_not_found(t *testing.T) {
	t.Parallel()

	fr := newFakeRemote()
	req := pushReq(hosting.FileEdit{Path: "a.txt"})
	req.Branch = "gone"

	_, err := files.CommitFiles(context.Background(), fr, req)

	assert.ErrorIs(t, err, hosting.ErrBranchNotFound)
}

func TestCommitFiles_reference_without_sha(t *testing.T) {
	t.Parallel()

	commits := commitsFunc(func(
		_ context.Context, _, _ string, _ hosting.CommitFilesRequest,
	) (*hosting.BranchReference, error) {
		return &hosting.BranchReference{Ref: "refs/heads/main"}, nil
	})

	_, err := files.CommitFiles(
		context.Background(), commits,
		pushReq(hosting.FileEdit{Path: "a.txt"}),
	)

	assert.ErrorIs(t, err, hosting.ErrValidation)
}

func TestService_PushFiles_falls_back_to_commits(t *testing.T) {
	t.Parallel()

	fr := newFakeRemote()

	svc, err := files.NewService(files.ServiceConfig{
		Contents:        fr,
		Commits:         fr,
		MessageTemplate: "[{{branch}}] {{message}}",
		Author:          &hosting.Signature{Name: "bot"},
	})
	require.NoError(t, err)

	_, err = svc.PushFiles(
		context.Background(),
		pushReq(hosting.FileEdit{Path: "a.txt", Content: "X"}),
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"commit-files"}, fr.callLog())
	require.Len(t, fr.commitFilesReqs, 1)
	assert.Equal(t, "[main] push", fr.commitFilesReqs[0].Message)
	assert.Equal(t, "bot", fr.commitFilesReqs[0].Author.Name)
}

// commitsFunc adapts a function to hosting.Commits.
type commitsFunc func(
	ctx context.Context,
	owner, repo string,
	req hosting.CommitFilesRequest,
) (*hosting.BranchReference, error)

func (f commitsFunc) CommitFiles(
	ctx context.Context,
	owner string,
	repo string,
	req hosting.CommitFilesRequest,
) (*hosting.BranchReference, error) {
	return f(ctx, owner, repo, req)
}
