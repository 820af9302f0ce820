package files_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/repofiles/files"
	"github.com/byte4ever/repofiles/hosting"
)

func TestBuildTree_without_base(t *testing.T) {
	t.Parallel()

	fr := newFakeRemote()

	tree, err := files.BuildTree(
		context.Background(), fr, "org", "repo",
		[]hosting.FileEdit{{Path: "only.txt", Content: "1"}},
		"",
	)

	require.NoError(t, err)
	assert.Empty(t, fr.treeReqs[0].BaseTree)
	assert.Equal(
		t, map[string]string{"only.txt": "1"}, fr.trees[tree.SHA],
	)
}

func TestBuildTree_missing_sha_is_validation_error(
	t *testing.T,
) {
	t.Parallel()

	gd := hosting.GitDataFuncs{
		CreateTreeFunc: func(
			_ context.Context, _, _ string, _ hosting.TreeRequest,
		) (*hosting.TreeDescriptor, error) {
			return &hosting.TreeDescriptor{}, nil
		},
	}

	_, err := files.BuildTree(
		context.Background(), gd, "org", "repo",
		[]hosting.FileEdit{{Path: "a.txt"}}, "C0",
	)

	assert.ErrorIs(t, err, hosting.ErrValidation)
}

func TestBuildCommit_passes_parents_verbatim(t *testing.T) {
	t.Parallel()

	fr := newFakeRemote()

	commit, err := files.BuildCommit(
		context.Background(), fr, "org", "repo",
		hosting.CommitRequest{
			Message:    "merge-ish",
			TreeSHA:    "T0",
			ParentSHAs: []string{"C0", "Cx"},
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []string{"C0", "Cx"}, commit.ParentSHAs)
	assert.Equal(
		t, []string{"C0", "Cx"}, fr.commitReqs[0].ParentSHAs,
	)
}

func TestUpdateRef_missing_object_is_validation_error(
	t *testing.T,
) {
	t.Parallel()

	gd := hosting.GitDataFuncs{
		UpdateRefFunc: func(
			_ context.Context, _, _, ref, _ string, _ bool,
		) (*hosting.BranchReference, error) {
			return &hosting.BranchReference{Ref: ref}, nil
		},
	}

	_, err := files.UpdateRef(
		context.Background(), gd, "org", "repo",
		"heads/main", "C1", true,
	)

	assert.ErrorIs(t, err, hosting.ErrValidation)
}

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	assert.NoError(t, files.ValidateEditsForTest(
		[]hosting.FileEdit{{Path: "a"}, {Path: "b"}},
	))
	assert.ErrorContains(t, files.ValidateEditsForTest(
		[]hosting.FileEdit{{Path: "a"}, {Path: "a"}},
	), `duplicate path "a"`)
}
