package hosting

import (
	"context"
	"fmt"
)

// Pattern: Strategy -- swap hosting platform without
// changing the write and push pipelines.

// ContentStore reads and writes single files through the
// hosting contents API.
type ContentStore interface {
	// GetContents reads path at ref (branch, tag or
	// SHA; empty means the default branch).
	GetContents(
		ctx context.Context,
		owner string,
		repo string,
		path string,
		ref string,
	) (*Contents, error)

	// PutFile creates or updates one file. The remote
	// treats an empty req.SHA as a create.
	PutFile(
		ctx context.Context,
		owner string,
		repo string,
		req PutFileRequest,
	) (*FileCommitResult, error)
}

// GitData drives the git database endpoints used to
// land a multi-file commit.
type GitData interface {
	GetRef(
		ctx context.Context,
		owner string,
		repo string,
		ref string,
	) (*BranchReference, error)

	CreateTree(
		ctx context.Context,
		owner string,
		repo string,
		req TreeRequest,
	) (*TreeDescriptor, error)

	CreateCommit(
		ctx context.Context,
		owner string,
		repo string,
		req CommitRequest,
	) (*CommitDescriptor, error)

	// UpdateRef moves ref to sha. When force is false
	// the remote rejects non-fast-forward updates.
	UpdateRef(
		ctx context.Context,
		owner string,
		repo string,
		ref string,
		sha string,
		force bool,
	) (*BranchReference, error)
}

// Commits lands several file edits as one commit in a
// single call, for platforms without git database
// endpoints. The remote appends the commit to the
// current branch head.
type Commits interface {
	CommitFiles(
		ctx context.Context,
		owner string,
		repo string,
		req CommitFilesRequest,
	) (*BranchReference, error)
}

// ContentsFuncs adapts plain functions to the ContentStore
// interface. Calling a nil function returns an error.
type ContentsFuncs struct {
	GetContentsFunc func(
		ctx context.Context,
		owner, repo, path, ref string,
	) (*Contents, error)
	PutFileFunc func(
		ctx context.Context,
		owner, repo string,
		req PutFileRequest,
	) (*FileCommitResult, error)
}

// GetContents delegates to GetContentsFunc.
func (f ContentsFuncs) GetContents(
	ctx context.Context,
	owner string,
	repo string,
	path string,
	ref string,
) (*Contents, error) {
	if f.GetContentsFunc == nil {
		return nil, unsupported("get contents")
	}

	return f.GetContentsFunc(ctx, owner, repo, path, ref)
}

// PutFile delegates to PutFileFunc.
func (f ContentsFuncs) PutFile(
	ctx context.Context,
	owner string,
	repo string,
	req PutFileRequest,
) (*FileCommitResult, error) {
	if f.PutFileFunc == nil {
		return nil, unsupported("put file")
	}

	return f.PutFileFunc(ctx, owner, repo, req)
}

// GitDataFuncs adapts plain functions to the GitData
// interface. Calling a nil function returns an error.
type GitDataFuncs struct {
	GetRefFunc func(
		ctx context.Context,
		owner, repo, ref string,
	) (*BranchReference, error)
	CreateTreeFunc func(
		ctx context.Context,
		owner, repo string,
		req TreeRequest,
	) (*TreeDescriptor, error)
	CreateCommitFunc func(
		ctx context.Context,
		owner, repo string,
		req CommitRequest,
	) (*CommitDescriptor, error)
	UpdateRefFunc func(
		ctx context.Context,
		owner, repo, ref, sha string,
		force bool,
	) (*BranchReference, error)
}

// GetRef delegates to GetRefFunc.
func (f GitDataFuncs) GetRef(
	ctx context.Context,
	owner string,
	repo string,
	ref string,
) (*BranchReference, error) {
	if f.GetRefFunc == nil {
		return nil, unsupported("get ref")
	}

	return f.GetRefFunc(ctx, owner, repo, ref)
}

// CreateTree delegates to CreateTreeFunc.
func (f GitDataFuncs) CreateTree(
	ctx context.Context,
	owner string,
	repo string,
	req TreeRequest,
) (*TreeDescriptor, error) {
	if f.CreateTreeFunc == nil {
		return nil, unsupported("create tree")
	}

	return f.CreateTreeFunc(ctx, owner, repo, req)
}

// CreateCommit delegates to CreateCommitFunc.
func (f GitDataFuncs) CreateCommit(
	ctx context.Context,
	owner string,
	repo string,
	req CommitRequest,
) (*CommitDescriptor, error) {
	if f.CreateCommitFunc == nil {
		return nil, unsupported("create commit")
	}

	return f.CreateCommitFunc(ctx, owner, repo, req)
}

// UpdateRef delegates to UpdateRefFunc.
func (f GitDataFuncs) UpdateRef(
	ctx context.Context,
	owner string,
	repo string,
	ref string,
	sha string,
	force bool,
) (*BranchReference, error) {
	if f.UpdateRefFunc == nil {
		return nil, unsupported("update ref")
	}

	return f.UpdateRefFunc(
		ctx, owner, repo, ref, sha, force,
	)
}

func unsupported(op string) error {
	return fmt.Errorf("%s: operation not supported", op)
}
