package files_test

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"strings"
	"sync"

	"github.com/byte4ever/repofiles/hosting"
)

// fakeCommit is a commit stored by fakeRemote.
type fakeCommit struct {
	tree    string
	parents []string
	message string
}

// fakeRemote is an in-memory hosting backend. It keeps
// content-addressed trees and commits, mutable branch
// references and a single-branch file store, and
// records every call in order.
type fakeRemote struct {
	mu sync.Mutex

	// trees maps tree SHA to path -> content.
	trees   map[string]map[string]string
	commits map[string]fakeCommit
	refs    map[string]string

	// files maps path to version SHA and contents.
	files    map[string]string
	contents map[string]string
	dirs     map[string]bool

	seq   int
	calls []string

	treeReqs   []hosting.TreeRequest
	commitReqs []hosting.CommitRequest
	refForces  []bool
	putReqs    []hosting.PutFileRequest

	commitFilesReqs []hosting.CommitFilesRequest

	// failures maps a call name to the error it
	// returns next; entries are consumed on use.
	failures map[string]error
}

// newFakeRemote returns a remote whose branch "main"
// points at commit C0 holding tree T0 with readme.md.
func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		trees: map[string]map[string]string{
			"T0": {"readme.md": "hello"},
		},
		commits: map[string]fakeCommit{
			"C0": {tree: "T0", message: "init"},
		},
		refs:     map[string]string{"heads/main": "C0"},
		files:    map[string]string{},
		contents: map[string]string{},
		dirs:     map[string]bool{},
		failures: map[string]error{},
	}
}

func (f *fakeRemote) failNext(call string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.failures[call] = err
}

// record logs call and returns an injected failure.
func (f *fakeRemote) record(call string) error {
	f.calls = append(f.calls, call)

	if err, ok := f.failures[call]; ok {
		delete(f.failures, call)

		return err
	}

	return nil
}

func (f *fakeRemote) next(prefix string) string {
	f.seq++

	return fmt.Sprintf("%s%d", prefix, f.seq)
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.calls...)
}

// treeOf returns the files reachable from commit sha.
func (f *fakeRemote) treeOf(commitSHA string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return maps.Clone(f.trees[f.commits[commitSHA].tree])
}

func (f *fakeRemote) head(ref string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.refs[ref]
}

func remoteErr(op string, status int) error {
	return &hosting.RemoteError{
		Op:         op,
		StatusCode: status,
		Message:    http.StatusText(status),
	}
}

func (f *fakeRemote) GetRef(
	_ context.Context,
	_ string,
	_ string,
	ref string,
) (*hosting.BranchReference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("get-ref"); err != nil {
		return nil, err
	}

	sha, ok := f.refs[ref]
	if !ok {
		return nil, remoteErr("get ref", http.StatusNotFound)
	}

	return &hosting.BranchReference{
		Ref:    "refs/" + ref,
		Object: hosting.RefObject{SHA: sha, Type: "commit"},
	}, nil
}

func (f *fakeRemote) CreateTree(
	_ context.Context,
	_ string,
	_ string,
	req hosting.TreeRequest,
) (*hosting.TreeDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("create-tree"); err != nil {
		return nil, err
	}

	f.treeReqs = append(f.treeReqs, req)

	base := req.BaseTree
	if c, ok := f.commits[base]; ok {
		base = c.tree
	}

	tree := maps.Clone(f.trees[base])
	if tree == nil {
		tree = map[string]string{}
	}

	for _, e := range req.Entries {
		tree[e.Path] = e.Content
	}

	sha := f.next("T")
	f.trees[sha] = tree

	return &hosting.TreeDescriptor{SHA: sha}, nil
}

func (f *fakeRemote) CreateCommit(
	_ context.Context,
	_ string,
	_ string,
	req hosting.CommitRequest,
) (*hosting.CommitDescriptor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("create-commit"); err != nil {
		return nil, err
	}

	f.commitReqs = append(f.commitReqs, req)

	if _, ok := f.trees[req.TreeSHA]; !ok {
		return nil, remoteErr(
			"create commit", http.StatusUnprocessableEntity,
		)
	}

	sha := f.next("C")
	f.commits[sha] = fakeCommit{
		tree:    req.TreeSHA,
		parents: req.ParentSHAs,
		message: req.Message,
	}

	return &hosting.CommitDescriptor{
		SHA:        sha,
		TreeSHA:    req.TreeSHA,
		ParentSHAs: req.ParentSHAs,
		Message:    req.Message,
	}, nil
}

func (f *fakeRemote) UpdateRef(
	_ context.Context,
	_ string,
	_ string,
	ref string,
	sha string,
	force bool,
) (*hosting.BranchReference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("update-ref"); err != nil {
		return nil, err
	}

	f.refForces = append(f.refForces, force)

	cur, ok := f.refs[ref]
	if !ok {
		return nil, remoteErr("update ref", http.StatusNotFound)
	}

	if !force {
		parents := f.commits[sha].parents
		if len(parents) == 0 || parents[0] != cur {
			return nil, &hosting.RemoteError{
				Op:         "update ref",
				StatusCode: http.StatusUnprocessableEntity,
				Message:    "Update is not a fast forward",
				Conflict:   true,
			}
		}
	}

	f.refs[ref] = sha

	return &hosting.BranchReference{
		Ref:    "refs/" + ref,
		Object: hosting.RefObject{SHA: sha, Type: "commit"},
	}, nil
}

func (f *fakeRemote) GetContents(
	_ context.Context,
	_ string,
	_ string,
	path string,
	_ string,
) (*hosting.Contents, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("get-contents"); err != nil {
		return nil, err
	}

	if f.dirs[path] {
		var listing []hosting.FileContent

		for p, sha := range f.files {
			if strings.HasPrefix(p, path+"/") {
				listing = append(listing, hosting.FileContent{
					Path: p, SHA: sha, Type: "file",
				})
			}
		}

		return &hosting.Contents{Dir: listing}, nil
	}

	sha, ok := f.files[path]
	if !ok {
		return nil, remoteErr("get contents", http.StatusNotFound)
	}

	return &hosting.Contents{File: &hosting.FileContent{
		Path:    path,
		SHA:     sha,
		Type:    "file",
		Content: f.contents[path],
	}}, nil
}

func (f *fakeRemote) PutFile(
	_ context.Context,
	_ string,
	_ string,
	req hosting.PutFileRequest,
) (*hosting.FileCommitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("put-file"); err != nil {
		return nil, err
	}

	f.putReqs = append(f.putReqs, req)

	cur, exists := f.files[req.Path]

	switch {
	case exists && req.SHA == "":
		return nil, &hosting.RemoteError{
			Op:         "put file",
			StatusCode: http.StatusUnprocessableEntity,
			Message:    `"sha" wasn't supplied.`,
			Conflict:   true,
		}
	case exists && req.SHA != cur:
		return nil, remoteErr("put file", http.StatusConflict)
	}

	sha := f.next("B")
	f.files[req.Path] = sha
	f.contents[req.Path] = string(req.Content)

	return &hosting.FileCommitResult{
		Content: hosting.FileContent{Path: req.Path, SHA: sha},
		Commit: hosting.CommitDescriptor{
			SHA:     f.next("C"),
			Message: req.Message,
		},
	}, nil
}

func (f *fakeRemote) CommitFiles(
	_ context.Context,
	_ string,
	_ string,
	req hosting.CommitFilesRequest,
) (*hosting.BranchReference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record("commit-files"); err != nil {
		return nil, err
	}

	f.commitFilesReqs = append(f.commitFilesReqs, req)

	ref := hosting.BranchRef(req.Branch)

	cur, ok := f.refs[ref]
	if !ok {
		return nil, fmt.Errorf(
			"%w: %w",
			hosting.ErrBranchNotFound,
			remoteErr("commit files", http.StatusNotFound),
		)
	}

	tree := maps.Clone(f.trees[f.commits[cur].tree])
	for _, e := range req.Edits {
		tree[e.Path] = e.Content
	}

	treeSHA := f.next("T")
	f.trees[treeSHA] = tree

	sha := f.next("C")
	f.commits[sha] = fakeCommit{
		tree:    treeSHA,
		parents: []string{cur},
		message: req.Message,
	}
	f.refs[ref] = sha

	return &hosting.BranchReference{
		Ref:    "refs/" + ref,
		Object: hosting.RefObject{SHA: sha, Type: "commit"},
	}, nil
}
