package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v68/github"

	"github.com/byte4ever/repofiles/hosting"
)

// Config holds the settings needed to create a GitHub
// provider.
type Config struct {
	// AccessToken is a personal access token or
	// GitHub App token used for authentication.
	AccessToken string
	// EnterpriseHost is an optional GitHub Enterprise
	// hostname (e.g. "git.corp.example.com"). Leave
	// empty for github.com.
	EnterpriseHost string
	// BaseURL overrides the REST API root (e.g. a
	// proxy). Takes precedence over EnterpriseHost.
	BaseURL string
	// HTTPClient is the optional transport; nil uses
	// the library default.
	HTTPClient *http.Client
}

// Provider talks to the GitHub contents and git data
// endpoints.
//
// Pattern: Strategy -- implements hosting.ContentStore and
// hosting.GitData.
type Provider struct {
	client *gh.Client
}

// NewProvider validates cfg and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating github provider"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	client := gh.NewClient(cfg.HTTPClient).
		WithAuthToken(cfg.AccessToken)

	switch {
	case cfg.BaseURL != "":
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}

		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: base url: %w", errCtx, err,
			)
		}

		client.BaseURL = u

	case cfg.EnterpriseHost != "":
		baseURL := "https://" +
			cfg.EnterpriseHost + "/api/v3/"
		uploadURL := "https://" +
			cfg.EnterpriseHost + "/api/uploads/"

		var err error

		client, err = client.WithEnterpriseURLs(
			baseURL, uploadURL,
		)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: enterprise urls: %w",
				errCtx, err,
			)
		}
	}

	return &Provider{client: client}, nil
}

// GetContents reads path at ref. A directory yields a
// listing without content, and so does a file too large
// for the contents API.
func (p *Provider) GetContents(
	ctx context.Context,
	owner string,
	repo string,
	path string,
	ref string,
) (*hosting.Contents, error) {
	const errCtx = "get contents"

	var opts *gh.RepositoryContentGetOptions
	if ref != "" {
		opts = &gh.RepositoryContentGetOptions{Ref: ref}
	}

	file, dir, resp, err := p.client.Repositories.GetContents(
		ctx, owner, repo, path, opts,
	)
	if err != nil {
		return nil, remoteError(errCtx, resp, err)
	}

	if file == nil {
		listing := make([]hosting.FileContent, 0, len(dir))
		for _, entry := range dir {
			listing = append(listing, toFileContent(entry))
		}

		return &hosting.Contents{Dir: listing}, nil
	}

	fc := toFileContent(file)

	// Files over 1 MB come back with encoding "none" and
	// no content; the SHA is still valid for writes.
	if file.GetEncoding() == "none" {
		return &hosting.Contents{File: &fc}, nil
	}

	text, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %w: decode %s: %v",
			errCtx, hosting.ErrValidation, path, err,
		)
	}

	fc.Content = text

	return &hosting.Contents{File: &fc}, nil
}

// PutFile creates or updates one file. GitHub answers
// a create on an existing path with 422, which is
// reported as a conflict.
func (p *Provider) PutFile(
	ctx context.Context,
	owner string,
	repo string,
	req hosting.PutFileRequest,
) (*hosting.FileCommitResult, error) {
	const errCtx = "put file"

	opts := &gh.RepositoryContentFileOptions{
		Message:   gh.Ptr(req.Message),
		Content:   req.Content,
		Author:    toCommitAuthor(req.Author),
		Committer: toCommitAuthor(req.Committer),
	}

	if req.Branch != "" {
		opts.Branch = gh.Ptr(req.Branch)
	}

	if req.SHA != "" {
		opts.SHA = gh.Ptr(req.SHA)
	}

	out, resp, err := p.client.Repositories.UpdateFile(
		ctx, owner, repo, req.Path, opts,
	)
	if err != nil {
		re := remoteError(errCtx, resp, err)
		if re.StatusCode == http.StatusUnprocessableEntity &&
			req.SHA == "" {
			re.Conflict = true
		}

		return nil, re
	}

	if out == nil || out.Content == nil {
		return nil, fmt.Errorf(
			"%s: %w: missing content record",
			errCtx, hosting.ErrValidation,
		)
	}

	slog.Info(
		"wrote file",
		"path", out.Content.GetPath(),
		"commit", out.Commit.GetSHA(),
	)

	return &hosting.FileCommitResult{
		Content: toFileContent(out.Content),
		Commit:  toCommitDescriptor(&out.Commit),
		Created: resp != nil &&
			resp.StatusCode == http.StatusCreated,
	}, nil
}

// GetRef reads a reference such as "heads/main".
func (p *Provider) GetRef(
	ctx context.Context,
	owner string,
	repo string,
	ref string,
) (*hosting.BranchReference, error) {
	const errCtx = "get ref"

	out, resp, err := p.client.Git.GetRef(
		ctx, owner, repo, ref,
	)
	if err != nil {
		return nil, remoteError(errCtx, resp, err)
	}

	return toBranchReference(out), nil
}

// CreateTree creates a tree from inline blob entries on
// top of req.BaseTree.
func (p *Provider) CreateTree(
	ctx context.Context,
	owner string,
	repo string,
	req hosting.TreeRequest,
) (*hosting.TreeDescriptor, error) {
	const errCtx = "create tree"

	entries := make([]*gh.TreeEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, &gh.TreeEntry{
			Path:    gh.Ptr(e.Path),
			Mode:    gh.Ptr(e.Mode),
			Type:    gh.Ptr(e.Type),
			Content: gh.Ptr(e.Content),
		})
	}

	out, resp, err := p.client.Git.CreateTree(
		ctx, owner, repo, req.BaseTree, entries,
	)
	if err != nil {
		return nil, remoteError(errCtx, resp, err)
	}

	return &hosting.TreeDescriptor{SHA: out.GetSHA()}, nil
}

// CreateCommit creates a commit with exactly the given
// parents.
func (p *Provider) CreateCommit(
	ctx context.Context,
	owner string,
	repo string,
	req hosting.CommitRequest,
) (*hosting.CommitDescriptor, error) {
	const errCtx = "create commit"

	parents := make([]*gh.Commit, 0, len(req.ParentSHAs))
	for _, sha := range req.ParentSHAs {
		parents = append(parents, &gh.Commit{SHA: gh.Ptr(sha)})
	}

	commit := &gh.Commit{
		Message:   gh.Ptr(req.Message),
		Tree:      &gh.Tree{SHA: gh.Ptr(req.TreeSHA)},
		Parents:   parents,
		Author:    toCommitAuthor(req.Author),
		Committer: toCommitAuthor(req.Committer),
	}

	out, resp, err := p.client.Git.CreateCommit(
		ctx, owner, repo, commit, nil,
	)
	if err != nil {
		return nil, remoteError(errCtx, resp, err)
	}

	cd := toCommitDescriptor(out)

	return &cd, nil
}

// UpdateRef moves ref to sha. A rejected non-forced
// update (422, not a fast forward) is reported as a
// conflict.
func (p *Provider) UpdateRef(
	ctx context.Context,
	owner string,
	repo string,
	ref string,
	sha string,
	force bool,
) (*hosting.BranchReference, error) {
	const errCtx = "update ref"

	out, resp, err := p.client.Git.UpdateRef(
		ctx, owner, repo,
		&gh.Reference{
			Ref:    gh.Ptr(ref),
			Object: &gh.GitObject{SHA: gh.Ptr(sha)},
		},
		force,
	)
	if err != nil {
		re := remoteError(errCtx, resp, err)
		if re.StatusCode == http.StatusUnprocessableEntity &&
			!force {
			re.Conflict = true
		}

		return nil, re
	}

	return toBranchReference(out), nil
}

// remoteError converts a go-github failure into a
// hosting.RemoteError and logs it.
func remoteError(
	op string,
	resp *gh.Response,
	err error,
) *hosting.RemoteError {
	re := &hosting.RemoteError{Op: op, Err: err}

	if resp != nil {
		re.StatusCode = resp.StatusCode
	}

	var er *gh.ErrorResponse
	if errors.As(err, &er) {
		re.Message = er.Message
	}

	slog.Warn(
		"github request failed",
		"op", op,
		"status", re.StatusCode,
		"error", err,
	)

	return re
}

func toFileContent(rc *gh.RepositoryContent) hosting.FileContent {
	return hosting.FileContent{
		Name:     rc.GetName(),
		Path:     rc.GetPath(),
		SHA:      rc.GetSHA(),
		Size:     rc.GetSize(),
		Type:     rc.GetType(),
		Encoding: rc.GetEncoding(),
		URL:      rc.GetURL(),
		HTMLURL:  rc.GetHTMLURL(),
	}
}

func toCommitDescriptor(c *gh.Commit) hosting.CommitDescriptor {
	parents := make([]string, 0, len(c.Parents))
	for _, p := range c.Parents {
		parents = append(parents, p.GetSHA())
	}

	return hosting.CommitDescriptor{
		SHA:        c.GetSHA(),
		URL:        c.GetURL(),
		HTMLURL:    c.GetHTMLURL(),
		TreeSHA:    c.GetTree().GetSHA(),
		ParentSHAs: parents,
		Message:    c.GetMessage(),
		Author:     fromCommitAuthor(c.Author),
		Committer:  fromCommitAuthor(c.Committer),
	}
}

func toBranchReference(r *gh.Reference) *hosting.BranchReference {
	return &hosting.BranchReference{
		Ref: r.GetRef(),
		URL: r.GetURL(),
		Object: hosting.RefObject{
			SHA:  r.GetObject().GetSHA(),
			Type: r.GetObject().GetType(),
		},
	}
}

func toCommitAuthor(s *hosting.Signature) *gh.CommitAuthor {
	if s == nil {
		return nil
	}

	return &gh.CommitAuthor{
		Name:  gh.Ptr(s.Name),
		Email: gh.Ptr(s.Email),
	}
}

func fromCommitAuthor(a *gh.CommitAuthor) *hosting.Signature {
	if a == nil {
		return nil
	}

	return &hosting.Signature{
		Name:  a.GetName(),
		Email: a.GetEmail(),
	}
}
