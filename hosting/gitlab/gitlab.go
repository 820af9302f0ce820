// Package gitlab implements hosting.ContentStore and hosting.Commits on the
// GitLab API. Reads use the repository files API; every write, single-file
// or not, is a commit built on the commits API. GitLab exposes no low-level
// tree or reference write endpoints, so multi-file pushes go through a single
// commit with one action per file; the server appends it to the branch head.
//
// GitLab guards file updates with the file's last commit ID rather than a
// blob SHA; that ID is what this backend reports as the version token.
package gitlab

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	gl "gitlab.com/gitlab-org/api/client-go"

	"github.com/byte4ever/repofiles/hosting"
)

// Config holds the settings needed to create a GitLab
// provider.
type Config struct {
	// Host is the base URL of the GitLab instance
	// (e.g. "https://gitlab.com").
	Host string
	// AccessToken is a personal or project access
	// token used for authentication.
	AccessToken string
}

// Provider reads and writes files on GitLab.
//
// Pattern: Strategy -- implements hosting.ContentStore and
// hosting.Commits.
type Provider struct {
	client *gl.Client
}

// NewProvider validates cfg and returns a Provider.
func NewProvider(cfg Config) (*Provider, error) {
	const errCtx = "creating gitlab provider"

	if cfg.AccessToken == "" {
		return nil, fmt.Errorf(
			"%s: access token must be set", errCtx,
		)
	}

	host := cfg.Host
	if host == "" {
		host = "https://gitlab.com"
	}

	// Failed calls surface to the caller as-is; the
	// client's built-in retries are disabled.
	client, err := gl.NewClient(
		cfg.AccessToken,
		gl.WithBaseURL(host),
		gl.WithCustomRetryMax(0),
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: new client: %w", errCtx, err,
		)
	}

	return &Provider{client: client}, nil
}

// GetContents reads a single file. Directories are not
// listed and surface as hosting.ErrNotFound.
func (p *Provider) GetContents(
	ctx context.Context,
	owner string,
	repo string,
	filePath string,
	ref string,
) (*hosting.Contents, error) {
	const errCtx = "get contents"

	fc, err := p.getFile(ctx, owner, repo, filePath, ref)
	if err != nil {
		return nil, err
	}

	if fc.Encoding == "base64" {
		raw, err := base64.StdEncoding.DecodeString(fc.Content)
		if err != nil {
			return nil, fmt.Errorf(
				"%s: %w: decode %s: %v",
				errCtx, hosting.ErrValidation, filePath, err,
			)
		}

		fc.Content = string(raw)
	}

	return &hosting.Contents{File: fc}, nil
}

// PutFile creates the file when req.SHA is empty and
// updates it otherwise, as a one-action commit. The
// commit ID the server answers with is the file's new
// version token.
func (p *Provider) PutFile(
	ctx context.Context,
	owner string,
	repo string,
	req hosting.PutFileRequest,
) (*hosting.FileCommitResult, error) {
	const errCtx = "put file"

	if req.Branch == "" {
		return nil, fmt.Errorf(
			"%s: %w", errCtx,
			hosting.Invalidf("gitlab writes need a branch"),
		)
	}

	action := newAction(gl.FileCreate, req.Path, req.Content)
	if req.SHA != "" {
		action.Action = gl.Ptr(gl.FileUpdate)
		action.LastCommitID = gl.Ptr(req.SHA)
	}

	commit, resp, err := p.client.Commits.CreateCommit(
		projectID(owner, repo),
		commitOptions(
			req.Branch, req.Message, req.Author,
			[]*gl.CommitActionOptions{action},
		),
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, remoteError(errCtx, resp, err)
	}

	slog.Info(
		"wrote file",
		"path", req.Path,
		"commit", commit.ID,
	)

	return &hosting.FileCommitResult{
		Content: hosting.FileContent{
			Name: path.Base(req.Path),
			Path: req.Path,
			SHA:  commit.ID,
			Size: len(req.Content),
			Type: "file",
		},
		Commit: hosting.CommitDescriptor{
			SHA:        commit.ID,
			HTMLURL:    commit.WebURL,
			ParentSHAs: commit.ParentIDs,
			Message:    req.Message,
			Author:     req.Author,
		},
		Created: req.SHA == "",
	}, nil
}

// CommitFiles lands req.Edits on req.Branch as one
// commit. Each edit becomes a create or update action
// depending on whether the path exists at the branch
// head.
func (p *Provider) CommitFiles(
	ctx context.Context,
	owner string,
	repo string,
	req hosting.CommitFilesRequest,
) (*hosting.BranchReference, error) {
	const errCtx = "commit files"

	pid := projectID(owner, repo)

	branch, resp, err := p.client.Branches.GetBranch(
		pid, req.Branch, gl.WithContext(ctx),
	)
	if err != nil {
		re := remoteError(errCtx, resp, err)
		if re.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf(
				"%s: %w: %w",
				errCtx, hosting.ErrBranchNotFound, re,
			)
		}

		return nil, re
	}

	actions := make([]*gl.CommitActionOptions, 0, len(req.Edits))

	for _, e := range req.Edits {
		action, err := p.fileAction(ctx, pid, req.Branch, e.Path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		actions = append(
			actions, newAction(action, e.Path, []byte(e.Content)),
		)
	}

	commit, resp, err := p.client.Commits.CreateCommit(
		pid,
		commitOptions(req.Branch, req.Message, req.Author, actions),
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, remoteError(errCtx, resp, err)
	}

	slog.Info(
		"committed files",
		"project", pid,
		"branch", req.Branch,
		"parent", branchHead(branch),
		"commit", commit.ID,
		"files", len(actions),
	)

	return &hosting.BranchReference{
		Ref: "refs/heads/" + req.Branch,
		URL: commit.WebURL,
		Object: hosting.RefObject{
			SHA:  commit.ID,
			Type: "commit",
		},
	}, nil
}

// fileAction picks create for a path missing at ref
// and update otherwise.
func (p *Provider) fileAction(
	ctx context.Context,
	pid string,
	ref string,
	filePath string,
) (gl.FileActionValue, error) {
	_, resp, err := p.client.RepositoryFiles.GetFileMetaData(
		pid,
		filePath,
		&gl.GetFileMetaDataOptions{Ref: gl.Ptr(ref)},
		gl.WithContext(ctx),
	)

	switch {
	case err == nil:
		return gl.FileUpdate, nil
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		return gl.FileCreate, nil
	default:
		return "", remoteError("file metadata", resp, err)
	}
}

func newAction(
	action gl.FileActionValue,
	filePath string,
	content []byte,
) *gl.CommitActionOptions {
	return &gl.CommitActionOptions{
		Action:   gl.Ptr(action),
		FilePath: gl.Ptr(filePath),
		Content: gl.Ptr(
			base64.StdEncoding.EncodeToString(content),
		),
		Encoding: gl.Ptr("base64"),
	}
}

func commitOptions(
	branch string,
	message string,
	author *hosting.Signature,
	actions []*gl.CommitActionOptions,
) *gl.CreateCommitOptions {
	opts := &gl.CreateCommitOptions{
		Branch:        gl.Ptr(branch),
		CommitMessage: gl.Ptr(message),
		Actions:       actions,
	}

	if author != nil {
		opts.AuthorName = gl.Ptr(author.Name)
		opts.AuthorEmail = gl.Ptr(author.Email)
	}

	return opts
}

func branchHead(b *gl.Branch) string {
	if b == nil || b.Commit == nil {
		return ""
	}

	return b.Commit.ID
}

func (p *Provider) getFile(
	ctx context.Context,
	owner string,
	repo string,
	filePath string,
	ref string,
) (*hosting.FileContent, error) {
	const errCtx = "get file"

	if ref == "" {
		ref = "HEAD"
	}

	f, resp, err := p.client.RepositoryFiles.GetFile(
		projectID(owner, repo),
		filePath,
		&gl.GetFileOptions{Ref: gl.Ptr(ref)},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, remoteError(errCtx, resp, err)
	}

	return &hosting.FileContent{
		Name:     f.FileName,
		Path:     f.FilePath,
		SHA:      f.LastCommitID,
		Size:     int(f.Size),
		Type:     "file",
		Encoding: f.Encoding,
		Content:  f.Content,
	}, nil
}

// remoteError converts a client-go failure into a
// hosting.RemoteError. GitLab answers both a create on
// an existing path and a stale last commit ID with 400.
func remoteError(
	op string,
	resp *gl.Response,
	err error,
) *hosting.RemoteError {
	re := &hosting.RemoteError{Op: op, Err: err}

	if resp != nil {
		re.StatusCode = resp.StatusCode
	}

	var er *gl.ErrorResponse
	if errors.As(err, &er) {
		re.Message = er.Message
	}

	if re.StatusCode == http.StatusBadRequest {
		msg := strings.ToLower(re.Message)
		re.Conflict = strings.Contains(msg, "already exists") ||
			strings.Contains(msg, "has changed")
	}

	slog.Warn(
		"gitlab request failed",
		"op", op,
		"status", re.StatusCode,
		"error", err,
	)

	return re
}

func projectID(owner string, repo string) string {
	return path.Join(owner, repo)
}
