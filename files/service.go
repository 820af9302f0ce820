package files

import (
	"context"
	"fmt"
	"time"

	"github.com/byte4ever/repofiles/commitmsg"
	"github.com/byte4ever/repofiles/content"
	"github.com/byte4ever/repofiles/hosting"
)

// defaultFetchTimeout bounds document fetches when no
// Fetcher is configured.
const defaultFetchTimeout = 30 * time.Second

// ServiceConfig holds the collaborators of a Service.
type ServiceConfig struct {
	// Contents is the single-file backend. Required.
	Contents hosting.ContentStore
	// GitData is the git database backend used by
	// PushFiles.
	GitData hosting.GitData
	// Commits serves PushFiles on backends without
	// GitData. With both nil PushFiles is disabled.
	Commits hosting.Commits
	// Fetcher retrieves documents for DocumentURL
	// sources. Nil uses an HTTPFetcher.
	Fetcher content.Fetcher
	// MessageTemplate wraps caller messages, see
	// commitmsg.Render. Empty keeps them unchanged.
	MessageTemplate string
	// Author and Committer are attached to every
	// commit when set.
	Author    *hosting.Signature
	Committer *hosting.Signature
}

// Service exposes the file operations offered to
// callers.
type Service struct {
	resolver  *content.Resolver
	writer    *Writer
	reader    *Reader
	pusher    *Pusher
	commits   hosting.Commits
	template  string
	author    *hosting.Signature
	committer *hosting.Signature
}

// NewService validates cfg and returns a Service.
func NewService(cfg ServiceConfig) (*Service, error) {
	const errCtx = "creating file service"

	if cfg.Contents == nil {
		return nil, fmt.Errorf(
			"%s: contents backend must be set", errCtx,
		)
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = content.NewHTTPFetcher(defaultFetchTimeout)
	}

	svc := &Service{
		resolver:  content.NewResolver(fetcher),
		writer:    NewWriter(cfg.Contents),
		reader:    NewReader(cfg.Contents),
		commits:   cfg.Commits,
		template:  cfg.MessageTemplate,
		author:    cfg.Author,
		committer: cfg.Committer,
	}

	if cfg.GitData != nil {
		svc.pusher = NewPusher(cfg.GitData)
	}

	return svc, nil
}

// CreateOrUpdateFileRequest is the input of
// CreateOrUpdateFile. Exactly one of Content and
// DocumentURL must be set.
type CreateOrUpdateFileRequest struct {
	Owner       string
	Repo        string
	Path        string
	Content     *string
	DocumentURL string
	Message     string
	Branch      string
	SHA         string
}

// CreateOrUpdateFile resolves the content to write and
// writes it as one commit.
func (s *Service) CreateOrUpdateFile(
	ctx context.Context,
	req CreateOrUpdateFileRequest,
) (*hosting.FileCommitResult, error) {
	const errCtx = "create or update file"

	text, err := s.resolver.Resolve(ctx, content.Source{
		Content:     req.Content,
		DocumentURL: req.DocumentURL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	res, err := s.writer.Write(ctx, WriteRequest{
		Owner:   req.Owner,
		Repo:    req.Repo,
		Path:    req.Path,
		Content: text,
		Message: s.message(
			req.Message, req.Owner, req.Repo,
			req.Branch, []string{req.Path},
		),
		Branch:    req.Branch,
		SHA:       req.SHA,
		Author:    s.author,
		Committer: s.committer,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return res, nil
}

// PushFiles lands edits on branch as a single commit,
// through the git data pipeline when available and the
// commits backend otherwise.
func (s *Service) PushFiles(
	ctx context.Context,
	req PushRequest,
) (*hosting.BranchReference, error) {
	const errCtx = "push files"

	if s.pusher == nil && s.commits == nil {
		return nil, fmt.Errorf(
			"%s: backend does not support multi-file commits",
			errCtx,
		)
	}

	paths := make([]string, 0, len(req.Edits))
	for _, e := range req.Edits {
		paths = append(paths, e.Path)
	}

	req.Message = s.message(
		req.Message, req.Owner, req.Repo, req.Branch, paths,
	)

	if req.Author == nil {
		req.Author = s.author
	}

	if req.Committer == nil {
		req.Committer = s.committer
	}

	var (
		ref *hosting.BranchReference
		err error
	)

	if s.pusher != nil {
		ref, err = s.pusher.Push(ctx, req)
	} else {
		ref, err = CommitFiles(ctx, s.commits, req)
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtx, err)
	}

	return ref, nil
}

// GetFile reads a file or directory listing.
func (s *Service) GetFile(
	ctx context.Context,
	owner string,
	repo string,
	path string,
	ref string,
) (*hosting.Contents, error) {
	return s.reader.Read(ctx, owner, repo, path, ref)
}

func (s *Service) message(
	msg string,
	owner string,
	repo string,
	branch string,
	paths []string,
) string {
	return commitmsg.Render(s.template, commitmsg.Vars{
		Message: msg,
		Repo:    owner + "/" + repo,
		Branch:  branch,
		Paths:   paths,
	})
}
