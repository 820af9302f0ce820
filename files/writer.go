package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/byte4ever/repofiles/hosting"
)

// WriteRequest describes a single-file create or
// update. Leave SHA empty to let the Writer look it
// up.
type WriteRequest struct {
	Owner     string
	Repo      string
	Path      string
	Content   string
	Message   string
	Branch    string
	SHA       string
	Author    *hosting.Signature
	Committer *hosting.Signature
}

// shaLookup is the outcome of a version token lookup.
type shaLookup int

const (
	lookupFound shaLookup = iota
	lookupNotFound
	lookupErrorIgnored
)

func (l shaLookup) String() string {
	switch l {
	case lookupFound:
		return "found"
	case lookupNotFound:
		return "not-found"
	case lookupErrorIgnored:
		return "error-ignored-as-not-found"
	default:
		return fmt.Sprintf("shaLookup(%d)", int(l))
	}
}

// Writer creates or updates single files.
type Writer struct {
	contents hosting.ContentStore
}

// NewWriter returns a Writer backed by contents.
func NewWriter(contents hosting.ContentStore) *Writer {
	return &Writer{contents: contents}
}

// Write issues exactly one write call. Without a SHA it
// first reads the path on the branch; a failed read is
// logged and the write goes out as a create, which the
// remote rejects with a conflict if the file exists.
func (w *Writer) Write(
	ctx context.Context,
	req WriteRequest,
) (*hosting.FileCommitResult, error) {
	const errCtx = "writing file"

	if req.Owner == "" || req.Repo == "" || req.Path == "" {
		return nil, fmt.Errorf(
			"%s: %w", errCtx, hosting.Invalidf(
				"owner, repo and path must be set",
			),
		)
	}

	sha := req.SHA
	if sha == "" {
		found, outcome := w.lookupSHA(ctx, req)
		if outcome == lookupFound {
			sha = found
		}
	}

	res, err := w.contents.PutFile(
		ctx, req.Owner, req.Repo,
		hosting.PutFileRequest{
			Path:      req.Path,
			Message:   req.Message,
			Content:   []byte(req.Content),
			Branch:    req.Branch,
			SHA:       sha,
			Author:    req.Author,
			Committer: req.Committer,
		},
	)
	if err != nil {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, req.Path, err,
		)
	}

	if res == nil ||
		res.Content.SHA == "" ||
		res.Commit.SHA == "" {
		return nil, fmt.Errorf(
			"%s: %s: %w", errCtx, req.Path,
			hosting.Malformedf(
				"write result lacks file or commit sha",
			),
		)
	}

	res.Created = sha == ""

	return res, nil
}

// lookupSHA reads the current version token of
// req.Path. Errors never escape: anything but a single
// file record counts as "not there".
func (w *Writer) lookupSHA(
	ctx context.Context,
	req WriteRequest,
) (string, shaLookup) {
	got, err := w.contents.GetContents(
		ctx, req.Owner, req.Repo, req.Path, req.Branch,
	)

	var outcome shaLookup

	switch {
	case errors.Is(err, hosting.ErrNotFound):
		outcome = lookupNotFound
	case err != nil:
		slog.Warn(
			"sha lookup failed, writing as new file",
			"path", req.Path,
			"branch", req.Branch,
			"error", err,
		)

		outcome = lookupErrorIgnored
	case got == nil || got.IsDir():
		outcome = lookupNotFound
	case got.File.SHA == "":
		slog.Warn(
			"sha lookup returned no sha, writing as new file",
			"path", req.Path,
		)

		outcome = lookupErrorIgnored
	default:
		outcome = lookupFound
	}

	slog.Debug(
		"sha lookup",
		"path", req.Path,
		"outcome", outcome.String(),
	)

	if outcome != lookupFound {
		return "", outcome
	}

	return got.File.SHA, outcome
}
