package files

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/byte4ever/repofiles/hosting"
)

// Step is a state of the push machine.
type Step int

// Push steps, in execution order.
const (
	StepReadHead Step = iota
	StepBuildTree
	StepBuildCommit
	StepUpdateRef
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepReadHead:
		return "read-head"
	case StepBuildTree:
		return "build-tree"
	case StepBuildCommit:
		return "build-commit"
	case StepUpdateRef:
		return "update-ref"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// PushRequest describes a multi-file push.
type PushRequest struct {
	Owner   string
	Repo    string
	Branch  string
	Message string
	Edits   []hosting.FileEdit
	// NoForce asks for a fast-forward-only reference
	// update; a branch that moved since ReadHead then
	// fails with hosting.ErrConflict.
	NoForce   bool
	Author    *hosting.Signature
	Committer *hosting.Signature
}

// PushState carries a push through its steps. Each
// field is filled by the step that produces it.
type PushState struct {
	Request PushRequest
	Step    Step
	// ID tags log lines of one push.
	ID      string
	HeadSHA string
	Tree    *hosting.TreeDescriptor
	Commit  *hosting.CommitDescriptor
	Ref     *hosting.BranchReference
}

// NewPushState returns a state positioned at
// StepReadHead.
func NewPushState(req PushRequest) *PushState {
	return &PushState{
		Request: req,
		Step:    StepReadHead,
		ID:      uuid.NewString(),
	}
}

// PushError reports the step a push stopped at.
type PushError struct {
	Step Step
	Err  error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("push failed at %s: %v", e.Step, e.Err)
}

func (e *PushError) Unwrap() error {
	return e.Err
}

// Pusher lands file edits as one commit. It keeps no
// per-push state and is safe for concurrent use.
type Pusher struct {
	git hosting.GitData
}

// NewPusher returns a Pusher backed by git.
func NewPusher(git hosting.GitData) *Pusher {
	return &Pusher{git: git}
}

// Push runs a fresh push to completion and returns the
// moved branch reference.
func (p *Pusher) Push(
	ctx context.Context,
	req PushRequest,
) (*hosting.BranchReference, error) {
	st := NewPushState(req)

	if err := p.Run(ctx, st); err != nil {
		return nil, err
	}

	return st.Ref, nil
}

// Run advances st until StepDone or the first failure,
// which is returned as *PushError with st.Step left on
// the failing step.
func (p *Pusher) Run(ctx context.Context, st *PushState) error {
	req := st.Request

	if st.Step == StepReadHead {
		if err := validatePush(req); err != nil {
			return &PushError{Step: st.Step, Err: err}
		}
	}

	for st.Step != StepDone {
		slog.Debug(
			"push step",
			"push_id", st.ID,
			"step", st.Step.String(),
		)

		next, err := p.advance(ctx, st)
		if err != nil {
			slog.Warn(
				"push aborted",
				"push_id", st.ID,
				"step", st.Step.String(),
				"error", err,
			)

			return &PushError{Step: st.Step, Err: err}
		}

		st.Step = next
	}

	slog.Info(
		"pushed files",
		"push_id", st.ID,
		"repo", req.Owner+"/"+req.Repo,
		"branch", req.Branch,
		"files", len(req.Edits),
		"commit", st.Commit.SHA,
	)

	return nil
}

// advance executes st.Step and returns the step that
// follows it.
func (p *Pusher) advance(
	ctx context.Context,
	st *PushState,
) (Step, error) {
	req := st.Request

	switch st.Step {
	case StepReadHead:
		head, err := p.readHead(ctx, req)
		if err != nil {
			return st.Step, err
		}

		st.HeadSHA = head

		return StepBuildTree, nil

	case StepBuildTree:
		tree, err := BuildTree(
			ctx, p.git, req.Owner, req.Repo,
			req.Edits, st.HeadSHA,
		)
		if err != nil {
			return st.Step, err
		}

		st.Tree = tree

		return StepBuildCommit, nil

	case StepBuildCommit:
		commit, err := BuildCommit(
			ctx, p.git, req.Owner, req.Repo,
			hosting.CommitRequest{
				Message:    req.Message,
				TreeSHA:    st.Tree.SHA,
				ParentSHAs: []string{st.HeadSHA},
				Author:     req.Author,
				Committer:  req.Committer,
			},
		)
		if err != nil {
			return st.Step, err
		}

		st.Commit = commit

		return StepUpdateRef, nil

	case StepUpdateRef:
		ref, err := UpdateRef(
			ctx, p.git, req.Owner, req.Repo,
			hosting.BranchRef(req.Branch),
			st.Commit.SHA,
			!req.NoForce,
		)
		if err != nil {
			return st.Step, err
		}

		st.Ref = ref

		return StepDone, nil

	default:
		return st.Step, fmt.Errorf("unknown push step %s", st.Step)
	}
}

// readHead returns the commit SHA the branch points at.
func (p *Pusher) readHead(
	ctx context.Context,
	req PushRequest,
) (string, error) {
	const errCtx = "reading branch head"

	ref, err := p.git.GetRef(
		ctx, req.Owner, req.Repo, hosting.BranchRef(req.Branch),
	)
	if errors.Is(err, hosting.ErrNotFound) {
		return "", fmt.Errorf(
			"%s: %w: %s: %w",
			errCtx, hosting.ErrBranchNotFound, req.Branch, err,
		)
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	if ref == nil || ref.Object.SHA == "" {
		return "", fmt.Errorf(
			"%s: %w", errCtx,
			hosting.Malformedf("reference without object sha"),
		)
	}

	return ref.Object.SHA, nil
}

func validatePush(req PushRequest) error {
	if req.Owner == "" || req.Repo == "" || req.Branch == "" {
		return hosting.Invalidf(
			"owner, repo and branch must be set",
		)
	}

	return validateEdits(req.Edits)
}
