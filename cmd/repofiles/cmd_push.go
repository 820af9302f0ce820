package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/byte4ever/repofiles/files"
	"github.com/byte4ever/repofiles/hosting"
)

func newPushCmd(opts *globalOptions) *cobra.Command {
	var (
		fileSpecs []string
		editsPath string
		message   string
		branch    string
		noForce   bool
	)

	cmd := &cobra.Command{
		Use:   "push <owner/repo>",
		Short: "Push several files to a branch as one commit",
		Long: "Push several files to a branch as one commit. " +
			"Edits come from a JSON file of " +
			`[{"path": ..., "content": ...}] objects ` +
			"and from repeated --file repo/path=local/path " +
			"flags, in that order. Paths not listed keep " +
			"their content from the branch head.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}

			edits, err := loadEdits(editsPath, fileSpecs, os.ReadFile)
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			ref, err := svc.PushFiles(cmd.Context(), files.PushRequest{
				Owner:   owner,
				Repo:    repo,
				Branch:  branch,
				Message: message,
				Edits:   edits,
				NoForce: noForce,
			})
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), ref)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(
		&fileSpecs, "file", nil,
		"Edit as repo/path=local/path (repeatable)",
	)
	f.StringVar(
		&editsPath, "edits", "",
		"JSON file holding a list of path/content edits",
	)
	f.StringVarP(&message, "message", "m", "", "Commit message")
	f.StringVar(&branch, "branch", "", "Target branch")
	f.BoolVar(
		&noForce, "no-force", false,
		"Fail instead of overwriting a branch that moved",
	)
	_ = cmd.MarkFlagRequired("branch")
	cmd.MarkFlagsOneRequired("file", "edits")

	return cmd
}

// readFileFunc matches os.ReadFile.
type readFileFunc func(name string) ([]byte, error)

// loadEdits collects edits from the JSON file at
// editsPath (when set) followed by one edit per
// fileSpec.
func loadEdits(
	editsPath string,
	fileSpecs []string,
	readFile readFileFunc,
) ([]hosting.FileEdit, error) {
	const errCtx = "loading edits"

	var edits []hosting.FileEdit

	if editsPath != "" {
		data, err := readFile(editsPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		if err := json.Unmarshal(data, &edits); err != nil {
			return nil, fmt.Errorf(
				"%s: %w: parse %s: %v",
				errCtx, hosting.ErrInvalidArgument, editsPath, err,
			)
		}
	}

	for _, spec := range fileSpecs {
		e, err := parseFileSpec(spec, readFile)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtx, err)
		}

		edits = append(edits, e)
	}

	return edits, nil
}

// parseFileSpec turns "repo/path=local/path" into an
// edit holding the local file's content.
func parseFileSpec(
	spec string,
	readFile readFileFunc,
) (hosting.FileEdit, error) {
	target, local, ok := strings.Cut(spec, "=")
	if !ok || target == "" || local == "" {
		return hosting.FileEdit{}, fmt.Errorf(
			"%w: file %q must be repo/path=local/path",
			hosting.ErrInvalidArgument, spec,
		)
	}

	data, err := readFile(local)
	if err != nil {
		return hosting.FileEdit{}, fmt.Errorf(
			"reading %s: %w", local, err,
		)
	}

	return hosting.FileEdit{Path: target, Content: string(data)}, nil
}
