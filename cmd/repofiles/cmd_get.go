package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func newGetCmd(opts *globalOptions) *cobra.Command {
	var (
		ref string
		raw bool
	)

	cmd := &cobra.Command{
		Use:   "get <owner/repo> <path>",
		Short: "Read a file or list a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
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

			got, err := svc.GetFile(
				cmd.Context(), owner, repo, args[1], ref,
			)
			if err != nil {
				return err
			}

			if raw && !got.IsDir() {
				_, err = io.WriteString(
					cmd.OutOrStdout(), got.File.Content,
				)

				return err
			}

			return writeJSON(cmd.OutOrStdout(), got)
		},
	}

	cmd.Flags().StringVar(
		&ref, "ref", "",
		"Branch, tag or commit to read (default branch if empty)",
	)
	cmd.Flags().BoolVar(
		&raw, "raw", false,
		"Print only the decoded file content",
	)

	return cmd
}

// writeJSON prints v as indented JSON followed by a
// newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
