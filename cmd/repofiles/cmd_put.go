package main

import (
	"github.com/spf13/cobra"

	"github.com/byte4ever/repofiles/files"
)

func newPutCmd(opts *globalOptions) *cobra.Command {
	var (
		text        string
		documentURL string
		message     string
		branch      string
		sha         string
	)

	cmd := &cobra.Command{
		Use:   "put <owner/repo> <path>",
		Short: "Create or update a single file",
		Long: "Create or update a single file as one commit. " +
			"The content is either given literally with " +
			"--content or taken from the only code block " +
			"of the document at --document-url.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, repo, err := splitRepo(args[0])
			if err != nil {
				return err
			}

			req := files.CreateOrUpdateFileRequest{
				Owner:       owner,
				Repo:        repo,
				Path:        args[1],
				DocumentURL: documentURL,
				Message:     message,
				Branch:      branch,
				SHA:         sha,
			}

			// An explicit empty --content is a valid
			// literal.
			if cmd.Flags().Changed("content") {
				req.Content = &text
			}

			cfg, err := opts.loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			res, err := svc.CreateOrUpdateFile(cmd.Context(), req)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.StringVar(&text, "content", "", "Literal file content")
	f.StringVar(
		&documentURL, "document-url", "",
		"URL of a document holding exactly one code block",
	)
	f.StringVarP(&message, "message", "m", "", "Commit message")
	f.StringVar(
		&branch, "branch", "",
		"Target branch (default branch if empty)",
	)
	f.StringVar(
		&sha, "sha", "",
		"Current blob SHA of the file; looked up when empty",
	)
	cmd.MarkFlagsMutuallyExclusive("content", "document-url")
	cmd.MarkFlagsOneRequired("content", "document-url")

	return cmd
}
