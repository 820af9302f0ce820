package main

import (
	"fmt"
	"strings"

	"github.com/byte4ever/repofiles/config"
	"github.com/byte4ever/repofiles/hosting"
	"github.com/byte4ever/repofiles/hosting/github"
	"github.com/byte4ever/repofiles/hosting/gitlab"
)

// backends groups the capabilities of one hosting
// platform. Exactly one of gitData and commits serves
// multi-file pushes.
type backends struct {
	contents hosting.ContentStore
	gitData  hosting.GitData
	commits  hosting.Commits
}

// newBackends creates the backends for cfg.Server.
// Pattern: Factory -- selects platform implementation
// at runtime.
func newBackends(cfg *config.Config) (backends, error) {
	const errCtx = "creating hosting backend"

	switch cfg.Server {
	case config.ServerGitHub:
		p, err := github.NewProvider(github.Config{
			AccessToken:    cfg.GitHub.AccessToken,
			EnterpriseHost: cfg.GitHub.EnterpriseHost,
			BaseURL:        cfg.GitHub.BaseURL,
		})
		if err != nil {
			return backends{}, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return backends{contents: p, gitData: p}, nil

	case config.ServerGitLab:
		p, err := gitlab.NewProvider(gitlab.Config{
			Host:        cfg.GitLab.Host,
			AccessToken: cfg.GitLab.AccessToken,
		})
		if err != nil {
			return backends{}, fmt.Errorf(
				"%s: %w", errCtx, err,
			)
		}

		return backends{contents: p, commits: p}, nil

	default:
		return backends{}, fmt.Errorf(
			"%s: unknown server %q", errCtx, cfg.Server,
		)
	}
}

// splitRepo splits "owner/repo" at the last slash so
// GitLab subgroup paths keep their namespace in owner.
func splitRepo(s string) (string, string, error) {
	i := strings.LastIndex(s, "/")
	if i <= 0 || i == len(s)-1 {
		return "", "", fmt.Errorf(
			"%w: repository %q must be owner/repo",
			hosting.ErrInvalidArgument, s,
		)
	}

	return s[:i], s[i+1:], nil
}
