package main

import (
	"bytes"
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byte4ever/repofiles/config"
	"github.com/byte4ever/repofiles/hosting"
)

func TestSplitRepo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{in: "org/repo", wantOwner: "org", wantRepo: "repo"},
		{
			in:        "group/sub/project",
			wantOwner: "group/sub",
			wantRepo:  "project",
		},
		{in: "repo", wantErr: true},
		{in: "/repo", wantErr: true},
		{in: "org/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			owner, repo, err := splitRepo(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, hosting.ErrInvalidArgument)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantRepo, repo)
		})
	}
}

func fakeReadFile(files map[string]string) readFileFunc {
	return func(name string) ([]byte, error) {
		s, ok := files[name]
		if !ok {
			return nil, fs.ErrNotExist
		}

		return []byte(s), nil
	}
}

func TestLoadEdits(t *testing.T) {
	t.Parallel()

	read := fakeReadFile(map[string]string{
		"edits.json": `[{"path":"a.txt","content":"X"}]`,
		"local/b":    "Y",
		"bad.json":   `{"path":`,
	})

	edits, err := loadEdits(
		"edits.json", []string{"b.txt=local/b"}, read,
	)

	require.NoError(t, err)
	assert.Equal(t, []hosting.FileEdit{
		{Path: "a.txt", Content: "X"},
		{Path: "b.txt", Content: "Y"},
	}, edits)

	_, err = loadEdits("bad.json", nil, read)
	assert.ErrorIs(t, err, hosting.ErrInvalidArgument)

	_, err = loadEdits("", []string{"no-equals"}, read)
	assert.ErrorIs(t, err, hosting.ErrInvalidArgument)

	_, err = loadEdits("", []string{"c.txt=missing"}, read)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestNewBackends(t *testing.T) {
	t.Parallel()

	gh := config.Default()
	gh.GitHub.AccessToken = "tok"

	b, err := newBackends(&gh)
	require.NoError(t, err)
	assert.NotNil(t, b.contents)
	assert.NotNil(t, b.gitData)
	assert.Nil(t, b.commits)

	gl := config.Default()
	gl.Server = config.ServerGitLab
	gl.GitLab.AccessToken = "tok"

	b, err = newBackends(&gl)
	require.NoError(t, err)
	assert.NotNil(t, b.contents)
	assert.Nil(t, b.gitData)
	assert.NotNil(t, b.commits)

	bad := config.Default()
	bad.Server = "svn"

	_, err = newBackends(&bad)
	assert.ErrorContains(t, err, `unknown server "svn"`)
}

func TestGlobalOptions_apply(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.GitHub.AccessToken = "from-file"

	opts := &globalOptions{
		server:   config.ServerGitLab,
		logLevel: "debug",
	}
	opts.apply(&cfg)

	assert.Equal(t, config.ServerGitLab, cfg.Server)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "from-file", cfg.GitHub.AccessToken)
}

func TestGetCmd_raw(t *testing.T) {
	t.Setenv("REPOFILES_SERVER", "")

	mux := http.NewServeMux()
	mux.HandleFunc(
		"GET /repos/org/repo/contents/docs/a.txt",
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "dev", r.URL.Query().Get("ref"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"type": "file",
				"name": "a.txt",
				"path": "docs/a.txt",
				"sha": "B1",
				"encoding": "base64",
				"content": "aGVsbG8="
			}`))
		},
	)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	cfgPath := filepath.Join(t.TempDir(), "repofiles.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"server: github\n"+
			"github:\n"+
			"  access_token: tok\n"+
			"  base_url: "+ts.URL+"\n",
	), 0o600))

	var out, stderr bytes.Buffer

	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&stderr)
	root.SetArgs([]string{
		"get", "org/repo", "docs/a.txt",
		"--ref", "dev", "--raw", "--config", cfgPath,
	})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "hello", out.String())
}

func TestPutCmd_rejects_both_sources(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"put", "org/repo", "a.txt",
		"--content", "x", "--document-url", "https://example.com",
	})

	err := root.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "none of the others can be")
}
