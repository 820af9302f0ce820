// Package commitmsg renders commit messages from a template with
// {{placeholder}} tags.
package commitmsg

import (
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"
)

// DefaultTemplate uses the caller's message unchanged.
const DefaultTemplate = "{{message}}"

// Vars are the values available to a template:
// {{message}}, {{repo}}, {{branch}}, {{count}},
// {{paths}} (comma separated) and {{files}} (one
// "- path" line per file).
type Vars struct {
	Message string
	Repo    string
	Branch  string
	Paths   []string
}

// Render expands tpl with v. Unknown tags are kept
// as-is. An empty tpl means DefaultTemplate.
func Render(tpl string, v Vars) string {
	if tpl == "" {
		tpl = DefaultTemplate
	}

	ctx := map[string]any{
		"message": v.Message,
		"repo":    v.Repo,
		"branch":  v.Branch,
		"count":   strconv.Itoa(len(v.Paths)),
		"paths":   strings.Join(v.Paths, ", "),
		"files":   fileList(v.Paths),
	}

	return fasttemplate.ExecuteStringStd(tpl, "{{", "}}", ctx)
}

func fileList(paths []string) string {
	var sb strings.Builder

	for i, p := range paths {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString("- ")
		sb.WriteString(p)
	}

	return sb.String()
}
