package hosting

// Regular file entry mode and type used in tree
// requests.
const (
	FileMode = "100644"
	BlobType = "blob"
)

// FileEdit is a single path/content pair to land in a
// commit. Path is repository-relative.
type FileEdit struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Signature identifies a commit author or committer.
type Signature struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// FileContent describes one entry returned by a
// contents read. Content is decoded text and is only
// populated for single-file reads.
type FileContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Size     int    `json:"size"`
	Type     string `json:"type"`
	Encoding string `json:"encoding,omitempty"`
	Content  string `json:"content,omitempty"`
	URL      string `json:"url,omitempty"`
	HTMLURL  string `json:"html_url,omitempty"`
}

// Contents is the result of a contents read. Exactly
// one of File or Dir is set: remote reads return
// either a single file record or a directory listing.
type Contents struct {
	File *FileContent  `json:"file,omitempty"`
	Dir  []FileContent `json:"dir,omitempty"`
}

// IsDir reports whether the read returned a directory
// listing.
func (c *Contents) IsDir() bool {
	return c.File == nil
}

// PutFileRequest carries a single-file write. Content
// holds the raw bytes; backends send it base64
// encoded. An empty SHA asks the remote to create the
// file.
type PutFileRequest struct {
	Path      string
	Message   string
	Content   []byte
	Branch    string
	SHA       string
	Author    *Signature
	Committer *Signature
}

// FileCommitResult is the outcome of a single-file
// write.
type FileCommitResult struct {
	Content FileContent      `json:"content"`
	Commit  CommitDescriptor `json:"commit"`
	// Created is true when the write was issued
	// without a version token.
	Created bool `json:"created"`
}

// TreeEntry is one blob entry of a tree creation
// request. Content is sent inline so the remote
// creates the blob implicitly.
type TreeEntry struct {
	Path    string `json:"path"`
	Mode    string `json:"mode"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// TreeRequest asks the remote to create a tree.
// BaseTree may be a tree or commit SHA; paths not
// listed in Entries are kept from it.
type TreeRequest struct {
	Entries  []TreeEntry
	BaseTree string
}

// TreeDescriptor identifies an immutable tree.
type TreeDescriptor struct {
	SHA string `json:"sha"`
	URL string `json:"url,omitempty"`
}

// CommitRequest asks the remote to create a commit.
type CommitRequest struct {
	Message    string
	TreeSHA    string
	ParentSHAs []string
	Author     *Signature
	Committer  *Signature
}

// CommitDescriptor describes an immutable commit.
type CommitDescriptor struct {
	SHA        string     `json:"sha"`
	URL        string     `json:"url,omitempty"`
	HTMLURL    string     `json:"html_url,omitempty"`
	TreeSHA    string     `json:"tree_sha,omitempty"`
	ParentSHAs []string   `json:"parent_shas,omitempty"`
	Message    string     `json:"message,omitempty"`
	Author     *Signature `json:"author,omitempty"`
	Committer  *Signature `json:"committer,omitempty"`
}

// CommitFilesRequest asks the remote to commit Edits
// on top of Branch. Paths not listed keep their
// content.
type CommitFilesRequest struct {
	Branch  string
	Message string
	Edits   []FileEdit
	Author  *Signature
}

// RefObject is the object a reference points at.
type RefObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type,omitempty"`
}

// BranchReference is a named, mutable pointer to a
// commit.
type BranchReference struct {
	Ref    string    `json:"ref"`
	URL    string    `json:"url,omitempty"`
	Object RefObject `json:"object"`
}

// BranchRef returns the reference name for branch in
// the form the git data endpoints expect.
func BranchRef(branch string) string {
	return "heads/" + branch
}
