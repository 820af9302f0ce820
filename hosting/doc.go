// Package hosting defines the data model, error taxonomy, and strategy
// interfaces for talking to a source-control hosting API.
//
// ContentStore covers the file contents endpoints (read a file or directory
// listing, create-or-update one file). GitData covers the low-level git
// database endpoints (references, trees, commits) used to land an atomic
// multi-file commit. Commits lands several files in one call on platforms
// that lack GitData. Implementations exist for GitHub and GitLab in
// sub-packages. ContentsFuncs and GitDataFuncs let plain functions satisfy
// the interfaces.
//
// Backends report non-2xx responses as *RemoteError, which matches
// ErrNotFound and ErrConflict through errors.Is.
package hosting
