// Package files reads repository files and lands file changes on a hosting
// backend.
//
// Writer creates or updates one file through the contents API, discovering
// the current version token when the caller does not supply one. Pusher
// lands any number of edits as a single commit by walking an explicit state
// machine:
//
//	StepReadHead -> StepBuildTree -> StepBuildCommit -> StepUpdateRef -> StepDone
//
// Each step consumes the previous step's output and a failure stops the
// machine where it is, so a PushState can be run again from the failing
// step. Objects created before a failure are left behind unreferenced.
//
// Backends without git database endpoints land the same edits through
// CommitFiles, a single call to hosting.Commits.
//
// Service wires a content.Resolver, a Writer, a Pusher (or CommitFiles) and
// a Reader behind the operations exposed to callers.
package files
