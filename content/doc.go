// Package content resolves the bytes to write for a single-file update.
//
// A Source carries either literal content or the URL of a remote document.
// Documents are fetched through a Fetcher and must contain exactly one code
// block, which ExtractCodeBlock isolates and DecodeEntities unescapes.
package content
