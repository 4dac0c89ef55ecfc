// Package patch converts textual patches produced by external formatting
// tools into position-exact edit operations.
//
// The package parses the line-oriented hunk format emitted by common diff
// tools (`@@ -start,len +start,len @@` headers followed by signed content
// lines) into structured patches, then walks each patch against the original
// document to synthesize a minimal sequence of delete, insert and replace
// edits anchored to (line, character) coordinates in the original text. The
// edits are ordered and non-overlapping, which makes them safe to hand to an
// editor as a single atomic transaction.
package patch
