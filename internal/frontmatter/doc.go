// Package frontmatter splits the leading `---` metadata block from document
// text and decodes it into an ordered value tree. Decoding has two paths: a
// lenient one that never fails and a strict one that reports typed errors for
// editors that surface metadata problems to the user.
package frontmatter
