// Package markdown turns document text into the ast tree used for styling.
//
// Parsing strips a leading frontmatter block, tokenizes the body with
// goldmark (CommonMark plus tables, strikethrough, task lists and linkify)
// and converts goldmark's tree into ast nodes carrying byte offsets into the
// body. Block constructs may end with a `{.class .other}` annotation whose
// class names are moved into the node's CSS class list.
package markdown
