// Package highlight maps ast trees onto style spans.
//
// Engine walks a tree and emits one Span per styled node, caching results by
// source hash and config version. Incremental gates cache use on how similar
// consecutive sources are, and Debouncer drops calls that arrive too soon
// after the last accepted one. Pipeline composes the layers with a parser.
package highlight
