// Package node implements the per-document node registry.
//
// Every record produced while processing a document (source pages, lexical
// tokens, syntax nodes of each pipeline stage, render nodes) lives in one
// Registry arena and is addressed by its ID. IDs are assigned in creation order,
// never reused, and double as the serialization key: a Graph is the flat record
// table plus child ID lists, from which Owner and Index are rebuilt on load.
//
// Records are append-only. The only permitted mutation after Add is the growth
// of a spanned container's End while it is the last node of its owner's list,
// which Registry performs itself when children are appended.
package node
