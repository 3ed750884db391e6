// Package render turns the final syntax tree into HTML.
//
// Build derives a render tree from the merged syntax pages: every render
// record references the syntax record it came from and carries only what
// emission needs. Render then walks one render page with a dispatch table
// of open/close or full emitters, one per render kind.
package render
