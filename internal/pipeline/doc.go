// Package pipeline holds the HTML stages applied to rendered pages after the
// engine has produced them:
//   - wrapping a page fragment into a standalone document
//   - CSS injection
//   - numbered table of contents built from the page headings
//   - relative path rewriting for browser-based PDF export
//
// Every stage works on strings and is safe for concurrent use.
package pipeline
