// Package syntax folds the flat token sequence of each source page into the
// final syntax tree in five whole-document passes:
//
//  1. Recognize: ordered recognizers turn tokens into flat syntax nodes.
//  2. Close: block openers find their closers, bold/italic markers pair up.
//  3. Fold: titles and bullets absorb their line; page breaks split pages.
//  4. Owner: nodes under an illegal parent get a synthesized legal owner.
//  5. Merge: adjacent synthesized owners of the same kind become one.
//
// Each pass reads only the previous pass's tree and adds new records; its
// result type is distinct so passes cannot be chained out of order. The owner
// schema in schema.go drives Pass 2 to Pass 4.
//
// Structural problems are programming errors and panic with
// *node.InvariantError; callers recover them at the package boundary.
package syntax
