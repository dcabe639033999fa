// Package changelog turns conventional-commit history into Keep a Changelog
// sections and merges them into CHANGELOG.md.
//
// This package implements:
//   - Commit message classification (conventional commits with a keyword fallback)
//   - Grouping of entries into the fixed Keep a Changelog category order
//   - Rendering of version sections and link references
//   - Idempotent merging of a new section into an existing changelog document
//
// Git access is abstracted behind the History interface so that everything
// except the history query itself is pure and testable without a repository.
package changelog
