// Package media edits the source bin of a loaded project.
//
// Timeline clips point at source bin entries through their numeric "src"
// field. The functions here keep the two sides consistent: listing
// references, finding entries nothing points at, removing entries (and
// optionally the clips that use them), rewriting file paths and
// duplicating entries.
//
// All operations work in place on a [project.Project]; callers that need
// the original should [project.Project.Clone] first. Clips nested in
// groups, unified media and stitched media count as references.
package media
