// Package project loads, validates and saves video-editor project files.
//
// # Overview
//
// A project lives either in a single "*.tscproj" JSON file or in a "*.cmproj"
// container directory whose canonical document is "project.tscproj". [Loader]
// resolves both forms, decodes the document with key order and number
// literals intact, fills documented defaults for missing top-level fields
// and returns a [Project]. [Saver] writes it back through the numeric
// sanitizer with the editor's two-space layout.
//
// # Model
//
// [Project] keeps typed views of the fields the tools reason about
// ([Metadata], [Canvas], the source bin) and the timeline as a raw
// [jsontree.Object]. Top-level keys it does not model are kept in their
// original order and written back untouched by [Project.ToTree].
//
// # Validation
//
// [ValidateStructure] checks the top-level shape against an embedded JSON
// schema and reports problems as "<field> must be a <kind>" messages. By
// default the loader logs them and falls back to defaults; with
// StrictStructure it returns them as an error.
//
// # Versions
//
// With StrictVersion the loader refuses version strings outside
// [version.Supported]. Otherwise any version loads and is preserved on save.
package project
