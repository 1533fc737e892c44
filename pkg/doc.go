// Package pkg provides the core libraries for tscproj, a transform engine for
// Camtasia project files.
//
// # Overview
//
// A Camtasia project (.tscproj, or a .cmproj container holding one) is a
// large JSON document describing a canvas, a source bin of media files and
// a timeline of tracks and clips. tscproj rescales such documents in space
// (canvas size, positions, crops, font sizes) or in time (starts,
// durations, keyframes) while leaving every field it does not understand
// untouched. The pkg directory is organized into four areas:
//
//  1. Document model - [jsontree], [project], [version], [sanitize]
//  2. Transform engine - [transform], [timing]
//  3. Inspection - [media], [analysis], [structure]
//  4. Orchestration - [pipeline], [cache], [store], [api], [config]
//
// # Architecture
//
// The data flow of a transform:
//
//	.tscproj file
//	     ↓
//	[project] Loader (parse, detect version, validate structure)
//	     ↓
//	[transform] Transformer (classify each key, scale numbers)
//	     ↓
//	[sanitize] (replace NaN and ±Inf before encoding)
//	     ↓
//	[project] Saver (backup, atomic write)
//
// [pipeline] wires these stages together with a result cache and is shared
// by the CLI, the batch runner and the HTTP API.
//
// # Quick Start
//
// Scale a project to 1.5x its canvas size:
//
//	import (
//	    "github.com/matzehuels/tscproj/pkg/project"
//	    "github.com/matzehuels/tscproj/pkg/transform"
//	)
//
//	p, _ := project.NewLoader(nil).LoadFile("demo.tscproj")
//	scaled, _ := transform.TransformProject(p, transform.SpatialConfig(1.5))
//	_ = project.NewSaver(nil).SaveFile(scaled, "demo.tscproj")
//
// Slow a project down to half speed, keeping audio clips at their natural
// length:
//
//	cfg := transform.TemporalConfig(2, true)
//	slowed, _ := transform.TransformProject(p, cfg)
//
// # Main Packages
//
// [jsontree] - An order-preserving JSON tree. Numbers keep their literal
// text, so untouched values round-trip byte for byte.
//
// [project] - Loading, validating and saving project documents. Loading is
// lenient by default: missing fields get version-specific defaults.
//
// [version] - Version detection from stated version strings and structural
// markers, with the feature set of each major version.
//
// [transform] - The property classifier and the tree transformer. Every key
// is classified by name and position into a spatial, temporal or
// preserved rule.
//
// [media] - Source bin queries and edits: usage, removal, path replacement
// and duplication.
//
// [analysis] - Project reports with media, timeline and complexity
// summaries, encoded as text, JSON or YAML.
//
// [structure] - Graphviz diagrams of tracks, clips and containers.
//
// [pipeline] - Execute and batch runners shared by every entry point.
//
// [cache] - File, Redis and null caches for transform results.
//
// [store] - MongoDB and in-memory stores for analysis reports.
//
// [api] - The HTTP service.
//
// [jsontree]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/jsontree
// [project]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/project
// [version]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/version
// [sanitize]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/sanitize
// [transform]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/transform
// [timing]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/timing
// [media]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/media
// [analysis]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/analysis
// [structure]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/structure
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/store
// [api]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/api
// [config]: https://pkg.go.dev/github.com/matzehuels/tscproj/pkg/config
package pkg
