// Package structure draws a project's structure as a node-link diagram.
//
// [Build] turns a project into a [Graph]: one node for the project, one
// per track, one per timeline clip (nested clips hang off their
// container) and, optionally, one per source-bin entry with dashed edges
// from each clip to the media it plays.
//
// [ToDOT] emits Graphviz DOT text; [Render] lays it out with the bundled
// Graphviz (no system install needed) as SVG or PNG:
//
//	g := structure.Build(p, structure.Options{Sources: true})
//	svg, err := structure.Render(ctx, structure.ToDOT(g), structure.FormatSVG)
package structure
