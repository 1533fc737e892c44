// Package analysis builds read-only reports about a project: its version
// and features, canvas, source bin contents, timeline statistics, a
// complexity score and recommendations.
//
// Two scoring modes exist. [ModeInfo] weighs effects heavily and is used by
// the "info" command; [ModeAnalyze] weighs tracks and is used by the
// "analyze" command and the report store.
//
//	score (info)    = tracks + 2*clips + 3*effects + 0.5*media
//	score (analyze) = 2*tracks + clips + 0.5*media
//
// Media files are checked on disk concurrently with a bounded number of
// workers. Relative source paths resolve against [Analyzer.BaseDir].
package analysis
