// Package transform scales project documents in space or time.
//
// # Overview
//
// A project file is a deep JSON tree whose numbers mean very different
// things depending on where they sit: canvas pixels, source rectangles,
// clip start ticks, keyframe times, crop offsets, scale ratios. This package
// walks the tree with a region-aware context and consults a fixed rule
// table at every key to decide what, if anything, to do with the value.
//
// The three layers are:
//
//   - [Classify]: the rule table. Given a key and its [Context], it returns
//     a [Rule] saying how to scale a numeric value and which region to
//     enter for a container value. It never fails; unknown keys pass
//     through.
//   - [TransformTree]: the walker. It returns a new tree with the same
//     shape as its input and only numeric leaves changed.
//   - [Transformer]: the façade. It validates the [Config] once, starts the
//     walk at the document root and logs a summary.
//
// # Spatial Rules
//
//   - Canvas width and height are rounded and clamped to at least 1.
//   - Source bin rect and sourceTracks trackRect elements are scaled.
//   - sourceTracks range is a frame range and is never touched.
//   - translationN and geometryCropN are rounded; scaleN stays continuous.
//   - Keyframe values and defaultValue are scaled only under those names.
//   - Callout geometry (width, height, corner-radius, stroke-width) is scaled.
//   - Audio media carry no geometry and are left alone.
//
// # Temporal Rules
//
//   - Media start, duration, mediaStart, mediaDuration, markIn, markOut and
//     trimStartSum are scaled and rounded.
//   - Keyframe time, endTime and duration are scaled everywhere below the
//     timeline, including timeline markers.
//   - Effect start/duration and transition duration are scaled.
//   - With PreserveAudioDuration, audio media only have start scaled.
//
// editRate is never scaled. Non-numeric values under a scaled key (such as
// "auto") are kept as is. Every structural key expects either a list
// (medias, tracks, keyframes) or an object (timeline, csml, parameters);
// a value of the other shape is copied unchanged without being walked.
//
// # Concurrency
//
// All functions are pure. Distinct trees may be transformed in parallel.
package transform
