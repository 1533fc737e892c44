package transform

// Action says what to do with a numeric value.
type Action int

const (
	// Passthrough leaves the value unchanged.
	Passthrough Action = iota
	// ScaleRounded multiplies and rounds half away from zero. Integers stay
	// integers and floats stay floats.
	ScaleRounded
	// ScaleContinuous multiplies and keeps the exact float product.
	ScaleContinuous
	// ScaleDimension multiplies, rounds and clamps to a whole number between
	// 1 and math.MaxFloat64.
	ScaleDimension
	// ScaleMatching multiplies, rounding integers and keeping floats exact.
	ScaleMatching
	// ScaleEach applies ScaleMatching to every number in an array value.
	ScaleEach
)

var actionNames = [...]string{"passthrough", "rounded", "continuous", "dimension", "matching", "each"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// Region locates a node in the project tree.
type Region int

const (
	RegionNone Region = iota
	RegionRoot
	RegionSourceItem
	RegionSourceTrack
	RegionTimeline
	RegionSceneTrack
	RegionScene
	RegionCSML
	RegionTrack
	RegionTransition
	RegionMedia
	RegionAnimationTracks
	RegionAnimation
	RegionEffect
	RegionParameters
	RegionCurve
	RegionKeyframe
	RegionCalloutDef
)

// Context is the position of a key during a walk.
type Context struct {
	Kind          Kind
	Region        Region
	Media         MediaKind // innermost media kind, set inside RegionMedia
	Parameter     string    // owning parameter name for curves and keyframes
	PreserveAudio bool
}

// Shape is the container kind a structural key is expected to hold.
type Shape int

const (
	ShapeObject Shape = iota
	ShapeList
)

// Rule is the classification of one key.
type Rule struct {
	// Action applies when the value is a number, or an array for ScaleEach.
	Action Action
	// Into is the region to walk when the value has the expected Shape.
	// RegionNone, or a value of any other shape, is copied unchanged.
	Into  Region
	Shape Shape
}

// Descends reports whether a value of shape s is walked into r.Into.
func (r Rule) Descends(s Shape) bool {
	return r.Into != RegionNone && r.Shape == s
}

var (
	pass      = Rule{}
	rounded   = Rule{Action: ScaleRounded}
	dimension = Rule{Action: ScaleDimension}
	matching  = Rule{Action: ScaleMatching}
	each      = Rule{Action: ScaleEach}
)

func object(r Region) Rule { return Rule{Into: r, Shape: ShapeObject} }
func list(r Region) Rule   { return Rule{Into: r, Shape: ShapeList} }

// structure maps container keys to the region they open, independent of
// the transform kind.
var structure = map[Region]map[string]Rule{
	RegionRoot:       {"sourceBin": list(RegionSourceItem), "timeline": object(RegionTimeline)},
	RegionSourceItem: {"sourceTracks": list(RegionSourceTrack)},
	RegionTimeline:   {"sceneTrack": object(RegionSceneTrack), "parameters": object(RegionParameters), "markers": list(RegionKeyframe)},
	RegionSceneTrack: {"scenes": list(RegionScene)},
	RegionScene:      {"csml": object(RegionCSML)},
	RegionCSML:       {"tracks": list(RegionTrack)},
	RegionTrack:      {"medias": list(RegionMedia), "transitions": list(RegionTransition)},
	RegionEffect:     {"parameters": object(RegionParameters)},
	RegionCurve:      {"keyframes": list(RegionKeyframe)},
}

// spatialKeys are fixed-name geometry fields per region.
var spatialKeys = map[Region]map[string]Rule{
	RegionRoot:        {"width": dimension, "height": dimension},
	RegionSourceItem:  {"rect": each},
	RegionSourceTrack: {"trackRect": each, "range": pass},
	RegionCalloutDef: {
		"width":         matching,
		"height":        matching,
		"corner-radius": matching,
		"stroke-width":  matching,
	},
}

// temporalKeys are fixed-name timing fields per region.
var temporalKeys = map[Region]map[string]Rule{
	RegionTransition: {"duration": rounded},
	RegionEffect:     {"start": rounded, "duration": rounded},
	RegionKeyframe:   {"time": rounded, "endTime": rounded, "duration": rounded},
	RegionAnimation:  {"endTime": rounded, "duration": rounded, "range": each},
}

// parameterPattern matches names of the form prefix + single digit.
type parameterPattern struct {
	prefix string
	max    byte
	action Action
}

var spatialParameters = []parameterPattern{
	{prefix: "translation", max: '2', action: ScaleRounded},
	{prefix: "scale", max: '2', action: ScaleContinuous},
	{prefix: "geometryCrop", max: '3', action: ScaleRounded},
}

// SpatialParameter reports whether name is a geometry parameter and how its
// values scale.
func SpatialParameter(name string) (Action, bool) {
	for _, p := range spatialParameters {
		if len(name) != len(p.prefix)+1 || name[:len(p.prefix)] != p.prefix {
			continue
		}
		if d := name[len(p.prefix)]; d >= '0' && d <= p.max {
			return p.action, true
		}
	}
	return Passthrough, false
}

// Classify returns the rule for key at ctx. It is total: keys it does not
// know pass through.
func Classify(key string, ctx Context) Rule {
	switch ctx.Region {
	case RegionMedia:
		return classifyMedia(key, ctx)
	case RegionParameters:
		return classifyParameter(key, ctx)
	case RegionAnimationTracks:
		return list(RegionAnimation)
	}

	if r, ok := structure[ctx.Region][key]; ok {
		return r
	}
	switch ctx.Kind {
	case Spatial:
		if r, ok := spatialKeys[ctx.Region][key]; ok {
			return r
		}
		if (ctx.Region == RegionKeyframe && key == "value") ||
			(ctx.Region == RegionCurve && key == "defaultValue") {
			if a, ok := SpatialParameter(ctx.Parameter); ok {
				return Rule{Action: a}
			}
		}
	case Temporal:
		if r, ok := temporalKeys[ctx.Region][key]; ok {
			return r
		}
	}
	return pass
}

func classifyMedia(key string, ctx Context) Rule {
	rules := mediaTable[ctx.Media]

	// Audio with preserved duration only moves in time.
	if ctx.Kind == Temporal && ctx.PreserveAudio && ctx.Media.IsAudio() {
		if key == "start" {
			return rounded
		}
		return pass
	}

	if r, ok := rules.children[key]; ok {
		return r
	}
	if r, ok := mediaChildren[key]; ok {
		if ctx.Kind == Spatial && !rules.geometry {
			return pass
		}
		return r
	}

	switch ctx.Kind {
	case Spatial:
		if !rules.geometry {
			return pass
		}
		if a, ok := SpatialParameter(key); ok {
			return Rule{Action: a}
		}
	case Temporal:
		if timingKeys[key] {
			return rounded
		}
	}
	return pass
}

func classifyParameter(key string, ctx Context) Rule {
	r := object(RegionCurve)
	if ctx.Kind == Spatial {
		if a, ok := SpatialParameter(key); ok {
			r.Action = a
		}
	}
	return r
}
