package transform

// MediaKind is the closed set of timeline media types, keyed by "_type".
type MediaKind int

const (
	MediaUnknown MediaKind = iota
	MediaVideo
	MediaScreenVideo
	MediaAudio
	MediaImage
	MediaCallout
	MediaGroup
	MediaUnified
	MediaStitched
)

var mediaTypeNames = map[string]MediaKind{
	"VMFile":        MediaVideo,
	"ScreenVMFile":  MediaScreenVideo,
	"AMFile":        MediaAudio,
	"IMFile":        MediaImage,
	"Callout":       MediaCallout,
	"Group":         MediaGroup,
	"UnifiedMedia":  MediaUnified,
	"StitchedMedia": MediaStitched,
}

// MediaKindOf maps a "_type" tag to its kind.
func MediaKindOf(typ string) MediaKind {
	return mediaTypeNames[typ]
}

var mediaKindNames = [...]string{
	"unknown", "VMFile", "ScreenVMFile", "AMFile", "IMFile",
	"Callout", "Group", "UnifiedMedia", "StitchedMedia",
}

// String returns the "_type" tag, or "unknown".
func (k MediaKind) String() string {
	if k < 0 || int(k) >= len(mediaKindNames) {
		return "unknown"
	}
	return mediaKindNames[k]
}

// IsAudio reports whether the kind carries only sound.
func (k MediaKind) IsAudio() bool { return k == MediaAudio }

// mediaRules is the per-kind scaling table.
type mediaRules struct {
	// geometry is false for kinds without a visual frame.
	geometry bool
	// children lists kind-specific keys holding nested timeline content.
	children map[string]Rule
}

var mediaTable = map[MediaKind]mediaRules{
	MediaUnknown:     {geometry: true},
	MediaVideo:       {geometry: true},
	MediaScreenVideo: {geometry: true},
	MediaAudio:       {geometry: false},
	MediaImage:       {geometry: true},
	MediaCallout:     {geometry: true, children: map[string]Rule{"def": object(RegionCalloutDef)}},
	MediaGroup:       {geometry: true, children: map[string]Rule{"tracks": list(RegionTrack)}},
	MediaUnified:     {geometry: true, children: map[string]Rule{"video": object(RegionMedia), "audio": object(RegionMedia)}},
	MediaStitched:    {geometry: true, children: map[string]Rule{"medias": list(RegionMedia)}},
}

// mediaChildren are containers every media kind may carry.
var mediaChildren = map[string]Rule{
	"parameters":      object(RegionParameters),
	"effects":         list(RegionEffect),
	"animationTracks": object(RegionAnimationTracks),
}

// timingKeys are the clip timing fields, all in edit-rate ticks.
var timingKeys = map[string]bool{
	"start":         true,
	"duration":      true,
	"mediaStart":    true,
	"mediaDuration": true,
	"markIn":        true,
	"markOut":       true,
	"trimStartSum":  true,
}
