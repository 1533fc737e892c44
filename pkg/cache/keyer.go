package cache

// Keyer builds cache keys. Implementations must be deterministic.
type Keyer interface {
	// TransformKey addresses a transformed document.
	TransformKey(docHash string, opts TransformKeyOpts) string
	// ReportKey addresses an analysis report.
	ReportKey(docHash string, opts ReportKeyOpts) string
}

// TransformKeyOpts are the options that change transform output.
type TransformKeyOpts struct {
	Kind          string  `json:"kind"`
	Factor        float64 `json:"factor"`
	PreserveAudio bool    `json:"preserve_audio"`
	Indent        int     `json:"indent"`
	EnsureASCII   bool    `json:"ensure_ascii"`
}

// ReportKeyOpts are the options that change an analysis report.
type ReportKeyOpts struct {
	Mode    string `json:"mode"`
	BaseDir string `json:"base_dir"`
}

// DefaultKeyer produces "transform:<hash>" and "report:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TransformKey hashes the document hash with the transform options.
func (DefaultKeyer) TransformKey(docHash string, opts TransformKeyOpts) string {
	return hashKey("transform", docHash, opts)
}

// ReportKey hashes the document hash with the report options.
func (DefaultKeyer) ReportKey(docHash string, opts ReportKeyOpts) string {
	return hashKey("report", docHash, opts)
}
