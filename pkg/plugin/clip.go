package plugin

// Clip is an in-memory handle to a decoded video or image sequence. The
// decode plugin owns the native handle; everything else is metadata for
// downstream frame processing.
type Clip struct {
	Provider   string // name of the plugin that produced the clip
	SourcePath string
	Width      int
	Height     int
	NumFrames  int
	FormatName string
	Handle     interface{}
}
