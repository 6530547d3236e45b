package types

// SourceKind is the classification bucket that decides which indexer and
// which decode plugin handle a given input path.
type SourceKind string

const (
	KindScript  SourceKind = "script"
	KindMpeg2   SourceKind = "mpeg2"
	KindFfms2   SourceKind = "ffms2"
	KindNative  SourceKind = "native"
	KindImage   SourceKind = "image"
	KindUnknown SourceKind = "unknown"
)

type ToolsConfig struct {
	D2VWitchDir  string `mapstructure:"d2vwitch_dir" json:"d2vwitch_dir"`
	FFMSIndexDir string `mapstructure:"ffmsindex_dir" json:"ffmsindex_dir"`
	FallbackDir  string `mapstructure:"fallback_dir" json:"fallback_dir"`
}

type IndexingConfig struct {
	// Dir is an optional dedicated directory for index artifacts. When empty,
	// artifacts are written next to their source files.
	Dir             string   `mapstructure:"dir" json:"dir"`
	ReuseIndexes    bool     `mapstructure:"reuse_indexes" json:"reuse_indexes"`
	InputRange      string   `mapstructure:"input_range" json:"input_range"`
	D2VWitchOptions []string `mapstructure:"d2vwitch_options" json:"d2vwitch_options"`
}

// PluginMapEntry binds a set of file extensions to a source kind and the
// decode plugin that opens them, along with default keyword arguments.
type PluginMapEntry struct {
	Kind       SourceKind             `mapstructure:"kind" json:"kind"`
	Plugin     string                 `mapstructure:"plugin" json:"plugin"`
	Extensions []string               `mapstructure:"extensions" json:"extensions"`
	Kwargs     map[string]interface{} `mapstructure:"kwargs" json:"kwargs"`
}

type StoreConfig struct {
	Type  string      `mapstructure:"type" json:"type"`
	Local LocalConfig `mapstructure:"local" json:"local"`
	S3    S3Config    `mapstructure:"s3" json:"s3"`
}

type LocalConfig struct {
	BasePath string `mapstructure:"base_path" json:"base_path"`
}

type S3Config struct {
	Bucket          string `mapstructure:"bucket" json:"bucket"`
	Region          string `mapstructure:"region" json:"region"`
	AccessKeyID     string `mapstructure:"access_key_id" json:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" json:"secret_access_key"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level" json:"level"`
	Output   string `mapstructure:"output" json:"output"`
	FilePath string `mapstructure:"file_path" json:"file_path"`
}

// DefaultPluginMap is the built-in extension routing. Config may replace it
// wholesale; entries naming a plugin it already contains keep these kwargs as
// the bottom layer of the kwarg merge.
var DefaultPluginMap = []PluginMapEntry{
	{
		Kind:       KindMpeg2,
		Plugin:     "d2v.Source",
		Extensions: []string{"d2v", "m2t", "mp2", "vob", "mpg", "mpv", "m2v"},
		Kwargs:     map[string]interface{}{"rff": true, "threads": 0},
	},
	{
		Kind:       KindFfms2,
		Plugin:     "ffms2.Source",
		Extensions: []string{"avi", "mkv", "264", "h264", "265", "h265", "dv", "webm"},
		Kwargs:     map[string]interface{}{},
	},
	{
		Kind:       KindScript,
		Plugin:     "script.Eval",
		Extensions: []string{"py", "vpy", "avs"},
		Kwargs:     map[string]interface{}{},
	},
	{
		Kind:       KindNative,
		Plugin:     "lsmas.LibavSMASHSource",
		Extensions: []string{"mp4", "mov", "m4v", "3gp", "3g2", "mj2"},
		Kwargs:     map[string]interface{}{},
	},
	{
		Kind:       KindNative,
		Plugin:     "lsmas.LWLibavSource",
		Extensions: []string{"m2ts", "ts", "mts", "mxf"},
		Kwargs:     map[string]interface{}{},
	},
	{
		Kind:       KindImage,
		Plugin:     "imwri.Read",
		Extensions: []string{"png", "jpg", "jpeg", "tif", "tiff", "exr"},
		Kwargs:     map[string]interface{}{"mismatch": false, "alpha": false, "float_output": false},
	},
}
