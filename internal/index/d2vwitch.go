package index

import (
	types "ClipForge/pkg"

	"go.uber.org/zap"
)

// DefaultD2VWitchOptions matches the stock d2vwitch invocation for DVD/MPEG-2
// sources.
var DefaultD2VWitchOptions = []string{"--input-range", "limited", "--single-input"}

// NewD2VWitch returns the invoker for the d2vwitch MPEG-2 indexer. Extra
// options from the indexing config replace the defaults when present.
func NewD2VWitch(tools types.ToolsConfig, options []string, logger *zap.Logger) *Invoker {
	base := options
	if len(base) == 0 {
		base = DefaultD2VWitchOptions
	}
	return &Invoker{
		tool:        "d2vwitch",
		execDir:     tools.D2VWitchDir,
		fallbackDir: tools.FallbackDir,
		indexExt:    "d2v",
		sanity:      D2VSanity,
		buildArgs: func(sourcePath, indexPath string, extra []string) []string {
			args := make([]string, 0, len(base)+len(extra)+3)
			args = append(args, base...)
			args = append(args, extra...)
			args = append(args, "--output", indexPath, sourcePath)
			return args
		},
		logger: logger,
	}
}
