package index

import (
	types "ClipForge/pkg"

	"go.uber.org/zap"
)

// NewFFMSIndex returns the invoker for the ffmsindex tool. The -f flag forces
// overwriting so a retried run is not rejected by the tool itself.
func NewFFMSIndex(tools types.ToolsConfig, logger *zap.Logger) *Invoker {
	return &Invoker{
		tool:        "ffmsindex",
		execDir:     tools.FFMSIndexDir,
		fallbackDir: tools.FallbackDir,
		indexExt:    "ffindex",
		sanity:      FFIndexSanity,
		buildArgs: func(sourcePath, indexPath string, extra []string) []string {
			args := make([]string, 0, len(extra)+3)
			args = append(args, "-f")
			args = append(args, extra...)
			args = append(args, sourcePath, indexPath)
			return args
		},
		logger: logger,
	}
}
