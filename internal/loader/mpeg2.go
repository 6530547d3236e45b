package loader

import (
	"context"
	"fmt"

	"ClipForge/pkg/plugin"

	"go.uber.org/zap"
)

// Mpeg2 opens an MPEG-2 source through its d2v index artifact. The index is
// mandatory; the dispatcher guarantees it exists and is fresh before the
// loader runs.
type Mpeg2 struct {
	plugin plugin.Plugin
}

func (l *Mpeg2) Load(ctx context.Context, in Input) Outcome {
	if in.IndexPath == "" {
		return failed(fmt.Errorf("mpeg2 loader requires a d2v index artifact for %s", in.SourcePath))
	}

	in.Logger.Info("opening mpeg2 source",
		zap.String("source", in.SourcePath),
		zap.String("index", in.IndexPath),
		zap.String("plugin", l.plugin.Name()))

	out, err := l.plugin.Open(ctx, plugin.Input{
		RequestID:  in.RequestID,
		SourcePath: in.SourcePath,
		IndexPath:  in.IndexPath,
		Kwargs:     in.Kwargs,
	})
	if err != nil {
		return failed(fmt.Errorf("d2v load failed: %w", err))
	}
	return succeeded(out)
}
