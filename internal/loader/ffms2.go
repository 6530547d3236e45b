package loader

import (
	"context"
	"fmt"

	"ClipForge/pkg/plugin"

	"go.uber.org/zap"
)

// Ffms2 opens a container through ffms2 with its ffindex artifact passed as
// the cachefile kwarg, matching how the plugin expects to find it.
type Ffms2 struct {
	plugin plugin.Plugin
}

func (l *Ffms2) Load(ctx context.Context, in Input) Outcome {
	kwargs := in.Kwargs
	if in.IndexPath != "" {
		kwargs = cloneKwargs(in.Kwargs)
		kwargs["cachefile"] = in.IndexPath
	}

	in.Logger.Info("opening ffms2 source",
		zap.String("source", in.SourcePath),
		zap.String("index", in.IndexPath),
		zap.String("plugin", l.plugin.Name()))

	out, err := l.plugin.Open(ctx, plugin.Input{
		RequestID:  in.RequestID,
		SourcePath: in.SourcePath,
		IndexPath:  in.IndexPath,
		Kwargs:     kwargs,
	})
	if err != nil {
		return failed(fmt.Errorf("ffms2 load failed: %w", err))
	}
	return succeeded(out)
}
