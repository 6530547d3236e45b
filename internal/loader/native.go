package loader

import (
	"context"
	"fmt"

	"ClipForge/pkg/plugin"

	"go.uber.org/zap"
)

// Native opens a container the decode plugin can read directly, no index
// required.
type Native struct {
	plugin plugin.Plugin
}

func (l *Native) Load(ctx context.Context, in Input) Outcome {
	in.Logger.Info("opening native source",
		zap.String("source", in.SourcePath),
		zap.String("plugin", l.plugin.Name()))

	out, err := l.plugin.Open(ctx, plugin.Input{
		RequestID:  in.RequestID,
		SourcePath: in.SourcePath,
		Kwargs:     in.Kwargs,
	})
	if err != nil {
		return failed(fmt.Errorf("%s load failed: %w", l.plugin.Name(), err))
	}
	return succeeded(out)
}
