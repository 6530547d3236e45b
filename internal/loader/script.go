package loader

import (
	"context"
	"errors"
	"fmt"

	"ClipForge/pkg/plugin"

	"go.uber.org/zap"
)

// Script evaluates a script file through its decode plugin. Scripts may
// expose several outputs; the wanted index is forwarded and the discovered
// indices come back in the outcome even when selection fails.
type Script struct {
	plugin plugin.Plugin
}

func (l *Script) Load(ctx context.Context, in Input) Outcome {
	in.Logger.Info("evaluating script",
		zap.String("script", in.SourcePath),
		zap.String("plugin", l.plugin.Name()))

	out, err := l.plugin.Open(ctx, plugin.Input{
		RequestID:   in.RequestID,
		SourcePath:  in.SourcePath,
		OutputIndex: in.OutputIndex,
		Kwargs:      in.Kwargs,
	})
	if err != nil {
		var noOut *plugin.NoOutputError
		if errors.As(err, &noOut) {
			o := failed(err)
			o.AvailableOutputs = noOut.Available
			return o
		}
		return failed(fmt.Errorf("script evaluation failed: %w", err))
	}

	in.Logger.Info("selected script output",
		zap.Int("index", out.SelectedOutput),
		zap.Ints("available", out.AvailableOutputs))
	return succeeded(out)
}
