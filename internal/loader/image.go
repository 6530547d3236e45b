package loader

import (
	"context"
	"fmt"

	"ClipForge/pkg/plugin"

	"go.uber.org/zap"
)

// Image reads an image file as the first frame of a clip built from its
// sibling files with the same numbering pattern. firstnum/lastnum kwargs
// bound the run and are consumed here, not forwarded to the plugin.
type Image struct {
	plugin plugin.Plugin
}

func (l *Image) Load(ctx context.Context, in Input) Outcome {
	kwargs := cloneKwargs(in.Kwargs)
	firstNum := popInt(kwargs, "firstnum")
	lastNum := popInt(kwargs, "lastnum")

	paths, err := Expand(in.SourcePath, firstNum, lastNum)
	if err != nil {
		return failed(err)
	}

	in.Logger.Info("opening image sequence",
		zap.String("first", paths[0]),
		zap.Int("frames", len(paths)),
		zap.String("plugin", l.plugin.Name()))

	out, err := l.plugin.Open(ctx, plugin.Input{
		RequestID:     in.RequestID,
		SourcePath:    in.SourcePath,
		SequencePaths: paths,
		Kwargs:        kwargs,
	})
	if err != nil {
		return failed(fmt.Errorf("image read failed: %w", err))
	}
	return succeeded(out)
}

// popInt removes an integer-valued kwarg, tolerating the numeric types yaml
// and json decoders produce.
func popInt(kwargs map[string]interface{}, key string) *int {
	v, ok := kwargs[key]
	if !ok {
		return nil
	}
	delete(kwargs, key)
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	default:
		return nil
	}
}
