package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ClipForge/internal/config"
	"ClipForge/internal/index"
	"ClipForge/internal/index/store"
	"ClipForge/internal/loader"
	types "ClipForge/pkg"
	"ClipForge/pkg/plugin"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Request describes one source to resolve. Kwargs override the configured
// plugin defaults; FormatHints are carried through untouched for downstream
// color conversion.
type Request struct {
	Path        string
	OutputIndex *int
	Kwargs      map[string]interface{}
	FormatHints map[string]interface{}
}

// Dispatcher orchestrates resolution per input path: classify, ensure the
// index artifact when the kind requires one, then hand the ready source to
// the matching loader. Processing is synchronous and sequential; each
// indexer invocation blocks until the child process exits.
type Dispatcher struct {
	logger     *zap.Logger
	registry   *plugin.Registry
	classifier *Classifier
	indexing   types.IndexingConfig
	d2vwitch   *index.Invoker
	ffmsindex  *index.Invoker
	artifacts  store.Store
}

func NewDispatcher(cfg *config.Config, registry *plugin.Registry, artifacts store.Store, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		logger:     logger,
		registry:   registry,
		classifier: NewClassifier(mergeDefaultKwargs(cfg.Plugins)),
		indexing:   cfg.Indexing,
		d2vwitch:   index.NewD2VWitch(cfg.Tools, cfg.Indexing.D2VWitchOptions, logger),
		ffmsindex:  index.NewFFMSIndex(cfg.Tools, logger),
		artifacts:  artifacts,
	}
}

// ResolveMany resolves a batch of sources, one Result per request in input
// order. Per-path failures never raise: they are captured into that path's
// Result and the remaining paths proceed untouched.
func (d *Dispatcher) ResolveMany(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		results = append(results, d.resolveLogged(ctx, req))
	}
	return results
}

// ResolveOne resolves a single path with explicit keyword arguments and
// returns the clip directly. Unlike ResolveMany it surfaces failures to the
// caller instead of producing a logged result.
func (d *Dispatcher) ResolveOne(ctx context.Context, path string, outputIndex *int, kwargs map[string]interface{}) (*plugin.Clip, error) {
	cap := newCapture(d.logger)
	out, err := d.resolve(ctx, Request{Path: path, OutputIndex: outputIndex, Kwargs: kwargs}, uuid.New(), cap)
	if err != nil {
		return nil, err
	}
	return out.Clip, nil
}

// PrepareIndexes runs classification and indexing only, without loading
// clips. Useful for warming indexes ahead of an editing session.
func (d *Dispatcher) PrepareIndexes(ctx context.Context, paths []string) []Result {
	results := make([]Result, 0, len(paths))
	for _, path := range paths {
		cap := newCapture(d.logger)
		res := newResult(path)

		err := d.prepare(ctx, path, cap)
		if err != nil {
			markFailed(&res, err, cap)
		}
		res.Log = cap.Log()
		res.LogError = cap.LogError()
		results = append(results, res)
	}
	return results
}

func (d *Dispatcher) prepare(ctx context.Context, path string, cap *capture) error {
	entry, err := d.classify(path, cap)
	if err != nil {
		return err
	}
	switch entry.Kind {
	case types.KindMpeg2:
		if Ext(path) == "d2v" {
			cap.logger.Info("source is already a d2v index", zap.String("path", path))
			return nil
		}
		_, err = d.ensureIndex(ctx, d.d2vwitch, path, cap)
		return err
	case types.KindFfms2:
		_, err = d.ensureIndex(ctx, d.ffmsindex, path, cap)
		return err
	default:
		cap.logger.Info("no index required", zap.String("kind", string(entry.Kind)))
		return nil
	}
}

func (d *Dispatcher) resolveLogged(ctx context.Context, req Request) Result {
	cap := newCapture(d.logger)
	res := newResult(req.Path)
	res.FormatHints = req.FormatHints

	out, err := d.resolve(ctx, req, res.RequestID, cap)
	if err != nil {
		markFailed(&res, err, cap)
		if len(out.AvailableOutputs) > 0 {
			res.AvailableOutputs = out.AvailableOutputs
		}
	} else {
		res.Clip = out.Clip
		res.AvailableOutputs = out.AvailableOutputs
		res.SelectedOutput = out.SelectedOutput
	}

	res.Log = cap.Log()
	res.LogError = cap.LogError()
	return res
}

// resolve runs the per-path pipeline: classify, ensure index, load. Errors at
// any stage short-circuit the remaining stages for this path only.
func (d *Dispatcher) resolve(ctx context.Context, req Request, id uuid.UUID, cap *capture) (loader.Outcome, error) {
	entry, err := d.classify(req.Path, cap)
	if err != nil {
		return loader.Outcome{}, err
	}

	pl, ok := d.registry.Get(entry.Plugin)
	if !ok {
		return loader.Outcome{}, fmt.Errorf("decode plugin %s not registered", entry.Plugin)
	}

	kwargs := mergeKwargs(entry.Kwargs, req.Kwargs)
	if err := pl.Validate(kwargs); err != nil {
		return loader.Outcome{}, fmt.Errorf("invalid kwargs for %s: %w", entry.Plugin, err)
	}

	indexPath := ""
	switch entry.Kind {
	case types.KindMpeg2:
		if Ext(req.Path) == "d2v" {
			// The source is its own index; only the range byte may need fixing.
			indexPath = req.Path
		} else {
			indexPath, err = d.ensureIndex(ctx, d.d2vwitch, req.Path, cap)
			if err != nil {
				return loader.Outcome{}, err
			}
		}
		if changed, err := index.CorrectRangeByte(indexPath, d.indexing.InputRange); err != nil {
			cap.logger.Warn("input range byte check failed", zap.Error(err))
		} else if changed {
			cap.logger.Info("corrected input range byte",
				zap.String("index", indexPath),
				zap.String("range", d.indexing.InputRange))
		}
	case types.KindFfms2:
		indexPath, err = d.ensureIndex(ctx, d.ffmsindex, req.Path, cap)
		if err != nil {
			return loader.Outcome{}, err
		}
	}

	ld, ok := loader.ForKind(entry.Kind, pl)
	if !ok {
		return loader.Outcome{}, fmt.Errorf("no loader for source kind %q", entry.Kind)
	}

	out := ld.Load(ctx, loader.Input{
		RequestID:   id,
		SourcePath:  req.Path,
		IndexPath:   indexPath,
		OutputIndex: req.OutputIndex,
		Kwargs:      kwargs,
		Logger:      cap.logger,
	})
	if out.Err != nil {
		return out, out.Err
	}
	if out.Clip == nil {
		return out, fmt.Errorf("plugin %s returned no clip for %s", entry.Plugin, req.Path)
	}
	return out, nil
}

func (d *Dispatcher) classify(path string, cap *capture) (types.PluginMapEntry, error) {
	if path == "" {
		return types.PluginMapEntry{}, fmt.Errorf("empty source path")
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return types.PluginMapEntry{}, fmt.Errorf("not a valid filepath: %s", path)
	}
	entry, ok := d.classifier.Lookup(path)
	if !ok {
		ext := Ext(path)
		if ext == "" {
			ext = "no extension"
		}
		return types.PluginMapEntry{}, fmt.Errorf("unrecognized extension (%s) for %s", ext, path)
	}
	cap.logger.Info("classified source",
		zap.String("path", path),
		zap.String("kind", string(entry.Kind)),
		zap.String("plugin", entry.Plugin))
	return entry, nil
}

// ensureIndex makes the deterministic index artifact for the source current:
// reuse when fresh, seed from the shared store when available, otherwise run
// the indexer. The tool's output is preserved verbatim in the capture.
func (d *Dispatcher) ensureIndex(ctx context.Context, inv *index.Invoker, path string, cap *capture) (string, error) {
	indexPath := index.ArtifactPath(path, inv.IndexExt(), d.indexing.Dir)
	if d.indexing.Dir != "" {
		if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
			return "", fmt.Errorf("failed to create indexing directory: %w", err)
		}
	}

	if d.indexing.ReuseIndexes {
		d.seedFromStore(ctx, path, indexPath, cap)
		if !index.Needs(path, indexPath, inv.Sanity()) {
			cap.logger.Info("reusing index", zap.String("index", indexPath))
			return indexPath, nil
		}
		cap.logger.Info("index missing or stale",
			zap.String("tool", inv.Tool()),
			zap.String("index", indexPath))
	} else {
		cap.logger.Info("index reuse disabled, indexing",
			zap.String("tool", inv.Tool()),
			zap.String("source", path))
	}

	out, err := inv.Run(ctx, path, indexPath, nil)
	cap.AppendToolOutput(out.Stdout, out.Stderr)
	if err != nil {
		return "", err
	}

	d.publishToStore(ctx, path, indexPath, cap)
	return indexPath, nil
}

// storeKey names an artifact by its source identity (mtime and size), so an
// artifact published against older source bytes never matches: a local mtime
// comparison on a freshly fetched file would otherwise pass trivially.
func storeKey(sourcePath, indexPath string) (string, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%d-%d", filepath.Base(indexPath), info.ModTime().Unix(), info.Size()), nil
}

func (d *Dispatcher) seedFromStore(ctx context.Context, sourcePath, indexPath string, cap *capture) {
	if d.artifacts == nil {
		return
	}
	if _, err := os.Stat(indexPath); err == nil {
		return
	}
	key, err := storeKey(sourcePath, indexPath)
	if err != nil {
		return
	}
	data, err := d.artifacts.Fetch(ctx, key)
	if err != nil {
		cap.logger.Info("index not in shared store", zap.String("key", key))
		return
	}
	if err := os.WriteFile(indexPath, data, 0644); err != nil {
		cap.logger.Warn("failed to write fetched index", zap.Error(err))
		return
	}
	cap.logger.Info("seeded index from shared store", zap.String("index", indexPath))
}

func (d *Dispatcher) publishToStore(ctx context.Context, sourcePath, indexPath string, cap *capture) {
	if d.artifacts == nil {
		return
	}
	key, err := storeKey(sourcePath, indexPath)
	if err != nil {
		cap.logger.Warn("failed to stat source for publishing", zap.Error(err))
		return
	}
	f, err := os.Open(indexPath)
	if err != nil {
		cap.logger.Warn("failed to open index for publishing", zap.Error(err))
		return
	}
	defer f.Close()
	if err := d.artifacts.Put(ctx, key, f); err != nil {
		cap.logger.Warn("failed to publish index to shared store", zap.Error(err))
		return
	}
	cap.logger.Info("published index to shared store", zap.String("key", key))
}

func newResult(path string) Result {
	return Result{
		RequestID:  uuid.New(),
		SourcePath: path,
		SourceExt:  Ext(path),
		Label:      Label(path),
	}
}

func markFailed(res *Result, err error, cap *capture) {
	res.IsError = true
	cap.logger.Error(err.Error())

	var notFound *index.ExecNotFoundError
	if errors.As(err, &notFound) {
		res.FailedExecPath = notFound.Path
	}
	var noOut *plugin.NoOutputError
	if errors.As(err, &noOut) {
		res.AvailableOutputs = noOut.Available
	}
}

// mergeDefaultKwargs layers configured kwargs over the built-in defaults for
// entries naming a built-in plugin, so a sparse config entry still inherits
// the stock arguments.
func mergeDefaultKwargs(entries []types.PluginMapEntry) []types.PluginMapEntry {
	builtin := make(map[string]map[string]interface{}, len(types.DefaultPluginMap))
	for _, e := range types.DefaultPluginMap {
		builtin[e.Plugin] = e.Kwargs
	}
	merged := make([]types.PluginMapEntry, len(entries))
	for i, e := range entries {
		e.Kwargs = mergeKwargs(builtin[e.Plugin], e.Kwargs)
		merged[i] = e
	}
	return merged
}

func mergeKwargs(base, override map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
