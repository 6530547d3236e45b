package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"ClipForge/internal/config"
	"ClipForge/internal/index/store"
	types "ClipForge/pkg"
	"ClipForge/pkg/plugin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePlugin records what reached it and answers like a decode plugin would.
type fakePlugin struct {
	name         string
	outputs      []int
	openErr      error
	opened       int
	gotKwargs    map[string]interface{}
	gotIndexPath string
	gotSequence  []string
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) Validate(map[string]interface{}) error { return nil }

func (p *fakePlugin) Open(ctx context.Context, in plugin.Input) (plugin.Output, error) {
	p.opened++
	p.gotKwargs = in.Kwargs
	p.gotIndexPath = in.IndexPath
	p.gotSequence = in.SequencePaths
	if p.openErr != nil {
		return plugin.Output{}, p.openErr
	}

	clip := &plugin.Clip{Provider: p.name, SourcePath: in.SourcePath, Width: 640, Height: 480, NumFrames: 100}
	if len(p.outputs) == 0 {
		return plugin.Output{Clip: clip}, nil
	}

	selected := p.outputs[0]
	if in.OutputIndex != nil {
		found := false
		for _, n := range p.outputs {
			if n == *in.OutputIndex {
				found = true
				break
			}
		}
		if !found {
			return plugin.Output{}, &plugin.NoOutputError{
				Script:    filepath.Base(in.SourcePath),
				Wanted:    in.OutputIndex,
				Available: p.outputs,
			}
		}
		selected = *in.OutputIndex
	}
	return plugin.Output{Clip: clip, AvailableOutputs: p.outputs, SelectedOutput: selected}, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func writeTool(t *testing.T, dir, name, script string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script), 0755))
}

const fakeFFMSIndexScript = `for last; do :; done
printf 'FFINDEXBYTES' > "$last"
echo "indexing done"
`

func testConfig(toolDir string) *config.Config {
	cfg := config.Default()
	cfg.Tools.FFMSIndexDir = toolDir
	cfg.Tools.D2VWitchDir = toolDir
	return cfg
}

func newTestDispatcher(t *testing.T, cfg *config.Config, plugins ...*fakePlugin) *Dispatcher {
	t.Helper()
	registry := plugin.NewRegistry()
	for _, p := range plugins {
		require.NoError(t, registry.Register(p))
	}
	return NewDispatcher(cfg, registry, nil, nil)
}

func TestResolveManyPartialFailureIsolation(t *testing.T) {
	dir := t.TempDir()
	good1 := filepath.Join(dir, "edit.vpy")
	bad := filepath.Join(dir, "strange.xyz")
	good2 := filepath.Join(dir, "frame.png")
	writeFile(t, good1, "clip = something")
	writeFile(t, bad, "???")
	writeFile(t, good2, "png bytes")

	script := &fakePlugin{name: "script.Eval", outputs: []int{0}}
	imwri := &fakePlugin{name: "imwri.Read"}
	d := newTestDispatcher(t, testConfig(dir), script, imwri)

	results := d.ResolveMany(context.Background(), []Request{
		{Path: good1}, {Path: bad}, {Path: good2},
	})

	require.Len(t, results, 3)

	assert.False(t, results[0].IsError)
	assert.NotNil(t, results[0].Clip)

	assert.True(t, results[1].IsError)
	assert.Nil(t, results[1].Clip)
	assert.Contains(t, results[1].LogError, "unrecognized extension")
	assert.Contains(t, results[1].LogError, "xyz")
	assert.Equal(t, "xyz", results[1].SourceExt)

	assert.False(t, results[2].IsError)
	assert.NotNil(t, results[2].Clip)
}

func TestResolveManyFailedExecutableSurfaced(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "video.mkv")
	writeFile(t, src, "matroska bytes")

	missingToolDir := filepath.Join(dir, "no-tools-here")
	ffms2 := &fakePlugin{name: "ffms2.Source"}
	d := newTestDispatcher(t, testConfig(missingToolDir), ffms2)

	results := d.ResolveMany(context.Background(), []Request{{Path: src}})

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Nil(t, results[0].Clip)
	assert.Equal(t, filepath.Join(missingToolDir, "ffmsindex"), results[0].FailedExecPath)
	assert.Zero(t, ffms2.opened)
}

func TestResolveManyIndexesOnceWhenFresh(t *testing.T) {
	toolDir := t.TempDir()
	counter := filepath.Join(toolDir, "runs")
	writeTool(t, toolDir, "ffmsindex", fmt.Sprintf("echo run >> %q\n%s", counter, fakeFFMSIndexScript))

	dir := t.TempDir()
	src := filepath.Join(dir, "video.mkv")
	writeFile(t, src, "matroska bytes")

	ffms2 := &fakePlugin{name: "ffms2.Source"}
	d := newTestDispatcher(t, testConfig(toolDir), ffms2)

	first := d.ResolveMany(context.Background(), []Request{{Path: src}})
	require.False(t, first[0].IsError, first[0].LogError)
	second := d.ResolveMany(context.Background(), []Request{{Path: src}})
	require.False(t, second[0].IsError, second[0].LogError)

	data, err := os.ReadFile(counter)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, []byte("run")))
	assert.Contains(t, second[0].Log, "reusing index")
}

func TestFfms2IndexPassedAsCachefile(t *testing.T) {
	toolDir := t.TempDir()
	writeTool(t, toolDir, "ffmsindex", fakeFFMSIndexScript)

	dir := t.TempDir()
	src := filepath.Join(dir, "video.mkv")
	writeFile(t, src, "matroska bytes")

	ffms2 := &fakePlugin{name: "ffms2.Source"}
	d := newTestDispatcher(t, testConfig(toolDir), ffms2)

	results := d.ResolveMany(context.Background(), []Request{{Path: src}})

	require.Len(t, results, 1)
	require.False(t, results[0].IsError, results[0].LogError)
	assert.Equal(t, src+".ffindex", ffms2.gotKwargs["cachefile"])
	assert.Equal(t, src+".ffindex", ffms2.gotIndexPath)
	// Tool stdout is preserved verbatim in the result log.
	assert.Contains(t, results[0].Log, "indexing done")
}

func TestExplicitKwargsOverrideConfiguredDefaults(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "frame.png")
	writeFile(t, src, "png bytes")

	imwri := &fakePlugin{name: "imwri.Read"}
	d := newTestDispatcher(t, testConfig(dir), imwri)

	clip, err := d.ResolveOne(context.Background(), src, nil, map[string]interface{}{"mismatch": true})

	require.NoError(t, err)
	require.NotNil(t, clip)
	assert.Equal(t, true, imwri.gotKwargs["mismatch"])
	// Untouched defaults still flow through.
	assert.Equal(t, false, imwri.gotKwargs["alpha"])
}

func TestScriptMultiOutputDefaultsToFirst(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "edit.vpy")
	writeFile(t, src, "three outputs")

	script := &fakePlugin{name: "script.Eval", outputs: []int{0, 1, 2}}
	d := newTestDispatcher(t, testConfig(dir), script)

	results := d.ResolveMany(context.Background(), []Request{{Path: src}})

	require.Len(t, results, 1)
	require.False(t, results[0].IsError)
	assert.Equal(t, []int{0, 1, 2}, results[0].AvailableOutputs)
	require.NotNil(t, results[0].SelectedOutput)
	assert.Equal(t, 0, *results[0].SelectedOutput)
}

func TestScriptWantedOutputMissing(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "edit.vpy")
	writeFile(t, src, "three outputs")

	script := &fakePlugin{name: "script.Eval", outputs: []int{0, 1, 2}}
	d := newTestDispatcher(t, testConfig(dir), script)

	wanted := 5
	results := d.ResolveMany(context.Background(), []Request{{Path: src, OutputIndex: &wanted}})

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Nil(t, results[0].Clip)
	// The discovered outputs still come back so a caller can pick again.
	assert.Equal(t, []int{0, 1, 2}, results[0].AvailableOutputs)
}

func TestResolveOneSurfacesErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "strange.xyz")
	writeFile(t, src, "???")

	d := newTestDispatcher(t, testConfig(dir))

	clip, err := d.ResolveOne(context.Background(), src, nil, nil)

	require.Error(t, err)
	assert.Nil(t, clip)
	assert.Contains(t, err.Error(), "unrecognized extension")
}

func TestD2VSourceLoadsDirectly(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "movie.d2v")
	writeFile(t, src, "DGIndexProjectFile16\nYUVRGB_Scale=0\n")

	d2v := &fakePlugin{name: "d2v.Source"}
	// No d2vwitch installed: a .d2v source must never trigger indexing.
	d := newTestDispatcher(t, testConfig(filepath.Join(dir, "no-tools")), d2v)

	clip, err := d.ResolveOne(context.Background(), src, nil, nil)

	require.NoError(t, err)
	require.NotNil(t, clip)
	assert.Equal(t, src, d2v.gotIndexPath)
	assert.Equal(t, true, d2v.gotKwargs["rff"])

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Contains(t, string(data), "YUVRGB_Scale=1")
}

func TestResolveManyMissingFile(t *testing.T) {
	d := newTestDispatcher(t, testConfig(t.TempDir()))

	results := d.ResolveMany(context.Background(), []Request{{Path: "/nope/missing.mkv"}})

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Contains(t, results[0].LogError, "not a valid filepath")
}

func TestResolveManyKeepsFormatHints(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "frame.png")
	writeFile(t, src, "png bytes")

	imwri := &fakePlugin{name: "imwri.Read"}
	d := newTestDispatcher(t, testConfig(dir), imwri)

	hints := map[string]interface{}{"matrix_in_s": "709"}
	results := d.ResolveMany(context.Background(), []Request{{Path: src, FormatHints: hints}})

	require.Len(t, results, 1)
	assert.Equal(t, "709", results[0].FormatHints["matrix_in_s"])
	assert.Equal(t, "frame.png", results[0].Label)
}

func TestPrepareIndexes(t *testing.T) {
	toolDir := t.TempDir()
	writeTool(t, toolDir, "ffmsindex", fakeFFMSIndexScript)

	dir := t.TempDir()
	video := filepath.Join(dir, "video.mkv")
	image := filepath.Join(dir, "frame.png")
	bad := filepath.Join(dir, "strange.xyz")
	writeFile(t, video, "matroska bytes")
	writeFile(t, image, "png bytes")
	writeFile(t, bad, "???")

	// No decode plugins registered: preparing indexes must not need any.
	d := newTestDispatcher(t, testConfig(toolDir))

	results := d.PrepareIndexes(context.Background(), []string{video, image, bad})

	require.Len(t, results, 3)
	assert.False(t, results[0].IsError)
	assert.FileExists(t, video+".ffindex")
	assert.False(t, results[1].IsError)
	assert.Contains(t, results[1].Log, "no index required")
	assert.True(t, results[2].IsError)
}

func TestSharedStoreSeedsIndex(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "video.mkv")
	writeFile(t, src, "matroska bytes")

	info, err := os.Stat(src)
	require.NoError(t, err)
	key := fmt.Sprintf("video.mkv.ffindex.%d-%d", info.ModTime().Unix(), info.Size())

	storeDir := t.TempDir()
	writeFile(t, filepath.Join(storeDir, key), "FFINDEXBYTES")
	artifacts, err := store.New(types.StoreConfig{Type: "local", Local: types.LocalConfig{BasePath: storeDir}})
	require.NoError(t, err)

	// No ffmsindex available anywhere: resolution only succeeds if the
	// artifact is seeded from the store.
	cfg := testConfig(filepath.Join(dir, "no-tools"))
	registry := plugin.NewRegistry()
	ffms2 := &fakePlugin{name: "ffms2.Source"}
	require.NoError(t, registry.Register(ffms2))
	d := NewDispatcher(cfg, registry, artifacts, nil)

	results := d.ResolveMany(context.Background(), []Request{{Path: src}})

	require.Len(t, results, 1)
	require.False(t, results[0].IsError, results[0].LogError)
	assert.Contains(t, results[0].Log, "seeded index from shared store")
	assert.FileExists(t, src+".ffindex")
}

func TestSharedStoreIgnoresArtifactFromOlderSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "video.mkv")
	writeFile(t, src, "matroska bytes v1")

	info, err := os.Stat(src)
	require.NoError(t, err)
	oldKey := fmt.Sprintf("video.mkv.ffindex.%d-%d", info.ModTime().Unix(), info.Size())

	storeDir := t.TempDir()
	writeFile(t, filepath.Join(storeDir, oldKey), "FFINDEXBYTES")
	artifacts, err := store.New(types.StoreConfig{Type: "local", Local: types.LocalConfig{BasePath: storeDir}})
	require.NoError(t, err)

	// The source changes after the artifact was published. An indexer is
	// required again, and none is installed, so resolution must fail rather
	// than decode against the outdated artifact.
	writeFile(t, src, "matroska bytes, remuxed and longer")

	cfg := testConfig(filepath.Join(dir, "no-tools"))
	registry := plugin.NewRegistry()
	ffms2 := &fakePlugin{name: "ffms2.Source"}
	require.NoError(t, registry.Register(ffms2))
	d := NewDispatcher(cfg, registry, artifacts, nil)

	results := d.ResolveMany(context.Background(), []Request{{Path: src}})

	require.Len(t, results, 1)
	assert.True(t, results[0].IsError)
	assert.Nil(t, results[0].Clip)
	assert.Contains(t, results[0].Log, "index not in shared store")
	assert.Equal(t, filepath.Join(dir, "no-tools", "ffmsindex"), results[0].FailedExecPath)
	assert.Zero(t, ffms2.opened)
}
