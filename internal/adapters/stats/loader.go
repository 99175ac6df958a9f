// Package stats turns a bundler stats file and its output directory into a
// core.Graph.
package stats

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/xeipuuv/gojsonschema"

	"github.com/3-lines-studio/prerender/internal/adapters/fs"
	"github.com/3-lines-studio/prerender/internal/core"
)

//go:embed stats.schema.json
var statsSchema string

var loadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(statsSchema))
})

type Loader struct {
	fs     fs.FileSystem
	logger *log.Logger
}

func NewLoader(fsys fs.FileSystem, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		fs:     fsys,
		logger: logger,
	}
}

// Load reads the stats file and every emitted asset it references from
// outDir. outDir defaults to the directory of the stats file. Assets that
// were not written to disk are left out of the graph.
func (l *Loader) Load(statsPath, outDir string) (*core.Graph, error) {
	data, err := l.fs.ReadFile(statsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read stats file %s: %w", statsPath, err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("invalid stats file %s: %w", statsPath, err)
	}

	stats, err := core.ParseStats(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stats file %s: %w", statsPath, err)
	}

	if outDir == "" {
		outDir = filepath.Dir(statsPath)
	}

	assets := make(map[string]core.Asset)
	for _, name := range stats.AssetNames() {
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			l.logger.Warn("skipping asset outside the output directory", "asset", name)
			continue
		}

		assetPath := filepath.Join(outDir, filepath.FromSlash(name))
		if !l.fs.FileExists(assetPath) {
			continue
		}

		content, err := l.fs.ReadFile(assetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read asset %s: %w", assetPath, err)
		}
		assets[name] = core.RawSource(content)
	}

	l.logger.Debug("loaded build graph", "stats", statsPath, "entries", len(stats.Entrypoints), "assets", len(assets))

	return core.NewGraph(stats, assets), nil
}

func Validate(data []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("failed to load stats schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}
