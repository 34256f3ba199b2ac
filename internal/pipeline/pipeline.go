// Package pipeline runs one generation: discover and parse the schema
// modules, validate the channels, then write the three artifacts.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mvp-joe/ipcgen/internal/config"
	"github.com/mvp-joe/ipcgen/internal/discovery"
	"github.com/mvp-joe/ipcgen/internal/emitter"
	"github.com/mvp-joe/ipcgen/internal/imports"
	"github.com/mvp-joe/ipcgen/internal/parser"
	"github.com/mvp-joe/ipcgen/internal/spec"
	"github.com/mvp-joe/ipcgen/internal/validator"
)

// Level is the severity of a Diagnostic.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

func (l Level) String() string {
	if l == LevelWarn {
		return "warn"
	}
	return "info"
}

// Diagnostic is a non-fatal condition found during a run.
type Diagnostic struct {
	Level   Level
	Message string
	Path    string
}

// ModuleSummary counts the channels declared by one schema module.
type ModuleSummary struct {
	RelativePath string
	Channels     int
}

// Result summarizes a successful run.
type Result struct {
	Location    discovery.Location
	Files       int
	Channels    int
	Modules     []ModuleSummary
	Outputs     []string
	Diagnostics []Diagnostic
	Duration    time.Duration
}

// Warnings returns the warn-level diagnostics.
func (r *Result) Warnings() []Diagnostic {
	var warnings []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Level == LevelWarn {
			warnings = append(warnings, d)
		}
	}
	return warnings
}

// Pipeline generates the artifacts of one project.
type Pipeline struct {
	parser   *parser.Parser
	progress ProgressReporter
	logger   *log.Logger
}

// New creates a pipeline. A nil progress reporter or logger disables that output.
func New(progress ProgressReporter, logger *log.Logger) *Pipeline {
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{
		parser:   parser.New(),
		progress: progress,
		logger:   logger,
	}
}

// Run regenerates every artifact for cfg. Validation failures abort the run
// before anything is written.
func (p *Pipeline) Run(ctx context.Context, cfg *config.ResolvedConfig) (*Result, error) {
	start := time.Now()
	result := &Result{}

	p.progress.OnDiscoveryStart()
	loc, sources, err := discovery.Load(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result.Location = loc
	result.Files = len(sources)
	p.progress.OnDiscoveryComplete(len(sources))
	p.logger.Debug("Schema located", "kind", loc.Kind, "path", loc.Path, "files", len(sources))

	if loc.Kind == discovery.LocationNone {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Level:   LevelWarn,
			Message: fmt.Sprintf("no schema found, expected %s or %s/", config.SchemaFile, config.SchemaDir),
			Path:    cfg.DataDir,
		})
	}

	corpus, err := p.parse(ctx, sources)
	if err != nil {
		return nil, err
	}
	result.Channels = corpus.ChannelCount()
	for _, pfs := range corpus {
		result.Modules = append(result.Modules, ModuleSummary{
			RelativePath: pfs.RelativePath,
			Channels:     len(pfs.Specs.ChannelSpecs),
		})
	}

	if err := validator.ValidateChannels(corpus); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if len(sources) > 0 && result.Channels == 0 {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Level:   LevelWarn,
			Message: "no channels declared",
			Path:    loc.Path,
		})
	}
	for _, ref := range imports.UnexportedReferences(corpus) {
		result.Diagnostics = append(result.Diagnostics, Diagnostic{
			Level:   LevelWarn,
			Message: fmt.Sprintf("%s %s is used by channel %s but is not exported", ref.Type.Kind, ref.Type.Name, ref.Channel),
			Path:    ref.File,
		})
	}

	outputs := cfg.OutputPaths()
	p.progress.OnWritingStart(len(outputs))
	if err := emitter.RenderAll(ctx, cfg, corpus); err != nil {
		return nil, err
	}
	result.Outputs = outputs
	result.Duration = time.Since(start)

	p.logger.Info("Bindings generated", "channels", result.Channels, "files", result.Files, "duration", result.Duration)
	p.progress.OnComplete(result)
	return result, nil
}

// parse extracts every source in order.
func (p *Pipeline) parse(ctx context.Context, sources []discovery.Source) (spec.Corpus, error) {
	p.progress.OnParsingStart(len(sources))

	corpus := make(spec.Corpus, 0, len(sources))
	for _, src := range sources {
		pfs, err := p.parser.ParseFile(ctx, src.FullPath, src.RelativePath, src.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema: %w", err)
		}
		corpus = append(corpus, *pfs)
		p.progress.OnFileParsed(src.RelativePath)
		p.logger.Debug("Parsed schema module",
			"file", src.RelativePath,
			"channels", len(pfs.Specs.ChannelSpecs),
			"types", len(pfs.Specs.TypeSpecs),
			"imports", len(pfs.Specs.ImportSpecs))
	}
	return corpus, nil
}
