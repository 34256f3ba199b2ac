package pipeline

// ProgressReporter provides callbacks for reporting generation progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnDiscoveryStart is called when schema discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when schema discovery finishes.
	OnDiscoveryComplete(files int)

	// OnParsingStart is called before schema modules are parsed.
	OnParsingStart(totalFiles int)

	// OnFileParsed is called after each schema module is parsed.
	OnFileParsed(relativePath string)

	// OnWritingStart is called before the artifacts are written.
	OnWritingStart(artifacts int)

	// OnComplete is called when generation completes successfully.
	OnComplete(result *Result)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(files int)    {}
func (n *NoOpProgressReporter) OnParsingStart(totalFiles int)    {}
func (n *NoOpProgressReporter) OnFileParsed(relativePath string) {}
func (n *NoOpProgressReporter) OnWritingStart(artifacts int)     {}
func (n *NoOpProgressReporter) OnComplete(result *Result)        {}
