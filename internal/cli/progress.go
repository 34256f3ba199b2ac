package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/ipcgen/internal/pipeline"
)

// CLIProgressReporter shows a parsing progress bar and prints the summary
// of each run.
type CLIProgressReporter struct {
	out     io.Writer
	logger  *log.Logger
	showBar bool
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a reporter writing to out. With showBar
// false only the summary is printed.
func NewCLIProgressReporter(out io.Writer, logger *log.Logger, showBar bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		out:     out,
		logger:  logger,
		showBar: showBar,
	}
}

func (c *CLIProgressReporter) OnDiscoveryStart() {
	c.logger.Debug("Locating schema")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(files int) {
	c.logger.Debug("Schema modules found", "count", files)
}

func (c *CLIProgressReporter) OnParsingStart(totalFiles int) {
	if !c.showBar || totalFiles == 0 {
		return
	}
	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Parsing schema"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileParsed(relativePath string) {
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnWritingStart(artifacts int) {
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}
	c.logger.Debug("Writing artifacts", "count", artifacts)
}

func (c *CLIProgressReporter) OnComplete(result *pipeline.Result) {
	printSummary(c.out, result)
}

// printSummary writes the warnings of a run followed by the per-module
// channel counts.
func printSummary(out io.Writer, result *pipeline.Result) {
	for _, d := range result.Warnings() {
		lines := []string{d.Message}
		if d.Path != "" {
			lines = append(lines, d.Path)
		}
		fmt.Fprintf(out, "\n%s\n", WarningStyle.Render(formatBlock(iconWarning, lines)))
	}

	if result.Channels == 0 {
		return
	}

	lines := []string{"Successfully generated IPC bindings:"}
	for _, m := range result.Modules {
		if m.Channels == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s from %s", pluralize(m.Channels, "channel"), m.RelativePath))
	}
	fmt.Fprintf(out, "\n%s\n", SuccessStyle.Render(formatBlock(iconSuccess, lines)))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
