package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/tsinline/internal/inliner"
)

// CLIProgressReporter implements inliner.ProgressReporter with a progress bar.
type CLIProgressReporter struct {
	quiet     bool
	out       io.Writer
	fileBar   *progressbar.ProgressBar
	startTime time.Time
	inlined   int
}

var _ inliner.ProgressReporter = (*CLIProgressReporter)(nil)

// NewCLIProgressReporter creates a new CLI progress reporter writing to out.
func NewCLIProgressReporter(out io.Writer, quiet bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		quiet:     quiet,
		out:       out,
		startTime: time.Now(),
	}
}

func (c *CLIProgressReporter) OnInlineStart(totalFiles int) {
	if c.quiet {
		return
	}
	c.startTime = time.Now()
	c.inlined = 0

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.out),
		progressbar.OptionSetDescription("Inlining files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.out)
		}),
	)
}

func (c *CLIProgressReporter) OnFileInlined(path string, inlined int) {
	if c.quiet {
		return
	}
	c.inlined += inlined
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnInlineComplete(results []*inliner.Result) {
	if c.quiet {
		return
	}
	if c.fileBar != nil {
		c.fileBar.Finish()
		c.fileBar = nil
	}

	changed := 0
	for _, r := range results {
		if r.Changed() {
			changed++
		}
	}

	fmt.Fprintf(c.out, "✓ Inlining complete: %s declarations into %s of %s files in %.1fs\n",
		formatNumber(c.inlined), formatNumber(changed), formatNumber(len(results)),
		time.Since(c.startTime).Seconds())
}
