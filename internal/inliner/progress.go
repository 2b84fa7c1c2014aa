package inliner

// ProgressReporter provides callbacks for reporting batch inlining progress.
// Implementations can display progress bars, log messages, or remain silent.
type ProgressReporter interface {
	// OnInlineStart is called before the first file is processed.
	OnInlineStart(totalFiles int)

	// OnFileInlined is called after each file is processed.
	OnFileInlined(path string, inlined int)

	// OnInlineComplete is called when every file was processed successfully.
	OnInlineComplete(results []*Result)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnInlineStart(totalFiles int)           {}
func (n *NoOpProgressReporter) OnFileInlined(path string, inlined int) {}
func (n *NoOpProgressReporter) OnInlineComplete(results []*Result)     {}
