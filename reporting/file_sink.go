package reporting

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/acarl005/stripansi"
)

// FileSink buffers a TAP rendering of the run and writes it under
// baseDir/testrun-<runID>/results.tap on Complete. Any ANSI escapes that
// leaked into diagnostics are stripped so the file stays grep-friendly.
type FileSink struct {
	baseDir string
	buf     bytes.Buffer
	tap     *TAPReporter
}

func NewFileSink(baseDir string) *FileSink {
	s := &FileSink{baseDir: baseDir}
	s.tap = NewTAPReporter(&s.buf)
	return s
}

func (s *FileSink) Plan(total int) { s.tap.Plan(total) }

func (s *FileSink) Warning(msg string) { s.tap.Warning(msg) }

func (s *FileSink) TestCompleted(ev Event) { s.tap.TestCompleted(ev) }

func (s *FileSink) Complete(summary Summary) error {
	if err := s.tap.Complete(summary); err != nil {
		return err
	}

	outputDir := filepath.Join(s.baseDir, "testrun-"+summary.RunID)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	content := stripansi.Strip(s.buf.String())
	outFile := filepath.Join(outputDir, "results.tap")
	if err := os.WriteFile(outFile, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}
