// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/bitflipped/bitflipped/lib/hwinfo"
	"github.com/bitflipped/bitflipped/lib/scan"
)

// TimestampLayout is the layout of every timestamp in the report.
const TimestampLayout = time.ANSIC

// Writer renders reports. The zero value is not usable; construct with
// New or fill in Out and Diag.
type Writer struct {
	Out  io.Writer
	Diag io.Writer

	// Styled enables the colored corruption banner.
	Styled bool
}

// New returns a Writer over out and diag. Styling is enabled when out
// is an *os.File attached to a terminal.
func New(out, diag io.Writer) *Writer {
	styled := false
	if file, ok := out.(*os.File); ok {
		styled = term.IsTerminal(int(file.Fd()))
	}
	return &Writer{Out: out, Diag: diag, Styled: styled}
}

// alarm renders text as the corruption banner: bold bright red on a
// terminal, unchanged otherwise.
func (w *Writer) alarm(text string) string {
	if !w.Styled {
		return text
	}
	// lipgloss re-detects the profile from the writer unless told
	// otherwise, so pin it.
	renderer := lipgloss.NewRenderer(w.Out, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)
	return renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Render(text)
}

// Banner prints the startup record: title, allocation size, a host
// memory summary and the run start timestamp.
func (w *Writer) Banner(size uint64, memory hwinfo.Memory, started time.Time) {
	fmt.Fprintln(w.Out, "=== Bitflipped ===")
	fmt.Fprintln(w.Out, "==================")
	fmt.Fprintf(w.Out, "Allocating %s...\n", humanize.IBytes(size))
	if memory.TotalBytes > 0 {
		fmt.Fprintf(w.Out, "Host memory: %s total, %s available\n",
			humanize.IBytes(memory.TotalBytes), humanize.IBytes(memory.AvailableBytes))
	}
	if memory.ECC() {
		corrected, uncorrected := memory.ErrorCounts()
		fmt.Fprintf(w.Out, "ECC: %d controller(s), %d corrected, %d uncorrected\n",
			len(memory.Controllers), corrected, uncorrected)
	} else {
		fmt.Fprintln(w.Out, "ECC: not reported by this kernel")
	}
	fmt.Fprintf(w.Out, "Run started: %s\n", started.Format(TimestampLayout))
}

// Progress rewrites the progress line on Diag. sweep is the 1-based
// number of the sweep that just finished.
func (w *Writer) Progress(sweep uint64, delay time.Duration) {
	fmt.Fprintf(w.Diag, "\rTest run #%d (every %ds)", sweep, int64(delay/time.Second))
}

// Corruption prints the detection record. The sweep that found the
// corruption is counted in the total.
func (w *Writer) Corruption(result scan.Result) {
	// Terminate the in-place progress line before the record.
	fmt.Fprintln(w.Diag)
	fmt.Fprintln(w.Out, w.alarm("--- !!! ---"))
	fmt.Fprintf(w.Out, "Error detected: %s\n", result.DetectedAt.Format(TimestampLayout))
	fmt.Fprintf(w.Out, "Result should be 0 but is %d\n", result.CorruptionTotal)
	fmt.Fprintf(w.Out, "Total tests run: %d\n", result.Sweeps+1)
}

// Interrupted prints the summary for a run stopped by a signal.
func (w *Writer) Interrupted(result scan.Result, stopped time.Time) {
	fmt.Fprintln(w.Diag)
	fmt.Fprintf(w.Out, "Run stopped: %s\n", stopped.Format(TimestampLayout))
	fmt.Fprintf(w.Out, "No corruption detected in %d test(s) over %s\n",
		result.Sweeps, stopped.Sub(result.StartedAt).Round(time.Second))
}
