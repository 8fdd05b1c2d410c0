package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/doodget/doodozer"
	"github.com/doodget/doodozer/internal/batch"
)

var (
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	progressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// renderProgress writes a single in-place progress line to stdout.
func renderProgress(p doodozer.Progress) {
	var line string
	if p.TotalSize > 0 {
		line = fmt.Sprintf("Downloading %5.1f%%  %s / %s",
			p.Percent, humanBytes(p.DownloadedSize), humanBytes(p.TotalSize))
	} else {
		line = fmt.Sprintf("Downloading %s", humanBytes(p.DownloadedSize))
	}
	fmt.Fprintf(os.Stdout, "\r%s", progressStyle.Render(line))
}

// printTaskUpdate reports per-task state transitions for batch runs.
func printTaskUpdate(t *batch.Task) {
	switch t.Status {
	case batch.TaskStatusDownloading:
		fmt.Fprintln(os.Stdout, dimStyle.Render("-> "+t.URL))
	case batch.TaskStatusCompleted:
		name := t.Title
		if name == "" {
			name = t.URL
		}
		fmt.Fprintf(os.Stdout, "\r%s\n", successStyle.Render("ok  "+name))
	case batch.TaskStatusError:
		fmt.Fprintf(os.Stdout, "\r%s\n", errorStyle.Render("err "+t.URL+": "+t.LastError))
	}
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
