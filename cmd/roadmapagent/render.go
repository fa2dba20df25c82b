package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tbxark/roadmapagent/types"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func renderRoadmap(w io.Writer, roadmap *types.Roadmap, format string) error {
	switch format {
	case formatJSON:
		data, err := sonic.ConfigStd.MarshalIndent(roadmap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode roadmap: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatMarkdown, "":
		md := types.FormatMarkdown(roadmap)
		if isTerminal(w) {
			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(100),
			)
			if err == nil {
				if out, rErr := renderer.Render(md); rErr == nil {
					md = out
				}
			}
		}
		_, err := fmt.Fprintln(w, md)
		return err
	default:
		return fmt.Errorf("unknown format: %q", format)
	}
}

func styled(w io.Writer, style lipgloss.Style, text string) string {
	if !isTerminal(w) {
		return text
	}
	return style.Render(text)
}
