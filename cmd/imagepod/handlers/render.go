package handlers

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/imagepod/internal/provisioning"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorRed   = lipgloss.Color("#ef4444")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorAmber = lipgloss.Color("#f59e0b")
	colorDim   = lipgloss.Color("#6b7280")
)

// palette holds the styles for one render; the zero value renders plain text.
type palette struct {
	ok, fail, label, warn, dim lipgloss.Style
}

func newPalette(styled bool) palette {
	if !styled {
		return palette{}
	}
	return palette{
		ok:    lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
		fail:  lipgloss.NewStyle().Bold(true).Foreground(colorRed),
		label: lipgloss.NewStyle().Foreground(colorBlue),
		warn:  lipgloss.NewStyle().Foreground(colorAmber),
		dim:   lipgloss.NewStyle().Foreground(colorDim),
	}
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// renderSummary formats a deployment summary for a terminal.
func renderSummary(s provisioning.Summary, styled bool) string {
	p := newPalette(styled)
	var b strings.Builder

	b.WriteString("\n")
	if s.Ready {
		b.WriteString(p.ok.Render("  Pod ready"))
	} else {
		b.WriteString(p.fail.Render("  Deployment failed"))
	}
	b.WriteString("\n")
	b.WriteString(p.dim.Render("  " + strings.Repeat("─", 40)))
	b.WriteString("\n")

	row := func(name, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "  %s %s\n", p.label.Render(fmt.Sprintf("%-10s", name)), value)
	}

	row("Pod", s.PodID)
	if s.Ready {
		row("URL", s.ProxyURL)
		row("SSH", sshCommand(s.SSHTarget))
		row("GPU", s.Machine)
	} else {
		row("Reason", s.Reason)
		row("Last", s.LastPhase)
	}
	row("Elapsed", fmt.Sprintf("%.0fs (%d polls)", s.ElapsedSeconds, s.Polls))

	for _, w := range s.Warnings {
		b.WriteString(p.warn.Render("  Warning: " + w))
		b.WriteString("\n")
	}
	if s.CleanupHint != "" {
		b.WriteString("\n")
		b.WriteString(p.warn.Render("  " + s.CleanupHint))
		b.WriteString("\n")
	}

	return b.String()
}

func sshCommand(target string) string {
	if target == "" {
		return ""
	}
	return "ssh " + target
}
