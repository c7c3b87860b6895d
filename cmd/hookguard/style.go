package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	colorBlock  = lipgloss.Color("9")   // Red
	colorWarn   = lipgloss.Color("11")  // Yellow
	colorAllow  = lipgloss.Color("10")  // Green
	colorSubtle = lipgloss.Color("241") // Grey
	colorTitle  = lipgloss.Color("12")  // Blue
)

type styles struct {
	title  lipgloss.Style
	block  lipgloss.Style
	warn   lipgloss.Style
	allow  lipgloss.Style
	subtle lipgloss.Style
}

// newStyles binds the palette to w so colors are dropped when w is not a
// terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(colorTitle),
		block:  r.NewStyle().Bold(true).Foreground(colorBlock),
		warn:   r.NewStyle().Foreground(colorWarn),
		allow:  r.NewStyle().Foreground(colorAllow),
		subtle: r.NewStyle().Foreground(colorSubtle),
	}
}

// decision renders a journal or gate decision in its color.
func (s styles) decision(d string) string {
	switch d {
	case "block", "error", "timeout":
		return s.block.Render(d)
	case "warn":
		return s.warn.Render(d)
	case "allow", "formatted":
		return s.allow.Render(d)
	default:
		return s.subtle.Render(d)
	}
}
