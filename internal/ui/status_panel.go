package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skylens/internal/astro"
	"github.com/litescript/ls-skylens/internal/engine"
	"github.com/litescript/ls-skylens/internal/fusion"
)

// sparkline glyphs from lowest to highest.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// StatusModel shows the sensor fusion state, observer site, and a heading
// trail.
type StatusModel struct {
	width  int
	height int

	snap engine.Snapshot
}

// NewStatusModel creates the status pane.
func NewStatusModel() StatusModel {
	return StatusModel{}
}

// SetSize updates the pane size.
func (m StatusModel) SetSize(width, height int) StatusModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData stores the latest frame.
func (m StatusModel) UpdateData(snap engine.Snapshot) StatusModel {
	m.snap = snap
	return m
}

// View renders the pane.
func (m StatusModel) View() string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	f := m.snap.Fusion
	obs := m.snap.Observer

	var b strings.Builder

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", label)))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	site := obs.Observer.Name
	if site == "" {
		site = "unnamed"
	}
	if obs.Defaulted {
		site += " (default)"
	}
	row("site", fmt.Sprintf("%s  %.4f°, %.4f°", site, obs.Observer.LatDeg, obs.Observer.LonDeg))
	row("utc", obs.UTC.Format("2006-01-02 15:04:05"))
	row("lst", fmt.Sprintf("%.4f h", obs.LSTHours))

	sun := astro.SunHorizontal(obs)
	day := "dark"
	if astro.IsDaylight(obs) {
		day = "daylight"
	}
	row("sun", fmt.Sprintf("alt %.1f°, az %.1f° (%s)", sun.AltDeg, sun.AzDeg, day))
	b.WriteString("\n")

	row("heading", fmt.Sprintf("%.1f° true", f.HeadingDeg))
	row("pitch", fmt.Sprintf("%.1f°", f.PitchDeg))
	row("roll", fmt.Sprintf("%.1f°", f.RollDeg))
	row("source", fmt.Sprintf("%s (%.0f%% confidence)", f.Tier, f.Confidence*100))

	sky := "ground"
	if f.PointingSkyward {
		sky = "sky"
	}
	row("pointing", sky)
	b.WriteString("\n")

	row("mode", m.snap.Mode.String())
	row("visible", fmt.Sprintf("%d stars, %d segments", len(m.snap.Stars), len(m.snap.Lines)))

	if m.snap.Match != nil {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "constellation")))
		b.WriteString(accentStyle.Render(fmt.Sprintf("%s  %.0f%%",
			m.snap.Match.Constellation.Name, m.snap.Match.Confidence*100)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if spark := headingSparkline(m.snap.HeadingHistory, m.width-16); spark != "" {
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", "heading trail")))
		b.WriteString(valueStyle.Render(spark))
		b.WriteString("\n")
	}

	if f.Tier == fusion.TierFixed {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("no directional sensor: heading pinned to true north"))
		b.WriteString("\n")
	}

	return b.String()
}

// headingSparkline compresses the heading trail into one line of block
// glyphs scaled over the observed range.
func headingSparkline(history []float64, width int) string {
	if len(history) < 2 || width < 2 {
		return ""
	}
	if len(history) > width {
		history = history[len(history)-width:]
	}

	lo, hi := history[0], history[0]
	for _, h := range history {
		if h < lo {
			lo = h
		}
		if h > hi {
			hi = h
		}
	}
	span := hi - lo
	if span < 1e-9 {
		return strings.Repeat(string(sparkRunes[0]), len(history))
	}

	var b strings.Builder
	for _, h := range history {
		idx := int((h - lo) / span * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}
