package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skylens/internal/engine"
)

const (
	// Star glyphs by brightness band
	glyphStarBright = '✶' // mag <= 1.0
	glyphStarMedium = '✸' // mag <= 2.5
	glyphStarDim    = '·'

	// Star colors (grayscale so the match label stands out)
	colorStarBright = "255"
	colorStarMedium = "250"
	colorStarDim    = "244"

	colorLine  = "60"  // muted purple
	colorMatch = "229" // bright gold
)

// LabelMode controls how star labels are displayed.
type LabelMode int

const (
	LabelNone LabelMode = iota
	LabelBright
	LabelAll
)

// SkyModel renders one projected frame onto a character canvas.
type SkyModel struct {
	width  int
	height int

	labelMode LabelMode

	snap engine.Snapshot
}

// NewSkyModel creates a sky pane.
func NewSkyModel() SkyModel {
	return SkyModel{labelMode: LabelBright}
}

// SetSize updates the viewport size.
func (m SkyModel) SetSize(width, height int) SkyModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData stores the latest frame.
func (m SkyModel) UpdateData(snap engine.Snapshot) SkyModel {
	m.snap = snap
	return m
}

// Update handles key messages.
func (m SkyModel) Update(msg tea.Msg) (SkyModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "l" {
			m.labelMode = (m.labelMode + 1) % 3
		}
	}
	return m, nil
}

// View renders the frame.
func (m SkyModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "sky view requires a larger terminal"
	}

	canvasHeight := m.height - 2
	canvas := newCanvas(m.width, canvasHeight)

	if !m.snap.Fusion.PointingSkyward {
		return m.renderGroundNotice(canvasHeight)
	}

	// Screen coordinates arrive in viewport pixels; rescale to cells.
	sx, sy := m.cellScale()

	for _, seg := range m.snap.Lines {
		drawLine(canvas,
			int(seg.From.X*sx), int(seg.From.Y*sy),
			int(seg.To.X*sx), int(seg.To.Y*sy),
			'·', colorLine)
	}

	for _, sp := range m.snap.Stars {
		x, y := int(sp.Screen.X*sx), int(sp.Screen.Y*sy)
		if !canvas.in(x, y) {
			continue
		}
		glyph, color := starGlyph(sp.Star.Mag)
		canvas.set(x, y, glyph, color)

		show := m.labelMode == LabelAll ||
			(m.labelMode == LabelBright && sp.Star.Mag <= 1.0)
		if show && sp.Star.Name != "" {
			canvas.writeText(x+2, y, sp.Star.Name, colorStarMedium)
		}
	}

	var b strings.Builder
	b.WriteString(canvas.render())
	b.WriteString("\n")
	b.WriteString(m.renderMatchLine())
	return b.String()
}

// cellScale maps viewport pixel coordinates onto the character grid.
func (m SkyModel) cellScale() (sx, sy float64) {
	vp := m.snap.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		return 1, 1
	}
	return float64(m.width) / vp.Width, float64(m.height-2) / vp.Height
}

func (m SkyModel) renderGroundNotice(canvasHeight int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	pad := strings.Repeat("\n", canvasHeight/2)
	return pad + style.Render(center("point the device at the sky", m.width)) +
		strings.Repeat("\n", canvasHeight-canvasHeight/2)
}

func (m SkyModel) renderMatchLine() string {
	if m.snap.Match == nil {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
		return dim.Render(fmt.Sprintf("%d stars in view", len(m.snap.Stars)))
	}
	gold := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMatch))
	return gold.Render(fmt.Sprintf(">>> %s (%.0f%% · %.0f° off center) | %d stars",
		m.snap.Match.Constellation.Name,
		m.snap.Match.Confidence*100,
		m.snap.Match.SeparationDeg,
		len(m.snap.Stars)))
}

// starGlyph returns the glyph and color for a star's magnitude band.
func starGlyph(mag float64) (rune, lipgloss.Color) {
	switch {
	case mag <= 1.0:
		return glyphStarBright, colorStarBright
	case mag <= 2.5:
		return glyphStarMedium, colorStarMedium
	default:
		return glyphStarDim, colorStarDim
	}
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
