// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skylens/internal/engine"
	"github.com/litescript/ls-skylens/internal/version"
)

// Pane represents the active UI pane.
type Pane int

const (
	PaneSky Pane = iota
	PaneStatus
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// SnapshotMsg carries a freshly published frame.
	SnapshotMsg struct {
		Snapshot engine.Snapshot
	}

	// CalibrationMsg reports a finished calibration window.
	CalibrationMsg struct {
		OffsetDeg float64
		Err       error
	}
)

// Controller is the engine surface the UI drives: mode switches and
// calibration windows. The engine satisfies it.
type Controller interface {
	SetMode(engine.ViewMode)
	StartCalibration(time.Time)
	FinishCalibration() (float64, error)
}

// Model is the root Bubble Tea model.
type Model struct {
	ctrl Controller

	pane   Pane
	width  int
	height int
	ready  bool

	mode        engine.ViewMode
	calibrating bool
	statusMsg   string

	sky    SkyModel
	status StatusModel

	snapshot engine.Snapshot
}

// New creates the root UI model.
func New(ctrl Controller) Model {
	return Model{
		ctrl:   ctrl,
		pane:   PaneSky,
		sky:    NewSkyModel(),
		status: NewStatusModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "s":
			m.pane = PaneSky
		case "2", "i":
			m.pane = PaneStatus
		case "tab":
			m.pane = (m.pane + 1) % 2

		case "m":
			if m.mode == engine.ModeAR {
				m.mode = engine.ModeMap
			} else {
				m.mode = engine.ModeAR
			}
			m.ctrl.SetMode(m.mode)
			m.statusMsg = fmt.Sprintf("view mode: %s", m.mode)

		case "c":
			if !m.calibrating {
				m.ctrl.StartCalibration(time.Now())
				m.calibrating = true
				m.statusMsg = "calibrating: hold the device toward true north"
			} else {
				m.calibrating = false
				offset, err := m.ctrl.FinishCalibration()
				if err != nil {
					m.statusMsg = fmt.Sprintf("calibration failed: %v", err)
				} else {
					m.statusMsg = fmt.Sprintf("heading offset %.1f°", offset)
				}
			}

		default:
			var cmd tea.Cmd
			m.sky, cmd = m.sky.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - 4
		m.sky = m.sky.SetSize(msg.Width, contentHeight)
		m.status = m.status.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())

	case SnapshotMsg:
		m.snapshot = msg.Snapshot
		m.sky = m.sky.UpdateData(msg.Snapshot)
		m.status = m.status.UpdateData(msg.Snapshot)

	case CalibrationMsg:
		m.calibrating = false
		if msg.Err != nil {
			m.statusMsg = fmt.Sprintf("calibration failed: %v", msg.Err)
		} else {
			m.statusMsg = fmt.Sprintf("heading offset %.1f°", msg.OffsetDeg)
		}
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var content string
	switch m.pane {
	case PaneStatus:
		content = m.status.View()
	default:
		content = m.sky.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	title := titleStyle.Render("ls-skylens " + version.Version)

	tier := m.snapshot.Fusion.Tier.String()
	heading := fmt.Sprintf("hdg %.0f° pitch %.0f° [%s %.0f%%]",
		m.snapshot.Fusion.HeadingDeg,
		m.snapshot.Fusion.PitchDeg,
		tier,
		m.snapshot.Fusion.Confidence*100)

	return fmt.Sprintf("%s | %s | %s", title, dimStyle.Render(m.mode.String()), dimStyle.Render(heading))
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	help := "1 sky · 2 status · m mode · c calibrate · q quit"
	if m.calibrating {
		help = "CALIBRATING: press c to finish · q quit"
	}
	if m.statusMsg != "" {
		help = m.statusMsg + "  |  " + help
	}
	return dimStyle.Render(help)
}
