package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"snappick/internal/config"
	"snappick/internal/eventbus"
	"snappick/internal/manager"
	"snappick/internal/registry"
)

// mode is the input mode of the panel
type mode int

const (
	modeNormal mode = iota
	modeChoose      // typing a snapshot directory path
)

// Model is the tree-view panel listing known databases. It renders the
// registry and re-queries it whenever a change notification arrives.
type Model struct {
	bus      eventbus.EventBus
	manager  *manager.Manager
	registry *registry.Registry
	cfg      *config.Config
	styles   *Styles

	textInput textinput.Model
	mode      mode
	cursor    int

	status   string
	statusIs eventbus.EventType // EventError, EventWarning or "" for neutral
	scanning bool

	width  int
	height int
}

// NewModel creates the UI model
func NewModel(bus eventbus.EventBus, mgr *manager.Manager, cfg *config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "/path/to/snapshot"
	ti.CharLimit = 0

	return Model{
		bus:       bus,
		manager:   mgr,
		registry:  mgr.Registry(),
		cfg:       cfg,
		styles:    NewStyles(),
		textInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event), nil

	case tea.KeyMsg:
		if m.mode == modeChoose {
			return m.handleChooseKey(msg)
		}
		return m.handleNormalKey(msg)
	}

	if m.mode == modeChoose {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleEvent updates view state from a domain event. Selection and list
// changes carry no payload worth caching; the registry is re-queried on the
// next render.
func (m Model) handleEvent(event eventbus.DomainEvent) Model {
	switch e := event.(type) {
	case eventbus.WarningEvent:
		m.status = e.Message
		m.statusIs = eventbus.EventWarning
	case eventbus.ErrorEvent:
		m.status = e.Message
		m.statusIs = eventbus.EventError
	case eventbus.ScanStartedEvent:
		m.scanning = true
	case eventbus.ScanCompletedEvent:
		m.scanning = false
		m.status = fmt.Sprintf("Scan complete: %d snapshot(s) found", e.DatabasesFound)
		m.statusIs = ""
	}
	return m
}

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.registry.TreeChildren(nil)

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case "enter":
		if m.cursor < len(items) {
			if err := m.manager.SetCurrent(items[m.cursor]); err != nil {
				m.status = err.Error()
				m.statusIs = eventbus.EventError
			} else {
				m.status = fmt.Sprintf("Current database: %s", items[m.cursor].DatabasePath)
				m.statusIs = ""
			}
		}

	case "o":
		m.mode = modeChoose
		m.textInput.Reset()
		m.textInput.Focus()
		return m, textinput.Blink

	case "r":
		if !m.scanning && m.cfg.BaseDir != "" {
			m.bus.Publish(eventbus.ScanRequestedEvent{Paths: []string{m.cfg.BaseDir}})
		}
	}

	return m, nil
}

func (m Model) handleChooseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		// Cancel: no mutation
		m.mode = modeNormal
		m.textInput.Blur()
		return m, nil

	case "enter":
		path := strings.TrimSpace(m.textInput.Value())
		m.mode = modeNormal
		m.textInput.Blur()
		if path == "" {
			return m, nil
		}
		d, err := m.manager.SelectPath(path)
		if err != nil {
			m.status = err.Error()
			m.statusIs = eventbus.EventError
			return m, nil
		}
		m.status = fmt.Sprintf("Current database: %s", d.DatabasePath)
		m.statusIs = ""
		m.cursor = m.indexOfCurrent()
		return m, nil

	default:
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
}

func (m Model) indexOfCurrent() int {
	cur := m.registry.Current()
	for i, d := range m.registry.TreeChildren(nil) {
		if d == cur {
			return i
		}
	}
	return 0
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("snappick"))
	b.WriteString("\n")

	items := m.registry.TreeChildren(nil)
	if len(items) == 0 {
		b.WriteString(m.styles.Dim.Render("No databases yet. Press o to open a snapshot directory."))
		b.WriteString("\n")
	}

	for i, d := range items {
		info := m.registry.DisplayInfo(d)

		icon := " "
		if info.Icon != "" {
			icon = m.styles.Current.Render(info.Icon)
		}

		label := info.Label
		if i == m.cursor && m.mode == modeNormal {
			label = m.styles.CursorBg.Render(label)
		}

		line := fmt.Sprintf("%s %s", icon, label)
		if m.cfg.UISettings.ShowPaths {
			line += m.styles.Dim.Render("  " + info.Tooltip)
		}
		if src, done := d.SourceRoot(); !done {
			line += m.styles.Dim.Render("  (src: resolving)")
		} else if src != "" {
			line += m.styles.Dim.Render("  (src)")
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.mode == modeChoose {
		b.WriteString("\n")
		b.WriteString(m.styles.Prompt.Render("Open snapshot directory: "))
		b.WriteString(m.textInput.View())
		b.WriteString("\n")
	}

	if m.scanning {
		b.WriteString(m.styles.Scan.Render("Scanning..."))
		b.WriteString("\n")
	}

	if m.status != "" {
		style := m.styles.Status
		switch m.statusIs {
		case eventbus.EventError:
			style = m.styles.StatusErr
		case eventbus.EventWarning:
			style = m.styles.StatusWrn
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ move · enter select · o open · r rescan · q quit"))
	b.WriteString("\n")

	return b.String()
}
