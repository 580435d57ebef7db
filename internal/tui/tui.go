// Package tui is the single-screen invoice composer: a counterparty menu
// and the invoice form with its shared line-item input row.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/amg-tools/invent-cli/internal/catalog"
	"github.com/amg-tools/invent-cli/internal/host"
	"github.com/amg-tools/invent-cli/internal/invoice"
	"github.com/amg-tools/invent-cli/internal/logger"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#333333")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	noStyle = lipgloss.NewStyle()

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 2)

	mainButtonStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#04B575")).
			Foreground(lipgloss.Color("#FFF")).
			Padding(0, 1).
			Bold(true)

	mainButtonOffStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#333333")).
				Foreground(lipgloss.Color("#888888")).
				Padding(0, 1)

	notificationSuccess = lipgloss.NewStyle().
				Background(lipgloss.Color("#04B575")).
				Foreground(lipgloss.Color("#FFF")).
				Padding(0, 1).
				Bold(true)
)

// View represents the two screens.
type View int

const (
	ViewMenu View = iota
	ViewInvoice
)

// zone is the focus area inside the invoice view.
type zone int

const (
	zoneForm zone = iota
	zoneItems
)

// MenuItem wraps a counterparty for the menu list.
type MenuItem struct {
	cp invoice.Counterparty
}

func (i MenuItem) Title() string { return i.cp.Name }

func (i MenuItem) Description() string {
	if i.cp.ID == invoice.ManualEntryID {
		return "Данные покупателя вводятся вручную"
	}
	return fmt.Sprintf("ИНН %d", i.cp.INN)
}

func (i MenuItem) FilterValue() string { return i.cp.Name }

// Options are the entry parameters, read once when the screen is entered.
type Options struct {
	// Counterparty skips the menu and opens the invoice directly. It must
	// be resolved through the catalog beforehand: an unknown id never gets
	// this far.
	Counterparty *invoice.Counterparty

	// FromFile marks the item list as externally supplied; the line-item
	// editor is inactive in that mode.
	FromFile bool

	// Items pre-populates the document (FromFile mode).
	Items []invoice.LineItem

	Brand string
}

type submitResultMsg struct {
	err error
}

type clearNotificationMsg struct{}

// Model is the TUI model.
type Model struct {
	catalog *catalog.Catalog
	gate    *host.Gate
	log     zerolog.Logger
	brand   string

	view    View
	hasMenu bool
	width   int
	height  int

	menu list.Model

	doc    invoice.Document
	editor invoice.Editor

	inputs     []textinput.Model
	focusIndex int
	zone       zone
	itemCursor int

	suggestions     []string
	suggestionIndex int

	// Field errors become visible after the first rejected submit, as in
	// the original form.
	showErrors bool

	message          string
	messageType      string
	notification     string
	showNotification bool
}

// New creates the TUI model.
func New(cat *catalog.Catalog, gate *host.Gate, opts Options) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	items := []list.Item{}
	for _, cp := range cat.All() {
		items = append(items, MenuItem{cp})
	}
	menu := list.New(items, delegate, 0, 0)
	menu.Title = opts.Brand
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.Styles.Title = titleStyle

	m := Model{
		catalog: cat,
		gate:    gate,
		log:     logger.WithComponent("tui"),
		brand:   opts.Brand,
		menu:    menu,
		hasMenu: opts.Counterparty == nil,
		doc:     invoice.Document{FromFile: opts.FromFile, Items: opts.Items},
		editor:  invoice.NewEditor(),
	}
	m.initInputs()

	if opts.Counterparty != nil {
		m.selectCounterparty(*opts.Counterparty)
	} else {
		m.view = ViewMenu
		m.suggestions = cat.Suggestions(invoice.ManualEntryID)
	}
	gate.DocumentChanged(m.doc)

	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.message = ""
		m.messageType = ""

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.view {
		case ViewMenu:
			return m.updateMenu(msg)
		case ViewInvoice:
			return m.updateInvoice(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.menu.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case submitResultMsg:
		return m.handleSubmitResult(msg)

	case clearNotificationMsg:
		m.showNotification = false
		m.notification = ""
		return m, nil
	}

	if m.view == ViewMenu {
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "enter":
		if item, ok := m.menu.SelectedItem().(MenuItem); ok {
			m.selectCounterparty(item.cp)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.menu, cmd = m.menu.Update(msg)
	return m, cmd
}

func (m Model) updateInvoice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if m.zone == zoneItems {
			m.zone = zoneForm
			return m, nil
		}
		if m.hasMenu {
			// Back to the buyer menu; the document survives the switch.
			m.view = ViewMenu
			return m, nil
		}
		return m, tea.Quit

	case "ctrl+s":
		return m, m.submitCmd()

	case "ctrl+n":
		if m.editingAllowed() && len(m.doc.Items) > 0 {
			if m.zone == zoneForm {
				m.zone = zoneItems
				m.clampItemCursor()
			} else {
				m.zone = zoneForm
			}
		}
		return m, nil

	case "ctrl+g":
		m.cycleSuggestion()
		return m, nil

	case "ctrl+x":
		m.removeSelected()
		return m, nil

	case "enter":
		if m.zone == zoneItems {
			m.pickItem()
			return m, nil
		}
		m.applyPermitted()
		return m, nil

	case "tab", "down":
		if m.zone == zoneItems {
			if m.itemCursor < len(m.doc.Items)-1 {
				m.itemCursor++
			}
			return m, nil
		}
		m.focusIndex++
		if m.focusIndex >= m.reachableInputs() {
			m.focusIndex = 0
		}
		return m, m.updateFocus()

	case "shift+tab", "up":
		if m.zone == zoneItems {
			if m.itemCursor > 0 {
				m.itemCursor--
			}
			return m, nil
		}
		m.focusIndex--
		if m.focusIndex < 0 {
			m.focusIndex = m.reachableInputs() - 1
		}
		return m, m.updateFocus()
	}

	if m.zone == zoneForm && m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		m.applyInput(m.focusIndex)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleSubmitResult(msg submitResultMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err == nil:
		m.notification = "Документ отправлен"
		m.showNotification = true
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearNotificationMsg{}
		})
	case errors.Is(msg.err, host.ErrNotReady):
		m.showErrors = true
		m.message = msg.err.Error()
		m.messageType = "error"
	case errors.Is(msg.err, host.ErrAlreadySubmitted):
		m.message = msg.err.Error()
		m.messageType = "error"
	default:
		m.log.Error().Err(msg.err).Msg("submit failed")
		m.message = msg.err.Error()
		m.messageType = "error"
	}
	return m, nil
}

// submitCmd fires the host submit trigger for the current document.
func (m Model) submitCmd() tea.Cmd {
	doc := m.doc
	gate := m.gate
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return submitResultMsg{err: gate.Submit(ctx, doc)}
	}
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch m.view {
	case ViewMenu:
		content = m.menu.View()
	case ViewInvoice:
		content = m.renderInvoice()
	}

	var b strings.Builder

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	if m.showNotification {
		b.WriteString(notificationSuccess.Render("✓ " + m.notification))
		b.WriteString("\n")
	}

	b.WriteString(content)

	if m.message != "" {
		b.WriteString("\n\n")
		if m.messageType == "error" {
			b.WriteString(errorStyle.Render(m.message))
		} else {
			b.WriteString(successStyle.Render("✓ " + m.message))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderStatusBar() string {
	mode := "счёт вручную"
	if m.doc.FromFile {
		mode = "позиции из файла"
	}
	return statusBarStyle.Render(fmt.Sprintf(" %s | %s ", m.brand, mode))
}

func (m Model) renderHelp() string {
	var help string
	switch {
	case m.view == ViewMenu:
		help = "↑/↓: navigate • enter: select • q: quit"
	case m.zone == zoneItems:
		help = "↑/↓: navigate • enter: pick/unpick • ctrl+x: remove • esc: back to form"
	case !m.editingAllowed():
		help = "tab: next field • ctrl+s: submit • esc: back"
	default:
		help = "tab: next field • enter: add/edit item • ctrl+n: item list • ctrl+g: suggestion • ctrl+s: submit • esc: back"
	}
	return helpStyle.Render(help)
}

// Run starts the TUI program.
func Run(cat *catalog.Catalog, gate *host.Gate, opts Options) error {
	p := tea.NewProgram(New(cat, gate, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
