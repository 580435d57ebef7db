package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/amg-tools/invent-cli/internal/invoice"
)

// Input indices. Buyer fields come first so tab order matches the visual
// order; the item row shares one draft no matter whether a row is picked.
const (
	inputBuyerName = iota
	inputBuyerINN
	inputBuyerKPP
	inputBuyerInd
	inputBuyerPhone
	inputBuyerAddress
	inputItemName
	inputItemAmount
	inputItemPrice
	inputCount
)

var inputLabels = [inputCount]string{
	"Наименование",
	"ИНН",
	"КПП",
	"Индекс",
	"Телефон",
	"Адрес",
	"Товар/услуга",
	"Количество",
	"Цена",
}

// inputField maps a buyer input to its validation key. Item inputs have no
// per-field errors, the items rule covers the whole table.
var inputField = map[int]string{
	inputBuyerName:    invoice.FieldBuyerName,
	inputBuyerINN:     invoice.FieldBuyerINN,
	inputBuyerKPP:     invoice.FieldBuyerKPP,
	inputBuyerInd:     invoice.FieldBuyerInd,
	inputBuyerAddress: invoice.FieldBuyerAddress,
}

func (m *Model) initInputs() {
	m.inputs = make([]textinput.Model, inputCount)
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = inputLabels[i]
		in.CharLimit = 100
		in.Width = 40
		m.inputs[i] = in
	}
	m.inputs[inputBuyerINN].CharLimit = 12
	m.inputs[inputBuyerKPP].CharLimit = 9
	m.inputs[inputBuyerInd].CharLimit = 6
	m.inputs[inputItemAmount].Width = 12
	m.inputs[inputItemPrice].Width = 12
	m.syncItemInputs()
	m.inputs[0].Focus()
}

// reachableInputs is the number of inputs in the tab cycle: the item row
// drops out when the items came from a file.
func (m Model) reachableInputs() int {
	if m.doc.FromFile {
		return inputItemName
	}
	return inputCount
}

func (m *Model) updateFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focusIndex {
			cmd = m.inputs[i].Focus()
			m.inputs[i].PromptStyle = selectedStyle
			m.inputs[i].TextStyle = selectedStyle
			continue
		}
		m.inputs[i].Blur()
		m.inputs[i].PromptStyle = noStyle
		m.inputs[i].TextStyle = noStyle
	}
	return cmd
}

// applyInput folds the edited input value back into the document or the
// line-item draft.
func (m *Model) applyInput(i int) {
	v := m.inputs[i].Value()
	switch i {
	case inputBuyerName:
		m.doc.BuyerName = v
	case inputBuyerINN:
		m.doc.BuyerINN = parseInt(v)
	case inputBuyerKPP:
		m.doc.BuyerKPP = parseInt(v)
	case inputBuyerInd:
		m.doc.BuyerInd = int(parseInt(v))
	case inputBuyerPhone:
		m.doc.BuyerPhone = v
	case inputBuyerAddress:
		m.doc.BuyerAddress = v
	case inputItemName:
		m.editor = m.editor.SetName(v)
	case inputItemAmount:
		m.editor = m.editor.SetAmount(parseFloat(v))
	case inputItemPrice:
		m.editor = m.editor.SetPrice(parseFloat(v))
	}
	if i < inputItemName {
		m.gate.DocumentChanged(m.doc)
	}
}

// selectCounterparty binds the document to the chosen buyer and opens the
// invoice screen. Items survive a buyer switch; the suggestion choice and
// any picked row do not.
func (m *Model) selectCounterparty(cp invoice.Counterparty) {
	m.doc = m.doc.ApplyBuyer(cp)
	m.editor = invoice.NewEditor()
	m.suggestions = m.catalog.Suggestions(cp.ID)
	m.suggestionIndex = 0
	m.view = ViewInvoice
	m.zone = zoneForm
	m.focusIndex = 0
	m.syncBuyerInputs()
	m.syncItemInputs()
	m.updateFocus()
	m.gate.DocumentChanged(m.doc)
}

func (m *Model) syncBuyerInputs() {
	m.inputs[inputBuyerName].SetValue(m.doc.BuyerName)
	m.inputs[inputBuyerINN].SetValue(formatInt(m.doc.BuyerINN))
	m.inputs[inputBuyerKPP].SetValue(formatInt(m.doc.BuyerKPP))
	m.inputs[inputBuyerInd].SetValue(formatInt(int64(m.doc.BuyerInd)))
	m.inputs[inputBuyerPhone].SetValue(m.doc.BuyerPhone)
	m.inputs[inputBuyerAddress].SetValue(m.doc.BuyerAddress)
}

func (m *Model) syncItemInputs() {
	d := m.editor.Draft()
	m.inputs[inputItemName].SetValue(d.Name)
	m.inputs[inputItemAmount].SetValue(formatFloat(d.Amount))
	m.inputs[inputItemPrice].SetValue(formatFloat(d.Price))
}

// editingAllowed reports whether the line-item editor is active at all.
func (m Model) editingAllowed() bool {
	return !m.doc.FromFile
}

func (m *Model) clampItemCursor() {
	if m.itemCursor >= len(m.doc.Items) {
		m.itemCursor = len(m.doc.Items) - 1
	}
	if m.itemCursor < 0 {
		m.itemCursor = 0
	}
}

// pickItem toggles selection of the row under the cursor and mirrors it
// into the draft.
func (m *Model) pickItem() {
	if !m.editingAllowed() || m.itemCursor >= len(m.doc.Items) {
		return
	}
	m.editor = m.editor.Pick(m.doc.Items[m.itemCursor])
	m.syncItemInputs()
}

// applyPermitted runs whichever of add/edit the current draft allows.
func (m *Model) applyPermitted() {
	if !m.editingAllowed() {
		return
	}
	var err error
	switch m.editor.Permitted() {
	case invoice.OpAdd:
		m.doc, m.editor, err = m.editor.Add(m.doc)
		m.suggestionIndex = 0
	case invoice.OpEdit:
		m.doc, m.editor, err = m.editor.Apply(m.doc)
	default:
		return
	}
	if err != nil {
		m.message = err.Error()
		m.messageType = "error"
		return
	}
	m.syncItemInputs()
	m.clampItemCursor()
	m.gate.DocumentChanged(m.doc)
}

func (m *Model) removeSelected() {
	if !m.editingAllowed() {
		return
	}
	doc, editor, err := m.editor.Remove(m.doc)
	if err != nil {
		return
	}
	m.doc, m.editor = doc, editor
	m.syncItemInputs()
	m.clampItemCursor()
	if len(m.doc.Items) == 0 {
		m.zone = zoneForm
	}
	m.gate.DocumentChanged(m.doc)
}

// cycleSuggestion steps the draft name through the catalog suggestions for
// the bound counterparty. The leading empty label means "none".
func (m *Model) cycleSuggestion() {
	if !m.editingAllowed() || len(m.suggestions) < 2 {
		return
	}
	if _, picked := m.editor.Selected(); picked {
		return
	}
	m.suggestionIndex = (m.suggestionIndex + 1) % len(m.suggestions)
	m.editor = m.editor.ChooseSuggestion(m.suggestions[m.suggestionIndex])
	m.syncItemInputs()
}

func (m Model) renderInvoice() string {
	var b strings.Builder

	var fieldErrs invoice.Errors
	if m.showErrors {
		fieldErrs = m.gate.Errors()
	}

	b.WriteString(sectionStyle.Render("Покупатель"))
	b.WriteString("\n")
	for i := inputBuyerName; i <= inputBuyerAddress; i++ {
		b.WriteString(fmt.Sprintf("%-14s %s", inputLabels[i]+":", m.inputs[i].View()))
		if field, ok := inputField[i]; ok {
			if msg, bad := fieldErrs[field]; bad {
				b.WriteString("  " + errorStyle.Render(msg))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Товары и услуги"))
	b.WriteString("\n")
	b.WriteString(m.renderItems())

	if m.editingAllowed() {
		b.WriteString("\n")
		b.WriteString(m.renderItemRow())
	}

	if msg, bad := fieldErrs[invoice.FieldItems]; bad {
		b.WriteString("\n" + errorStyle.Render(msg))
	}

	b.WriteString("\n\n")
	if m.gate.Ready() {
		b.WriteString(mainButtonStyle.Render("Создать документ (ctrl+s)"))
	} else {
		b.WriteString(mainButtonOffStyle.Render("Создать документ"))
	}

	return boxStyle.Render(b.String())
}

func (m Model) renderItems() string {
	if len(m.doc.Items) == 0 {
		return helpStyle.Render("(пусто)") + "\n"
	}

	var b strings.Builder
	selectedID, picked := m.editor.Selected()
	for i, it := range m.doc.Items {
		cursor := "  "
		if m.zone == zoneItems && i == m.itemCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s ** %s ** %s",
			cursor, it.Name, formatFloat(it.Amount), formatFloat(it.Price))
		if picked && it.ID == selectedID {
			line = selectedStyle.Render(line + "  (редактируется)")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderItemRow() string {
	var b strings.Builder

	label := "Новая позиция"
	if _, picked := m.editor.Selected(); picked {
		label = "Изменение позиции"
	}
	b.WriteString(sectionStyle.Render(label))
	b.WriteString("\n")

	if len(m.suggestions) > 1 {
		if _, picked := m.editor.Selected(); !picked {
			choice := m.suggestions[m.suggestionIndex]
			if choice == "" {
				choice = helpStyle.Render("(нет)")
			}
			b.WriteString(fmt.Sprintf("%-14s %s\n", "Подсказка:", choice))
		}
	}

	for i := inputItemName; i <= inputItemPrice; i++ {
		b.WriteString(fmt.Sprintf("%-14s %s\n", inputLabels[i]+":", m.inputs[i].View()))
	}

	op := "—"
	switch m.editor.Permitted() {
	case invoice.OpAdd:
		op = "добавить (enter)"
	case invoice.OpEdit:
		op = "изменить (enter)"
	}
	b.WriteString(helpStyle.Render("Операция: " + op))

	return b.String()
}

func parseInt(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatInt(v int64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatInt(v, 10)
}

func parseFloat(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
