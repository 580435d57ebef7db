package invoice

import "strings"

// Op enumerates the line-item operations legal for the current draft.
type Op int

const (
	OpNone Op = iota
	OpAdd
	OpEdit
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpEdit:
		return "edit"
	}
	return "none"
}

// Draft is the single scratch line item shared by the add and edit flows.
// It has no id of its own: whether it describes a new item or an existing
// one is the editor's selection state.
type Draft struct {
	Name   string
	Amount float64
	Price  float64
}

// NewDraft returns the empty draft the input row resets to.
func NewDraft() Draft {
	return Draft{Amount: 1, Price: 1}
}

// Editor is the line-item editing state machine. It owns the draft slot and
// the selection, and is used as a value: every transition returns the
// successor state and leaves the receiver untouched. Document mutations go
// through Add, Apply and Remove only.
type Editor struct {
	draft   Draft
	editing *int // id of the selected item; nil while composing a new one
}

// NewEditor returns an editor with an empty draft and no selection.
func NewEditor() Editor {
	return Editor{draft: NewDraft()}
}

// Draft exposes the current scratch values for display.
func (e Editor) Draft() Draft { return e.draft }

// Selected returns the id of the item mirrored into the draft, if any.
func (e Editor) Selected() (int, bool) {
	if e.editing == nil {
		return 0, false
	}
	return *e.editing, true
}

// SetName overwrites the draft name.
func (e Editor) SetName(name string) Editor {
	e.draft.Name = name
	return e
}

// SetAmount overwrites the draft quantity.
func (e Editor) SetAmount(v float64) Editor {
	e.draft.Amount = v
	return e
}

// SetPrice overwrites the draft unit price.
func (e Editor) SetPrice(v float64) Editor {
	e.draft.Price = v
	return e
}

// Pick toggles selection of an existing item: picking the selected item
// again clears the selection and resets the draft, picking any other copies
// it into the draft for editing.
func (e Editor) Pick(item LineItem) Editor {
	if e.editing != nil && *e.editing == item.ID {
		return NewEditor()
	}
	id := item.ID
	return Editor{
		draft:   Draft{Name: item.Name, Amount: item.Amount, Price: item.Price},
		editing: &id,
	}
}

// ChooseSuggestion overwrites the draft name with the suggestion label;
// the empty label means "no suggestion chosen" and clears the name.
// Quantity and price are untouched. Suggestions are a convenience for new
// items only, so the call is ignored while an existing item is selected.
func (e Editor) ChooseSuggestion(label string) Editor {
	if e.editing != nil {
		return e
	}
	e.draft.Name = label
	return e
}

// Permitted derives the legal operation from draft validity and selection
// state. It is recomputed on every read, never cached.
func (e Editor) Permitted() Op {
	if e.draft.Amount <= 0 || e.draft.Price <= 0 || strings.TrimSpace(e.draft.Name) == "" {
		return OpNone
	}
	if e.editing == nil {
		return OpAdd
	}
	return OpEdit
}

// Add appends the draft to the document as a new item and resets the input
// row. Legal only while Permitted reports OpAdd.
func (e Editor) Add(doc Document) (Document, Editor, error) {
	if e.Permitted() != OpAdd {
		return doc, e, ErrOperationNotPermitted
	}
	item := LineItem{
		ID:     doc.nextItemID(),
		Name:   strings.TrimSpace(e.draft.Name),
		Amount: e.draft.Amount,
		Price:  e.draft.Price,
	}
	items := make([]LineItem, len(doc.Items), len(doc.Items)+1)
	copy(items, doc.Items)
	doc.Items = append(items, item)
	doc.lastItemID = item.ID
	return doc, NewEditor(), nil
}

// Apply overwrites the selected item in place with the draft values. The
// selection and draft keep pointing at the item afterwards. Legal only
// while Permitted reports OpEdit.
func (e Editor) Apply(doc Document) (Document, Editor, error) {
	if e.Permitted() != OpEdit {
		return doc, e, ErrOperationNotPermitted
	}
	items := make([]LineItem, len(doc.Items))
	copy(items, doc.Items)
	for i := range items {
		if items[i].ID == *e.editing {
			items[i].Name = strings.TrimSpace(e.draft.Name)
			items[i].Amount = e.draft.Amount
			items[i].Price = e.draft.Price
		}
	}
	doc.Items = items
	return doc, e, nil
}

// Remove deletes the selected item from the document, clears the selection
// and resets the input row. Legal whenever a selection is set.
func (e Editor) Remove(doc Document) (Document, Editor, error) {
	if e.editing == nil {
		return doc, e, ErrNothingSelected
	}
	items := make([]LineItem, 0, len(doc.Items))
	for _, it := range doc.Items {
		if it.ID != *e.editing {
			items = append(items, it)
		}
	}
	doc.Items = items
	return doc, NewEditor(), nil
}
