package invoice

// ManualEntryID is the synthetic counterparty id meaning "enter the buyer
// by hand". A document bound to it keeps whatever the user typed.
const ManualEntryID = 0

// PayloadType tags outgoing payloads for the messaging host.
const PayloadType = "invent"

// BankDetails carries the counterparty's bank requisites. They travel with
// the feed record but are never copied into a Document.
type BankDetails struct {
	Name   string `json:"name" yaml:"name"`
	BIK    string `json:"bik" yaml:"bik"`
	Check1 string `json:"check1" yaml:"check1"`
	Check2 string `json:"check2" yaml:"check2"`
}

// Counterparty is a pre-registered buyer profile supplied by the static
// feed. Records are immutable after load.
type Counterparty struct {
	ID          int         `json:"id" yaml:"id" validate:"gte=0"`
	Name        string      `json:"name" yaml:"name" validate:"required"`
	INN         int64       `json:"inn" yaml:"inn" validate:"gt=0"`
	KPP         int64       `json:"kpp" yaml:"kpp" validate:"gt=0"`
	Ind         int         `json:"ind" yaml:"ind" validate:"gt=0"`
	Address     string      `json:"address" yaml:"address" validate:"required"`
	Phone       string      `json:"phone" yaml:"phone"`
	Bank        BankDetails `json:"bank" yaml:"bank"`
	Suggestions []string    `json:"suggestions" yaml:"suggestions"`
}

// LineItem is one row of the document's goods/services table. IDs are
// positive and stable for the lifetime of the item; 0 never appears in a
// document.
type LineItem struct {
	ID     int     `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Price  float64 `json:"price"`
}

// Document is the invoice being composed. The JSON tags are the wire
// contract with the messaging host and must not change.
type Document struct {
	BuyerName      string     `json:"buyerName"`
	BuyerINN       int64      `json:"buyerInn"`
	BuyerKPP       int64      `json:"buyerKpp"`
	BuyerInd       int        `json:"buyerInd"`
	BuyerAddress   string     `json:"buyerAddress"`
	BuyerPhone     string     `json:"buyerPhone"`
	CounterpartyID int        `json:"counterpartyId"`
	Items          []LineItem `json:"items"`
	FromFile       bool       `json:"fromFile"`

	// High-water mark for item ids. Removal never frees an id, so the
	// max of Items alone is not enough.
	lastItemID int
}

// ApplyBuyer copies the buyer fields from the counterparty into the
// document. Manual entry (id 0) only rebinds the id: the user's typed
// fields stay as they are. Any other counterparty fully overwrites them.
func (d Document) ApplyBuyer(c Counterparty) Document {
	d.CounterpartyID = c.ID
	if c.ID == ManualEntryID {
		return d
	}
	d.BuyerName = c.Name
	d.BuyerINN = c.INN
	d.BuyerKPP = c.KPP
	d.BuyerInd = c.Ind
	d.BuyerAddress = c.Address
	d.BuyerPhone = c.Phone
	return d
}

// ItemByID looks up an item by its id.
func (d Document) ItemByID(id int) (LineItem, bool) {
	for _, it := range d.Items {
		if it.ID == id {
			return it, true
		}
	}
	return LineItem{}, false
}

// nextItemID returns the id the next added item gets. Ids are strictly
// increasing across adds even when items were removed in between.
func (d Document) nextItemID() int {
	next := d.lastItemID + 1
	for _, it := range d.Items {
		if it.ID >= next {
			next = it.ID + 1
		}
	}
	if next < 1 {
		next = 1
	}
	return next
}

// Payload is the envelope handed to the messaging host on submit. Field
// names and nesting mirror what the host expects.
type Payload struct {
	Type           string   `json:"type"`
	Data           Document `json:"data"`
	CounterpartyID int      `json:"counterpartyId"`
}

// NewPayload wraps a finished document for the one-shot hand-off.
func NewPayload(d Document) Payload {
	return Payload{Type: PayloadType, Data: d, CounterpartyID: d.CounterpartyID}
}
