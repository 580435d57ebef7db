package invoice

import "strings"

// Field keys used both on the wire and to attach an error to its input.
const (
	FieldBuyerName    = "buyerName"
	FieldBuyerINN     = "buyerInn"
	FieldBuyerKPP     = "buyerKpp"
	FieldBuyerInd     = "buyerInd"
	FieldBuyerAddress = "buyerAddress"
	FieldItems        = "items"
)

// Errors maps a document field to a human-readable problem. An empty map
// means the document is ready for hand-off.
type Errors map[string]string

// Ready reports whether the document passed every rule.
func (e Errors) Ready() bool { return len(e) == 0 }

// Validate checks a document against all submission rules. The rules are
// independent: every violated one lands in the result. A zero Document is
// simply not ready; Validate never panics on one. When the item list was
// supplied externally (FromFile), the items rule is skipped.
func Validate(doc Document) Errors {
	errs := Errors{}

	if strings.TrimSpace(doc.BuyerName) == "" {
		errs[FieldBuyerName] = "Наименование обязательно к заполнению"
	}
	if doc.BuyerINN == 0 {
		errs[FieldBuyerINN] = "ИНН обязательно к заполнению"
	}
	if doc.BuyerKPP == 0 {
		errs[FieldBuyerKPP] = "КПП обязательно к заполнению"
	}
	if doc.BuyerInd == 0 {
		errs[FieldBuyerInd] = "Индекс обязательно к заполнению"
	}
	if doc.BuyerAddress == "" {
		errs[FieldBuyerAddress] = "Адрес обязательно к заполнению"
	}
	if !doc.FromFile && len(doc.Items) == 0 {
		errs[FieldItems] = "Нет ни одной строчки товаров/услуг"
	}

	return errs
}
