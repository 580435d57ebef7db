package invoice

import (
	"encoding/json"
	"testing"
)

func TestApplyBuyer_OverwritesFields(t *testing.T) {
	doc := Document{BuyerName: "typed by hand", BuyerINN: 1}
	cp := Counterparty{
		ID: 3, Name: "ООО Ромашка", INN: 7812345678, KPP: 781201001,
		Ind: 190000, Address: "г. Санкт-Петербург, Невский пр., 10",
		Phone: "+7 (812) 000-00-00",
	}

	doc = doc.ApplyBuyer(cp)
	if doc.CounterpartyID != 3 {
		t.Fatalf("counterparty id = %d, want 3", doc.CounterpartyID)
	}
	if doc.BuyerName != cp.Name || doc.BuyerINN != cp.INN || doc.BuyerKPP != cp.KPP ||
		doc.BuyerInd != cp.Ind || doc.BuyerAddress != cp.Address || doc.BuyerPhone != cp.Phone {
		t.Fatalf("buyer fields not overwritten: %+v", doc)
	}
}

func TestApplyBuyer_ManualEntryPreservesTypedFields(t *testing.T) {
	doc := Document{BuyerName: "ИП Иванов", BuyerINN: 500100732259, CounterpartyID: 2}

	doc = doc.ApplyBuyer(Counterparty{ID: ManualEntryID})
	if doc.CounterpartyID != ManualEntryID {
		t.Fatalf("counterparty id = %d, want 0", doc.CounterpartyID)
	}
	if doc.BuyerName != "ИП Иванов" || doc.BuyerINN != 500100732259 {
		t.Fatalf("manual entry overwrote typed fields: %+v", doc)
	}
}

// The host parses the envelope by key; the exact names are a contract.
func TestPayload_WireFormat(t *testing.T) {
	doc := readyDocument()
	raw, err := json.Marshal(NewPayload(doc))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	for _, key := range []string{"type", "data", "counterpartyId"} {
		if _, ok := envelope[key]; !ok {
			t.Errorf("envelope missing %q", key)
		}
	}
	if len(envelope) != 3 {
		t.Fatalf("envelope has %d keys, want 3", len(envelope))
	}

	var typ string
	if err := json.Unmarshal(envelope["type"], &typ); err != nil || typ != "invent" {
		t.Fatalf("type = %q (%v), want invent", typ, err)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(envelope["data"], &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	for _, key := range []string{
		"buyerName", "buyerInn", "buyerKpp", "buyerInd",
		"buyerAddress", "buyerPhone", "counterpartyId", "items", "fromFile",
	} {
		if _, ok := data[key]; !ok {
			t.Errorf("data missing %q", key)
		}
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data["items"], &items); err != nil {
		t.Fatalf("unmarshal items: %v", err)
	}
	for _, key := range []string{"id", "name", "amount", "price"} {
		if _, ok := items[0][key]; !ok {
			t.Errorf("item missing %q", key)
		}
	}
}
