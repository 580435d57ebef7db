package host

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amg-tools/invent-cli/internal/invoice"
)

type recordingSink struct {
	sent []invoice.Payload
	err  error
}

func (r *recordingSink) Send(ctx context.Context, p invoice.Payload) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, p)
	return nil
}

func readyDocument() invoice.Document {
	return invoice.Document{
		BuyerName:      "ООО Техно",
		BuyerINN:       7701234567,
		BuyerKPP:       770101001,
		BuyerInd:       101000,
		BuyerAddress:   "г. Москва, ул. Ленина, 1",
		CounterpartyID: 1,
		Items:          []invoice.LineItem{{ID: 1, Name: "Болт", Amount: 10, Price: 2.5}},
	}
}

func TestGate_RejectsNotReadyDocument(t *testing.T) {
	sink := &recordingSink{}
	gate := NewGate(sink)

	err := gate.Submit(context.Background(), invoice.Document{})
	require.ErrorIs(t, err, ErrNotReady)
	assert.Empty(t, sink.sent, "nothing may reach the sink on rejection")
	assert.False(t, gate.Ready())
	assert.NotEmpty(t, gate.Errors())
}

func TestGate_SubmitsReadyDocumentOnce(t *testing.T) {
	sink := &recordingSink{}
	gate := NewGate(sink)
	doc := readyDocument()

	require.NoError(t, gate.Submit(context.Background(), doc))
	require.Len(t, sink.sent, 1)
	assert.Equal(t, "invent", sink.sent[0].Type)
	assert.Equal(t, 1, sink.sent[0].CounterpartyID)

	// Same document again: debounced, not resent.
	err := gate.Submit(context.Background(), doc)
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Len(t, sink.sent, 1)
}

func TestGate_DocumentChangeRearms(t *testing.T) {
	sink := &recordingSink{}
	gate := NewGate(sink)
	doc := readyDocument()

	require.NoError(t, gate.Submit(context.Background(), doc))

	doc.Items = append(doc.Items, invoice.LineItem{ID: 2, Name: "Гайка", Amount: 5, Price: 1})
	gate.DocumentChanged(doc)
	assert.True(t, gate.Ready())

	require.NoError(t, gate.Submit(context.Background(), doc))
	assert.Len(t, sink.sent, 2)
}

func TestGate_FailedSendStaysArmed(t *testing.T) {
	boom := errors.New("host unreachable")
	sink := &recordingSink{err: boom}
	gate := NewGate(sink)
	doc := readyDocument()

	err := gate.Submit(context.Background(), doc)
	require.ErrorIs(t, err, boom)

	// The failure must not count as a completed hand-off.
	sink.err = nil
	require.NoError(t, gate.Submit(context.Background(), doc))
	assert.Len(t, sink.sent, 1)
}

// blockingSink parks every Send between entered and release so a test can
// act while a hand-off is in flight.
type blockingSink struct {
	entered chan struct{}
	release chan struct{}

	mu   sync.Mutex
	sent []invoice.Payload
}

func newBlockingSink() *blockingSink {
	return &blockingSink{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
}

func (b *blockingSink) Send(ctx context.Context, p invoice.Payload) error {
	b.entered <- struct{}{}
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, p)
	return nil
}

func (b *blockingSink) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sent)
}

func TestGate_ConcurrentTriggersSendOnce(t *testing.T) {
	sink := newBlockingSink()
	gate := NewGate(sink)
	doc := readyDocument()

	first := make(chan error, 1)
	go func() { first <- gate.Submit(context.Background(), doc) }()
	<-sink.entered

	// Second trigger while the first send is still in flight.
	err := gate.Submit(context.Background(), doc)
	require.ErrorIs(t, err, ErrAlreadySubmitted)

	close(sink.release)
	require.NoError(t, <-first)
	assert.Equal(t, 1, sink.count(), "repeated triggers of the same document must send once")
}

func TestGate_ChangeDuringSendRearms(t *testing.T) {
	sink := newBlockingSink()
	gate := NewGate(sink)
	doc := readyDocument()

	first := make(chan error, 1)
	go func() { first <- gate.Submit(context.Background(), doc) }()
	<-sink.entered

	// The document changes while the send is in flight; finishing the send
	// must not mark the newer document as already submitted.
	doc.Items = append(doc.Items, invoice.LineItem{ID: 2, Name: "Гайка", Amount: 5, Price: 1})
	gate.DocumentChanged(doc)

	close(sink.release)
	require.NoError(t, <-first)

	assert.True(t, gate.Ready())
	require.NoError(t, gate.Submit(context.Background(), doc))
	assert.Equal(t, 2, sink.count())
}

func TestGate_ReadyTracksDocumentChanges(t *testing.T) {
	gate := NewGate(&recordingSink{})
	assert.False(t, gate.Ready(), "gate starts not ready")

	gate.DocumentChanged(readyDocument())
	assert.True(t, gate.Ready())

	gate.DocumentChanged(invoice.Document{})
	assert.False(t, gate.Ready())
	assert.NotEmpty(t, gate.Errors()[invoice.FieldBuyerName])
}
