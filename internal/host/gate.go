// Package host owns the boundary to the external messaging host: the
// submission gate that decides whether a document may leave the screen,
// and the sinks that carry it out.
package host

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/amg-tools/invent-cli/internal/invoice"
	"github.com/amg-tools/invent-cli/internal/logger"
)

var (
	// ErrNotReady rejects a submit trigger for a document that still has
	// validation errors. The text is shown to the user as-is.
	ErrNotReady = errors.New("Пожалуйста, исправьте ошибки в форме")

	// ErrAlreadySubmitted debounces repeated submit triggers: the document
	// was already handed off and has not changed since.
	ErrAlreadySubmitted = errors.New("Документ уже отправлен")
)

// Sink accepts a finished document payload. Sends are fire-and-forget from
// the core's perspective: no retries, no awaited response beyond the
// immediate error.
type Sink interface {
	Send(ctx context.Context, p invoice.Payload) error
}

// Gate validates the document on every change and performs the one-shot
// hand-off to the sink. A second trigger without an intervening document
// change is rejected rather than sent twice.
type Gate struct {
	mu       sync.Mutex
	sink     Sink
	log      zerolog.Logger
	errs     invoice.Errors
	sent     bool
	inflight bool
	// rearmed records a DocumentChanged that landed while a send was in
	// flight; the completed send must not mark that newer document as sent.
	rearmed bool
}

// NewGate creates a gate over the given sink, primed with the validation
// state of an empty document.
func NewGate(sink Sink) *Gate {
	return &Gate{
		sink: sink,
		log:  logger.WithComponent("gate"),
		errs: invoice.Validate(invoice.Document{}),
	}
}

// DocumentChanged revalidates after an edit and re-arms the gate.
func (g *Gate) DocumentChanged(doc invoice.Document) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs = invoice.Validate(doc)
	g.sent = false
	g.rearmed = true
}

// Ready reports whether the last seen document may be submitted. This
// drives the host's primary-action affordance.
func (g *Gate) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.errs.Ready()
}

// Errors returns the current field errors for inline display.
func (g *Gate) Errors() invoice.Errors {
	g.mu.Lock()
	defer g.mu.Unlock()
	errs := make(invoice.Errors, len(g.errs))
	for k, v := range g.errs {
		errs[k] = v
	}
	return errs
}

// Submit serializes the document and hands it to the sink, exactly once
// per trigger. Not-ready documents are rejected with ErrNotReady and no
// other action; an unchanged document that was already sent, and a trigger
// repeated while a send is still in flight, are rejected with
// ErrAlreadySubmitted. A failed send leaves the gate armed so the user may
// trigger again, and a DocumentChanged that lands during the send re-arms
// the gate for the newer document.
func (g *Gate) Submit(ctx context.Context, doc invoice.Document) error {
	g.mu.Lock()
	g.errs = invoice.Validate(doc)
	if !g.errs.Ready() {
		g.mu.Unlock()
		return ErrNotReady
	}
	if g.sent || g.inflight {
		g.mu.Unlock()
		return ErrAlreadySubmitted
	}
	g.inflight = true
	g.rearmed = false
	g.mu.Unlock()

	p := invoice.NewPayload(doc)
	err := g.sink.Send(ctx, p)

	g.mu.Lock()
	g.inflight = false
	if err == nil && !g.rearmed {
		g.sent = true
	}
	g.mu.Unlock()

	if err != nil {
		g.log.Error().Err(err).Int("counterparty_id", p.CounterpartyID).Msg("hand-off failed")
		return err
	}

	g.log.Info().
		Int("counterparty_id", p.CounterpartyID).
		Int("items", len(p.Data.Items)).
		Bool("from_file", p.Data.FromFile).
		Msg("document handed off")
	return nil
}
