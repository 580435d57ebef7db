package host

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amg-tools/invent-cli/internal/invoice"
	"github.com/amg-tools/invent-cli/internal/logger"
)

// Outbox drops payloads into a local directory. It is the degraded path
// when no messaging host is configured or reachable: the document is not
// lost, it just waits on disk.
type Outbox struct {
	Dir string
	log zerolog.Logger
}

// NewOutbox creates an outbox rooted at dir. The directory is created on
// first send.
func NewOutbox(dir string) *Outbox {
	return &Outbox{Dir: dir, log: logger.WithComponent("outbox")}
}

// Send writes the payload as a pretty-printed JSON file.
func (o *Outbox) Send(ctx context.Context, p invoice.Payload) error {
	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return fmt.Errorf("create outbox dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	path := filepath.Join(o.Dir, fmt.Sprintf("invent-%s.json", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write outbox file: %w", err)
	}

	o.log.Info().Str("path", path).Msg("payload written to outbox")
	return nil
}

// FallbackSink tries the primary sink and degrades to the secondary when
// the primary fails, so an unreachable host never crashes the screen.
type FallbackSink struct {
	Primary   Sink
	Secondary Sink
	log       zerolog.Logger
}

// NewFallbackSink wires a primary sink with a degradation path.
func NewFallbackSink(primary, secondary Sink) *FallbackSink {
	return &FallbackSink{
		Primary:   primary,
		Secondary: secondary,
		log:       logger.WithComponent("sink"),
	}
}

// Send delivers through the primary, falling back to the secondary.
func (f *FallbackSink) Send(ctx context.Context, p invoice.Payload) error {
	err := f.Primary.Send(ctx, p)
	if err == nil {
		return nil
	}
	f.log.Warn().Err(err).Msg("primary sink failed, degrading to fallback")
	if ferr := f.Secondary.Send(ctx, p); ferr != nil {
		return fmt.Errorf("fallback after %v: %w", err, ferr)
	}
	return nil
}
