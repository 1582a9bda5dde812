package handler

import (
	"context"
	"time"

	"github.com/drewdunne/cursorbridge/internal/bridge"
	"github.com/drewdunne/cursorbridge/internal/logging"
	"github.com/drewdunne/cursorbridge/internal/metrics"
	"github.com/drewdunne/cursorbridge/internal/webhook"
	"github.com/rs/zerolog"
)

// EmitHandler handles messages by passing them to the instruction emitter.
type EmitHandler struct {
	emitter *bridge.Emitter
	journal *logging.Journal
	logger  zerolog.Logger
}

// NewEmitHandler creates a new emit handler. journal may be nil.
func NewEmitHandler(emitter *bridge.Emitter, journal *logging.Journal, logger zerolog.Logger) *EmitHandler {
	return &EmitHandler{
		emitter: emitter,
		journal: journal,
		logger:  logger,
	}
}

// Handle processes a message. Write failures are returned to the caller unchanged.
func (h *EmitHandler) Handle(ctx context.Context, msg *webhook.Message) (*webhook.Response, error) {
	metrics.MessageReceived()

	res, err := h.emitter.Send(msg.Message)
	if err != nil {
		metrics.WriteFailed()
		h.logger.Error().Err(err).Str("source", msg.Source).Msg("failed to emit instruction")
		h.record(logging.JournalEntry{Outcome: "error", Source: msg.Source, Error: err.Error()})
		return nil, err
	}

	resp := &webhook.Response{
		Outcome: string(res.Outcome),
		Result:  res.Text,
	}

	entry := logging.JournalEntry{Outcome: string(res.Outcome), Source: msg.Source}

	switch res.Outcome {
	case bridge.OutcomeSent:
		metrics.InstructionSent()
		resp.ID = res.Instruction.ShortID()
		resp.File = res.Instruction.FileName()
		entry.ID = res.Instruction.ID
		entry.Instruction = res.Instruction.Payload.Instruction
		h.logger.Info().
			Str("id", resp.ID).
			Str("file", res.Path).
			Str("source", msg.Source).
			Msg("instruction sent")
	case bridge.OutcomeDisabled:
		metrics.BridgeDisabled()
		h.logger.Debug().Msg("bridge disabled, message ignored")
	case bridge.OutcomeNoTrigger:
		metrics.TriggerMissing()
	case bridge.OutcomeEmptyInstruction:
		metrics.InstructionEmpty()
		h.logger.Debug().Msg("trigger keyword without instruction")
	}

	h.record(entry)
	return resp, nil
}

func (h *EmitHandler) record(entry logging.JournalEntry) {
	if h.journal == nil {
		return
	}
	entry.Time = time.Now()
	if err := h.journal.Record(entry); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write journal entry")
	}
}
