package metrics

import (
	"sync/atomic"
)

// Metrics tracks operational metrics.
type Metrics struct {
	MessagesReceived  uint64 `json:"messages_received"`
	InstructionsSent  uint64 `json:"instructions_sent"`
	BridgeDisabled    uint64 `json:"bridge_disabled"`
	TriggerMissing    uint64 `json:"trigger_missing"`
	InstructionsEmpty uint64 `json:"instructions_empty"`
	WriteFailures     uint64 `json:"write_failures"`
}

var global = &Metrics{}

// MessageReceived increments the count of messages received.
func MessageReceived() { atomic.AddUint64(&global.MessagesReceived, 1) }

// InstructionSent increments the count of instruction files written.
func InstructionSent() { atomic.AddUint64(&global.InstructionsSent, 1) }

// BridgeDisabled increments the count of messages declined because the bridge is off.
func BridgeDisabled() { atomic.AddUint64(&global.BridgeDisabled, 1) }

// TriggerMissing increments the count of messages without the trigger keyword.
func TriggerMissing() { atomic.AddUint64(&global.TriggerMissing, 1) }

// InstructionEmpty increments the count of triggered messages with nothing after the keyword.
func InstructionEmpty() { atomic.AddUint64(&global.InstructionsEmpty, 1) }

// WriteFailed increments the count of failed instruction writes.
func WriteFailed() { atomic.AddUint64(&global.WriteFailures, 1) }

// Get returns a snapshot of the current metrics.
func Get() Metrics {
	return Metrics{
		MessagesReceived:  atomic.LoadUint64(&global.MessagesReceived),
		InstructionsSent:  atomic.LoadUint64(&global.InstructionsSent),
		BridgeDisabled:    atomic.LoadUint64(&global.BridgeDisabled),
		TriggerMissing:    atomic.LoadUint64(&global.TriggerMissing),
		InstructionsEmpty: atomic.LoadUint64(&global.InstructionsEmpty),
		WriteFailures:     atomic.LoadUint64(&global.WriteFailures),
	}
}

// Reset resets all metrics to zero (useful for testing).
func Reset() {
	atomic.StoreUint64(&global.MessagesReceived, 0)
	atomic.StoreUint64(&global.InstructionsSent, 0)
	atomic.StoreUint64(&global.BridgeDisabled, 0)
	atomic.StoreUint64(&global.TriggerMissing, 0)
	atomic.StoreUint64(&global.InstructionsEmpty, 0)
	atomic.StoreUint64(&global.WriteFailures, 0)
}
