// Package bridge turns triggered chat messages into instruction files that an
// external watcher picks up from a shared directory.
package bridge

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/drewdunne/cursorbridge/internal/intent"
	"github.com/google/uuid"
	"github.com/moby/sys/atomicwriter"
)

// Messages returned for declined outcomes.
const (
	DisabledMessage = "Cursor bridge is disabled."
	emptyFormat     = "Please provide an instruction after %s"
	sentFormat      = "✓ **Instruction sent to Cursor**\n\n" +
		"**ID:** `%s`\n" +
		"**Instruction:** %s\n\n" +
		"The watcher will pick this up and Cursor will process it."
)

// Outcome classifies what Send did with a message.
type Outcome string

const (
	OutcomeDisabled         Outcome = "disabled"
	OutcomeNoTrigger        Outcome = "no_trigger"
	OutcomeEmptyInstruction Outcome = "empty_instruction"
	OutcomeSent             Outcome = "sent"
)

// Settings configures an Emitter. It is fixed for the emitter's lifetime.
type Settings struct {
	Enabled        bool
	TriggerKeyword string
}

// DefaultSettings returns the default settings: enabled, keyword "s2cursor".
func DefaultSettings() Settings {
	return Settings{
		Enabled:        true,
		TriggerKeyword: "s2cursor",
	}
}

// Result describes the outcome of a single Send.
type Result struct {
	Outcome Outcome

	// Text is the human-readable response. Empty for OutcomeNoTrigger.
	Text string

	// Instruction and Path are set only for OutcomeSent.
	Instruction *Instruction
	Path        string
}

// Emitter writes instruction files for messages containing the trigger keyword.
type Emitter struct {
	settings Settings
	trigger  *intent.Trigger
	dir      string
	now      func() time.Time
	newID    func() (uuid.UUID, error)
}

// Option configures the Emitter.
type Option func(*Emitter)

// WithClock sets the time source used for instruction timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Emitter) {
		e.now = now
	}
}

// WithIDSource sets the generator used for instruction IDs.
func WithIDSource(newID func() (uuid.UUID, error)) Option {
	return func(e *Emitter) {
		e.newID = newID
	}
}

// New creates an Emitter writing into the instructions subdirectory of bridgeDir.
func New(bridgeDir string, settings Settings, opts ...Option) *Emitter {
	e := &Emitter{
		settings: settings,
		trigger:  intent.NewTrigger(settings.TriggerKeyword),
		dir:      filepath.Join(bridgeDir, InstructionsDir),
		now:      time.Now,
		newID:    uuid.NewRandom,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Settings returns the emitter's settings.
func (e *Emitter) Settings() Settings {
	return e.settings
}

// Dir returns the directory instruction files are written to.
func (e *Emitter) Dir() string {
	return e.dir
}

// EnsureDir creates the instructions directory if it does not exist.
func (e *Emitter) EnsureDir() error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("creating instructions directory: %w", err)
	}
	return nil
}

// CheckDir reports whether instruction files can be written without creating
// anything. A missing directory is fine as long as its nearest existing
// ancestor is a directory.
func (e *Emitter) CheckDir() error {
	for dir := e.dir; ; dir = filepath.Dir(dir) {
		info, err := os.Stat(dir)
		switch {
		case err == nil && info.IsDir():
			return nil
		case err == nil:
			return fmt.Errorf("%s is not a directory", dir)
		case !os.IsNotExist(err):
			return fmt.Errorf("checking instructions directory: %w", err)
		}
		if parent := filepath.Dir(dir); parent == dir {
			return fmt.Errorf("no existing ancestor for %s", e.dir)
		}
	}
}

// Emit processes a message and returns the human-readable result.
// An empty string means the message did not contain the trigger keyword.
func (e *Emitter) Emit(message string) (string, error) {
	res, err := e.Send(message)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// Send processes a message. Only OutcomeSent has side effects: one directory
// creation and one atomically written file. Filesystem errors are returned as is.
func (e *Emitter) Send(message string) (*Result, error) {
	if !e.settings.Enabled {
		return &Result{Outcome: OutcomeDisabled, Text: DisabledMessage}, nil
	}

	parsed, ok := e.trigger.Parse(message)
	if !ok {
		return &Result{Outcome: OutcomeNoTrigger}, nil
	}

	if parsed.Empty() {
		return &Result{
			Outcome: OutcomeEmptyInstruction,
			Text:    fmt.Sprintf(emptyFormat, e.settings.TriggerKeyword),
		}, nil
	}

	id, err := e.newID()
	if err != nil {
		return nil, fmt.Errorf("generating instruction id: %w", err)
	}

	inst := &Instruction{
		ID:        id.String(),
		Timestamp: e.now().Format(TimestampLayout),
		Action:    ActionInstruct,
		Payload: Payload{
			Instruction: parsed.Instructions,
			Context:     DefaultContext,
		},
	}

	path, err := e.write(inst)
	if err != nil {
		return nil, err
	}

	return &Result{
		Outcome:     OutcomeSent,
		Text:        fmt.Sprintf(sentFormat, inst.ShortID(), inst.Payload.Instruction),
		Instruction: inst,
		Path:        path,
	}, nil
}

func (e *Emitter) write(inst *Instruction) (string, error) {
	if err := e.EnsureDir(); err != nil {
		return "", err
	}

	data, err := inst.Marshal()
	if err != nil {
		return "", fmt.Errorf("encoding instruction: %w", err)
	}

	path := filepath.Join(e.dir, inst.FileName())
	if err := atomicwriter.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing instruction file: %w", err)
	}

	return path, nil
}
