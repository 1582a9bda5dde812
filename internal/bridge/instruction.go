package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// ActionInstruct is the action tag carried by every instruction file.
	ActionInstruct = "instruct"

	// DefaultContext labels where the instruction came from.
	DefaultContext = "Sent from OWUI planning session"

	// InstructionsDir is the subdirectory of the bridge path holding instruction files.
	InstructionsDir = "instructions"

	// TimestampLayout is ISO-8601 local time with microseconds.
	TimestampLayout = "2006-01-02T15:04:05.000000"

	shortIDLen = 8
	fileExt    = ".json"
)

// Instruction is the document written for the watcher.
type Instruction struct {
	ID        string  `json:"id"`
	Timestamp string  `json:"timestamp"`
	Action    string  `json:"action"`
	Payload   Payload `json:"payload"`
}

// Payload carries the instruction text.
type Payload struct {
	Instruction string `json:"instruction"`
	Context     string `json:"context"`
}

// ShortID returns the first 8 characters of the ID, used as the file stem.
func (i *Instruction) ShortID() string {
	if len(i.ID) < shortIDLen {
		return i.ID
	}
	return i.ID[:shortIDLen]
}

// FileName returns the name the instruction is stored under.
func (i *Instruction) FileName() string {
	return i.ShortID() + fileExt
}

// Marshal encodes the instruction as 2-space indented JSON without HTML escaping.
func (i *Instruction) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(i); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ReadInstruction parses an instruction file.
func ReadInstruction(path string) (*Instruction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading instruction file: %w", err)
	}

	var inst Instruction
	if err := json.Unmarshal(data, &inst); err != nil {
		return nil, fmt.Errorf("parsing instruction file %s: %w", filepath.Base(path), err)
	}
	return &inst, nil
}

// ListPending returns the instructions currently waiting in dir, oldest first.
// Files that are not instruction documents are skipped. A missing directory
// yields an empty list.
func ListPending(dir string) ([]*Instruction, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading instructions directory: %w", err)
	}

	var pending []*Instruction
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != fileExt {
			continue
		}
		inst, err := ReadInstruction(filepath.Join(dir, name))
		if err != nil || inst.Action != ActionInstruct {
			continue
		}
		pending = append(pending, inst)
	}

	sort.SliceStable(pending, func(a, b int) bool {
		return pending[a].Timestamp < pending[b].Timestamp
	})
	return pending, nil
}
