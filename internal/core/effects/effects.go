// Package effects defines effect types as data structures representing I/O operations.
// Planners in internal/core produce effects; the executor in internal/app runs them.
// Effects are pure data - they describe what should happen, not how.
package effects

// File operations understood by the executor.
const (
	FileWrite       = "write"        // overwrite Path with Content
	FileDelete      = "delete"       // remove Path; missing is not an error
	FileAppendBlock = "append_block" // append "\n\n"+Content to Path
	FileRemoveBlock = "remove_block" // cut "\n\n"+Content out of Path; absent is not an error
)

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents a logging operation.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// PersistEffect represents a registry persistence operation.
type PersistEffect struct {
	Entity    string // e.g., "history"
	Operation string // e.g., "record"
	Data      any
}

func (e PersistEffect) EffectType() string { return "persist" }

// FileEffect represents a file system operation.
type FileEffect struct {
	Operation string // one of the File* constants
	Path      string
	Content   []byte
	Mode      uint32 // File permissions, for FileWrite
	Owner     string // dataset owning an appended block
}

func (e FileEffect) EffectType() string { return "file" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }
