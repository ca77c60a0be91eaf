package indexsync

import (
	"fmt"

	"github.com/syntrixbase/docsync/internal/indexsync/mapping"
	"github.com/syntrixbase/docsync/pkg/model"
)

// Mode selects how the coordinator talks to the index.
type Mode string

const (
	// ModeCommand issues insert/update/delete-by-id commands against a named index and type.
	ModeCommand Mode = "command"
	// ModeModel delegates to a document model that knows its own index mapping.
	ModeModel Mode = "model"
)

// DefaultComponent is the component name used when Config.Component is empty.
const DefaultComponent = "elasticsearch"

// IsValid checks if the mode is a known mode.
func (m Mode) IsValid() bool {
	switch m {
	case ModeCommand, ModeModel:
		return true
	default:
		return false
	}
}

// Config is the composition-time configuration of one synchronized record type.
type Config struct {
	// Mode defaults to ModeCommand.
	Mode Mode

	// Component names the CommandGateway to resolve from Components on every call.
	Component string
	// Components resolves command gateways by name (command mode).
	Components ComponentResolver
	// Index and Type are the command-mode target.
	Index string
	Type  string

	// Model is the model-mode document abstraction.
	Model ModelGateway

	// FieldMap selects and derives the indexed fields. Empty means all attributes.
	FieldMap mapping.FieldMap
}

func (c *Config) applyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeCommand
	}
	if c.Component == "" {
		c.Component = DefaultComponent
	}
}

// Validate checks that every setting required by the mode is present.
func (c Config) Validate() error {
	c.applyDefaults()

	switch c.Mode {
	case ModeCommand:
		if c.Index == "" || c.Type == "" {
			return fmt.Errorf("index and type must be set in %s mode: %w", ModeCommand, model.ErrConfig)
		}
		if c.Components == nil {
			return fmt.Errorf("a component resolver must be set in %s mode: %w", ModeCommand, model.ErrConfig)
		}
	case ModeModel:
		if c.Model == nil {
			return fmt.Errorf("a document model must be set in %s mode: %w", ModeModel, model.ErrConfig)
		}
	default:
		return fmt.Errorf("unknown mode %q: %w", c.Mode, model.ErrConfig)
	}
	return nil
}
