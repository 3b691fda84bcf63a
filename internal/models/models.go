// Package models defines the core data types for shell context composition.
package models

import (
	"encoding/json"
	"fmt"

	"github.com/go-ports/frs/internal/buildinfo"
)

// Placeholder is the marker substring inside a context template denoting
// where the caller's final command is inserted at run time. Every template
// contains exactly one occurrence at every point in a context's lifecycle.
const Placeholder = "(((( echo 'frs placeholder' ))))"

// DefaultNamespace is the namespace assigned to contexts that were never
// explicitly saved. The (default, default) pair addresses the anonymous base
// context and is reachable only through the session identity, never through
// an explicit save or load.
const DefaultNamespace = "default"

// StepLogEntry records one composition operation applied to a context.
type StepLogEntry struct {
	// Description is the full literal record of the operation and its
	// arguments, kept for audit and debugging.
	Description string `json:"description"`
	// Prompt is a short human-facing summary shown in compact views.
	// Nil when the operation should not appear there.
	Prompt *string `json:"prompt,omitempty"`
}

// Metadata carries the identity and provenance of a context.
type Metadata struct {
	Namespace string         `json:"namespace"`
	Name      string         `json:"name"`
	IsDirty   bool           `json:"is_dirty"`
	StepLog   []StepLogEntry `json:"step_log"`
}

// Context is the full composable state flowing through operations: identity
// and provenance, an accumulated display snapshot of environment variables,
// and the shell template the final command is substituted into.
type Context struct {
	Meta     Metadata          `json:"meta"`
	Env      map[string]string `json:"env"`
	Template string            `json:"template"`
}

// Base returns a fresh anonymous context: clean, empty step log, template
// consisting of just the placeholder, and the tool version recorded in the
// environment snapshot.
func Base() *Context {
	return &Context{
		Meta: Metadata{
			Namespace: DefaultNamespace,
			Name:      DefaultNamespace,
			StepLog:   make([]StepLogEntry, 0),
		},
		Env: map[string]string{
			"FRS_VERSION": buildinfo.Version,
		},
		Template: Placeholder,
	}
}

// Clone returns a deep copy. Composition operations mutate copies so every
// step yields an independent snapshot.
func (c *Context) Clone() *Context {
	out := &Context{
		Meta: Metadata{
			Namespace: c.Meta.Namespace,
			Name:      c.Meta.Name,
			IsDirty:   c.Meta.IsDirty,
			StepLog:   make([]StepLogEntry, len(c.Meta.StepLog)),
		},
		Env:      make(map[string]string, len(c.Env)),
		Template: c.Template,
	}
	for i, step := range c.Meta.StepLog {
		out.Meta.StepLog[i] = StepLogEntry{Description: step.Description}
		if step.Prompt != nil {
			p := *step.Prompt
			out.Meta.StepLog[i].Prompt = &p
		}
	}
	for k, v := range c.Env {
		out.Env[k] = v
	}
	return out
}

// DisplayName renders the context identity as shown to users: the bare name
// for the default namespace, "namespace::name" otherwise.
func (c *Context) DisplayName() string {
	if c.Meta.Namespace == DefaultNamespace {
		return c.Meta.Name
	}
	return c.Meta.Namespace + "::" + c.Meta.Name
}

// Encode serialises a context to its persisted record form.
func Encode(c *Context) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("models.Encode: %w", err)
	}
	return data, nil
}

// Decode parses a persisted record back into a context.
// Decode(Encode(c)) reproduces c field for field, including step-log order
// and presence or absence of optional prompts.
func Decode(data []byte) (*Context, error) {
	var c Context
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("models.Decode: %w", err)
	}
	if c.Meta.StepLog == nil {
		c.Meta.StepLog = make([]StepLogEntry, 0)
	}
	if c.Env == nil {
		c.Env = make(map[string]string)
	}
	return &c, nil
}
