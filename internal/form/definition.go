// internal/form/definition.go
//
// Forms subsystem: YAML definition loader.
//
// Context
//   Each HTML form the web client renders is declared in a YAML file.  This
//   file defines the form's identifier, title, and fields.  At start-up we
//   parse every "*.yaml" under the embedded forms directory into a Registry;
//   page components fetch definitions from it by ID ("auth/login").
//
// Workflow
//   •  Structs mirror the YAML schema: Definition → Field → Option.
//   •  Parse decodes one file and validates structural rules, including
//      that every "rules" tag is known to the validator.
//   •  Registry.LoadFS walks an fs.FS and registers each definition.
//   •  Registry.Get offers read-only access by ID.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// Kind selects the input control.
type Kind string

const (
	KindText     Kind = "text"
	KindPassword Kind = "password"
	KindSelect   Kind = "select"
	KindSearch   Kind = "search"
	KindDate     Kind = "date"
)

func (k Kind) valid() bool {
	switch k {
	case KindText, KindPassword, KindSelect, KindSearch, KindDate:
		return true
	}
	return false
}

// Option is one entry of a select or search list.  Detail is shown after the
// name in search suggestions ("Jane Doe - (artist)").
type Option struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Detail string `yaml:"detail"`
}

// Field describes a single input control.
type Field struct {
	Name         string            `yaml:"name"`        // Submission key.  Required.
	Label        string            `yaml:"label"`       // Human-readable label.  Required.
	Kind         Kind              `yaml:"kind"`        // text, password, select, search, date.
	Input        string            `yaml:"input"`       // HTML type for text fields (email, tel).  Optional.
	Placeholder  string            `yaml:"placeholder"` // Optional placeholder text.
	Required     bool              `yaml:"required"`    // Adds the "required" rule.
	Disabled     bool              `yaml:"disabled"`    // Rendered read-only; never bound.
	ErrorMessage string            `yaml:"error"`       // Fixed message shown on any error.
	Multiline    bool              `yaml:"multiline"`   // Text only: render a textarea.
	Rows         int               `yaml:"rows"`        // Textarea rows.
	Options      []Option          `yaml:"options"`     // Static select/search list.
	Rules        string            `yaml:"rules"`       // validator tag, e.g. "email,max=120".
	Match        string            `yaml:"match"`       // Must equal the named field.
	Messages     map[string]string `yaml:"messages"`    // Per-rule text keyed by tag.
}

// Definition is one form loaded from YAML.  ID is namespaced by component,
// e.g. "auth/login".
type Definition struct {
	ID     string  `yaml:"id"`
	Title  string  `yaml:"title"`
	Submit string  `yaml:"submit"` // Button label.
	Fields []Field `yaml:"fields"`
}

// Field returns the named field.
func (d *Definition) Field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// -----------------------------------------------------------------------------
// Registry
// -----------------------------------------------------------------------------

// Registry maps form ID → *Definition.  Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Get returns a definition by ID.
func (r *Registry) Get(id string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.defs[id]
	return d, ok
}

// MustGet is Get for IDs compiled into the binary.
func (r *Registry) MustGet(id string) *Definition {
	d, ok := r.Get(id)
	if !ok {
		panic("form: unknown form " + id)
	}
	return d
}

// Register validates d and inserts it, replacing any form with the same ID.
func (r *Registry) Register(d *Definition) error {
	if err := validateDefinition(d, d.ID); err != nil {
		return err
	}
	r.mu.Lock()
	r.defs[d.ID] = d
	r.mu.Unlock()
	return nil
}

// LoadFS registers every "*.yaml" under root in fsys.
func (r *Registry) LoadFS(fsys fs.FS, root string) error {
	return fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || path.Ext(p) != ".yaml" {
			return nil
		}
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read form file %s: %w", p, err)
		}
		def, err := Parse(raw, p)
		if err != nil {
			return err // fail fast so issues surface loudly.
		}
		r.mu.Lock()
		r.defs[def.ID] = def
		r.mu.Unlock()
		return nil
	})
}

// Parse decodes one YAML document and validates it.  name is used in error
// messages only.
func Parse(raw []byte, name string) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse YAML %s: %w", name, err)
	}
	if err := validateDefinition(&d, name); err != nil {
		return nil, err
	}
	return &d, nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

func validateDefinition(d *Definition, name string) error {
	if d.ID == "" {
		return fmt.Errorf("form definition %s: missing required 'id'", name)
	}
	if len(d.Fields) == 0 {
		return fmt.Errorf("form definition %s: must have 'fields'", name)
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for i := range d.Fields {
		f := &d.Fields[i]
		if f.Kind == "" {
			f.Kind = KindText
		}
		if err := validateField(f, name); err != nil {
			return err
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	for _, f := range d.Fields {
		if _, ok := seen[f.Match]; f.Match != "" && !ok {
			return fmt.Errorf("form %s: field '%s' matches unknown field '%s'", name, f.Name, f.Match)
		}
	}
	return nil
}

func validateField(f *Field, name string) error {
	if f.Name == "" {
		return fmt.Errorf("form %s: field missing 'name'", name)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", name, f.Name)
	}
	if !f.Kind.valid() {
		return fmt.Errorf("form %s: field '%s' has unknown kind %q", name, f.Name, f.Kind)
	}
	if f.Rows < 0 {
		return fmt.Errorf("form %s: field '%s' rows cannot be negative", name, f.Name)
	}
	if err := checkRules(f.Rules); err != nil {
		return fmt.Errorf("form %s: field '%s': %w", name, f.Name, err)
	}
	return nil
}

// checkRules runs the tag once against an empty value.  The validator panics
// on unknown tags, so the panic is turned into an error here rather than on
// the first real submit.
func checkRules(rules string) (err error) {
	if strings.TrimSpace(rules) == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprint("invalid rules: ", r))
		}
	}()
	_ = validate.Var("", rules)
	return nil
}
