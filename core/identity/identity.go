package identity

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DefaultField is the document field holding the persistent identifier.
const DefaultField = "uuid"

// Assigner reads persistent identifiers from JSON documents and assigns new
// ones to documents that have none, writing them back to their files.
type Assigner struct {
	fs       afero.Fs
	field    string
	generate func() string
}

// Option customizes an Assigner.
type Option func(*Assigner)

// WithField sets the identifier field name.
func WithField(field string) Option {
	return func(a *Assigner) {
		a.field = field
	}
}

// WithGenerator replaces the UUID generator.
func WithGenerator(generate func() string) Option {
	return func(a *Assigner) {
		a.generate = generate
	}
}

// NewAssigner creates an Assigner operating on fs.
func NewAssigner(fs afero.Fs, opts ...Option) *Assigner {
	a := &Assigner{
		fs:       fs,
		field:    DefaultField,
		generate: uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Field returns the identifier field name.
func (a *Assigner) Field() string {
	return a.field
}

// ErrInvalidIdentifier is returned when the identifier field holds a value
// that cannot serve as an identifier (boolean, object or array).
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ReadIdentifier returns the identifier stored in doc, if any.
// A non-empty string is returned as is and a number as its literal text.
// A missing, null or empty field means there is no identifier yet.
func (a *Assigner) ReadIdentifier(doc []byte) (string, bool, error) {
	res := gjson.GetBytes(doc, a.field)
	switch res.Type {
	case gjson.Null:
		return "", false, nil
	case gjson.String:
		if res.Str == "" {
			return "", false, nil
		}
		return res.Str, true, nil
	case gjson.Number:
		return res.Raw, true, nil
	default:
		return "", false, fmt.Errorf("%w: field %s holds %s", ErrInvalidIdentifier, a.field, res.Raw)
	}
}

// AssignAndPersist generates a new identifier, patches it into doc and writes
// the patched document to path. The rest of the document, key order
// included, is left as it was.
func (a *Assigner) AssignAndPersist(path string, doc []byte) (string, []byte, error) {
	id := a.generate()

	patched, err := sjson.SetBytes(doc, a.field, id)
	if err != nil {
		return "", nil, fmt.Errorf("failed to set identifier in %s: %w", path, err)
	}

	perm := os.FileMode(0o644)
	if info, err := a.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	if err := afero.WriteFile(a.fs, path, patched, perm); err != nil {
		return "", nil, fmt.Errorf("failed to persist identifier to %s: %w", path, err)
	}

	return id, patched, nil
}

// Ensure reads the document at path and returns its identifier, assigning
// and persisting a new one first if it has none. The returned document
// always contains the identifier.
func (a *Assigner) Ensure(path string) (string, []byte, error) {
	doc, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !gjson.ValidBytes(doc) {
		return "", nil, fmt.Errorf("failed to parse %s: invalid JSON", path)
	}

	id, ok, err := a.ReadIdentifier(doc)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", path, err)
	}
	if ok {
		return id, doc, nil
	}

	return a.AssignAndPersist(path, doc)
}
