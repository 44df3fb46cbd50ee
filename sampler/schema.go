package sampler

import "fmt"

// The kind of a registered shader output.
type OutputKind uint8

const (
	FloatOutput OutputKind = iota
	IntegerOutput
	PointOutput
	VectorOutput
	NormalOutput
	HPointOutput
	ColorOutput
	MatrixOutput
)

var outputKindNames = map[OutputKind]string{
	FloatOutput:   "float",
	IntegerOutput: "integer",
	PointOutput:   "point",
	VectorOutput:  "vector",
	NormalOutput:  "normal",
	HPointOutput:  "hpoint",
	ColorOutput:   "color",
	MatrixOutput:  "matrix",
}

// The number of float channels occupied by a value of this kind.
func (k OutputKind) Arity() int {
	switch k {
	case PointOutput, VectorOutput, NormalOutput, HPointOutput, ColorOutput:
		return 3
	case MatrixOutput:
		return 16
	}
	return 1
}

func (k OutputKind) String() string {
	if name, ok := outputKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("OutputKind(%d)", k)
}

// Parse an output kind name.
func ParseOutputKind(name string) (OutputKind, error) {
	for kind, kindName := range outputKindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return FloatOutput, fmt.Errorf("sampler: unknown output kind %q", name)
}

// An output definition as supplied by the scene description.
type OutputDef struct {
	Name string
	Kind OutputKind
}

// A registered output and its location inside a hit payload.
type OutputEntry struct {
	Name   string
	Kind   OutputKind
	Offset int
	Arity  int
}

// The Schema maps named shader outputs to fixed offsets inside a hit payload.
// Entries are laid out consecutively after the base channels in registration
// order. The zero value is an empty schema.
type Schema struct {
	entries []OutputEntry
	index   map[string]int
}

// Create a schema and register the supplied outputs.
func NewSchema(defs ...OutputDef) (*Schema, error) {
	s := &Schema{}
	for _, def := range defs {
		if _, err := s.Register(def.Name, def.Kind); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register a named output. Registering an existing name with the same kind
// returns the existing entry.
func (s *Schema) Register(name string, kind OutputKind) (OutputEntry, error) {
	if s.index == nil {
		s.index = make(map[string]int)
	}

	if idx, exists := s.index[name]; exists {
		entry := s.entries[idx]
		if entry.Kind != kind {
			return entry, fmt.Errorf("%w: %q registered as %s; requested %s", ErrOutputKindMismatch, name, entry.Kind, kind)
		}
		return entry, nil
	}

	entry := OutputEntry{
		Name:   name,
		Kind:   kind,
		Offset: s.Size(),
		Arity:  kind.Arity(),
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, entry)
	return entry, nil
}

// Lookup a registered output.
func (s *Schema) Lookup(name string) (OutputEntry, bool) {
	if s == nil {
		return OutputEntry{}, false
	}
	idx, ok := s.index[name]
	if !ok {
		return OutputEntry{}, false
	}
	return s.entries[idx], true
}

// Get the registered entries in registration order.
func (s *Schema) Entries() []OutputEntry {
	if s == nil {
		return nil
	}
	return s.entries
}

// Get the number of float channels required for a hit payload.
func (s *Schema) Size() int {
	if s == nil || len(s.entries) == 0 {
		return BaseChannels
	}
	last := s.entries[len(s.entries)-1]
	return last.Offset + last.Arity
}

// Get the output definitions that recreate this schema.
func (s *Schema) Defs() []OutputDef {
	defs := make([]OutputDef, 0, len(s.Entries()))
	for _, entry := range s.Entries() {
		defs = append(defs, OutputDef{Name: entry.Name, Kind: entry.Kind})
	}
	return defs
}
