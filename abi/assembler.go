package abi

// Assembler accumulates ABI entries in discovery order. Type aliases and
// structs are unique by name: the first writer wins and later additions are
// no-ops. Once Document has been called the assembler is frozen.
type Assembler struct {
	version   string
	types     []TypeDef
	typeNames map[string]bool
	structs   []*Struct
	byName    map[string]*Struct
	actions   []Action
	tables    []Table
	frozen    bool
}

// NewAssembler creates an empty assembler for a document with the given
// version tag. An empty version selects DefaultVersion.
func NewAssembler(version string) *Assembler {
	if version == "" {
		version = DefaultVersion
	}
	return &Assembler{
		version:   version,
		typeNames: make(map[string]bool),
		byName:    make(map[string]*Struct),
	}
}

func (a *Assembler) mutate() {
	if a.frozen {
		panic("abi: assembler used after Document()")
	}
}

// AddType records an alias. It reports false when name was already recorded.
func (a *Assembler) AddType(name, typ string) bool {
	a.mutate()
	if a.typeNames[name] {
		return false
	}
	a.typeNames[name] = true
	a.types = append(a.types, TypeDef{NewTypeName: name, Type: typ})
	return true
}

// HasType reports whether an alias named name was recorded.
func (a *Assembler) HasType(name string) bool {
	return a.typeNames[name]
}

// ReserveStruct claims the slot for a struct named name at the current
// position and returns it for the caller to fill. ok is false, and the
// returned struct nil, when the name is already taken. Reserving before
// visiting a struct's field types is what stops mutually referencing
// classes from recursing forever.
func (a *Assembler) ReserveStruct(name string) (s *Struct, ok bool) {
	a.mutate()
	if _, taken := a.byName[name]; taken {
		return nil, false
	}
	s = &Struct{Name: name}
	a.byName[name] = s
	a.structs = append(a.structs, s)
	return s, true
}

// AddStruct records a complete struct. It reports false when the name was
// already taken.
func (a *Assembler) AddStruct(s Struct) bool {
	slot, ok := a.ReserveStruct(s.Name)
	if !ok {
		return false
	}
	*slot = s
	return true
}

// HasStruct reports whether a struct named name was reserved or added.
func (a *Assembler) HasStruct(name string) bool {
	_, ok := a.byName[name]
	return ok
}

// AddAction records an action.
func (a *Assembler) AddAction(act Action) {
	a.mutate()
	a.actions = append(a.actions, act)
}

// AddTable records a table.
func (a *Assembler) AddTable(t Table) {
	a.mutate()
	a.tables = append(a.tables, t)
}

// Document freezes the assembler and returns the finished document. The
// returned value shares nothing with the assembler.
func (a *Assembler) Document() *Document {
	a.frozen = true
	d := &Document{
		Version: a.version,
		Types:   a.types,
		Actions: a.actions,
		Tables:  a.tables,
		Structs: make([]Struct, 0, len(a.structs)),
	}
	if d.Types == nil {
		d.Types = []TypeDef{}
	}
	if d.Actions == nil {
		d.Actions = []Action{}
	}
	if d.Tables == nil {
		d.Tables = []Table{}
	}
	for _, s := range a.structs {
		if s.Fields == nil {
			s.Fields = []Field{}
		}
		d.Structs = append(d.Structs, *s)
	}
	return d.Clone()
}
