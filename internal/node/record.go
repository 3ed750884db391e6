package node

// ID identifies a record within one Registry. Zero is the sentinel.
type ID uint32

// NoID is the absent reference.
const NoID ID = 0

// IsValid returns true if the ID is non-zero.
func (id ID) IsValid() bool { return id != NoID }

// Param is one key="value" pair of a custom block.
type Param struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Params keeps custom block parameters in source order.
type Params []Param

// Get returns the first value stored under key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	if len(p) == 0 {
		return nil
	}
	out := make(Params, len(p))
	copy(out, p)
	return out
}

// Record is the single storage representation for every node.
// Which payload fields are meaningful depends on Kind.
type Record struct {
	ID       ID    `yaml:"id"`
	Kind     Kind  `yaml:"kind"`
	Stage    Stage `yaml:"stage"`
	Children []ID  `yaml:"children,omitempty"`

	// Page is the source page whose text Begin/End index.
	Page  ID  `yaml:"page,omitempty"`
	Begin int `yaml:"begin,omitempty"`
	End   int `yaml:"end,omitempty"`
	// Head is the length of a compound's own opening text; its children
	// tile [Begin+Head, End).
	Head int `yaml:"head,omitempty"`

	Level     int    `yaml:"level,omitempty"`
	Name      string `yaml:"name,omitempty"`
	Text      string `yaml:"text,omitempty"`
	Link      string `yaml:"link,omitempty"`
	Params    Params `yaml:"params,omitempty"`
	Ref       ID     `yaml:"ref,omitempty"`
	Synthetic bool   `yaml:"synthetic,omitempty"`

	// Rebuilt from Children on load.
	Owner ID  `yaml:"-"`
	Index int `yaml:"-"`
}

// Len returns the span length.
func (r *Record) Len() int {
	return r.End - r.Begin
}

// Inner returns where the children of r begin.
func (r *Record) Inner() int {
	return r.Begin + r.Head
}

// payload copies the kind-specific fields of r, leaving identity and tree
// links zero.
func (r *Record) payload() Record {
	return Record{
		Kind:      r.Kind,
		Stage:     r.Stage,
		Page:      r.Page,
		Begin:     r.Begin,
		End:       r.End,
		Head:      r.Head,
		Level:     r.Level,
		Name:      r.Name,
		Text:      r.Text,
		Link:      r.Link,
		Params:    r.Params.Clone(),
		Ref:       r.Ref,
		Synthetic: r.Synthetic,
	}
}

// Derive returns a new record template carrying r's payload with kind and
// stage replaced and Ref pointing back at r. Containers start at the end of
// their head and grow as children are added.
func (r *Record) Derive(kind Kind, stage Stage) Record {
	out := r.payload()
	out.Kind = kind
	out.Stage = stage
	out.Ref = r.ID
	if len(r.Children) > 0 {
		out.End = out.Begin + out.Head
	}
	return out
}
