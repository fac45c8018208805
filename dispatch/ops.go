package dispatch

// Op is one dispatcher instruction. The set of implementations is closed;
// consumers switch over the concrete types.
type Op interface {
	op()
	// Name is the stable discriminator used in the JSON form.
	Name() string
}

// NewInstance constructs the contract class and binds it to Bind.
type NewInstance struct {
	Class string `json:"class"`
	Bind  string `json:"bind"`
}

// OpenStream obtains the input byte stream of Instance and binds it to Bind.
type OpenStream struct {
	Instance string `json:"instance"`
	Bind     string `json:"bind"`
}

// Guard runs Body when the dispatched action's name equals Action.
type Guard struct {
	Action string `json:"action"`
	Body   []Op   `json:"-"`
}

// ReadString decodes a length-prefixed string.
type ReadString struct {
	Bind string `json:"bind"`
}

// ReadScalar decodes a fixed-width scalar of Type. ABIType is Type after
// alias resolution (uint64 for an alias of u64, say).
type ReadScalar struct {
	Bind    string `json:"bind"`
	Type    string `json:"type"`
	ABIType string `json:"abi_type"`
}

// ReadScalarVector decodes a length-prefixed vector of Elem scalars.
type ReadScalarVector struct {
	Bind string `json:"bind"`
	Elem string `json:"elem"`
}

// ReadStringVector decodes a length-prefixed vector of strings.
type ReadStringVector struct {
	Bind string `json:"bind"`
}

// ReadRecordVector decodes a length-prefixed vector of Elem records, each
// decoding itself.
type ReadRecordVector struct {
	Bind string `json:"bind"`
	Elem string `json:"elem"`
}

// ReadRecord allocates a zero Type and runs its own decode against the stream.
type ReadRecord struct {
	Bind string `json:"bind"`
	Type string `json:"type"`
}

// Invoke calls Method on Instance with the bound Args. An empty Result
// discards the return value.
type Invoke struct {
	Instance string   `json:"instance"`
	Method   string   `json:"method"`
	Args     []string `json:"args"`
	Result   string   `json:"result,omitempty"`
}

// ReplyU64 serializes Value as a 64-bit unsigned reply.
type ReplyU64 struct {
	Instance string `json:"instance"`
	Value    string `json:"value"`
}

// ReplyString serializes Value as a string reply.
type ReplyString struct {
	Instance string `json:"instance"`
	Value    string `json:"value"`
}

// ReplyBytes serializes the byte sequence underlying Value as a raw reply.
type ReplyBytes struct {
	Instance string `json:"instance"`
	Value    string `json:"value"`
}

func (NewInstance) op()      {}
func (OpenStream) op()       {}
func (Guard) op()            {}
func (ReadString) op()       {}
func (ReadScalar) op()       {}
func (ReadScalarVector) op() {}
func (ReadStringVector) op() {}
func (ReadRecordVector) op() {}
func (ReadRecord) op()       {}
func (Invoke) op()           {}
func (ReplyU64) op()         {}
func (ReplyString) op()      {}
func (ReplyBytes) op()       {}

func (NewInstance) Name() string      { return "new_instance" }
func (OpenStream) Name() string       { return "open_stream" }
func (Guard) Name() string            { return "guard" }
func (ReadString) Name() string       { return "read_string" }
func (ReadScalar) Name() string       { return "read_scalar" }
func (ReadScalarVector) Name() string { return "read_scalar_vector" }
func (ReadStringVector) Name() string { return "read_string_vector" }
func (ReadRecordVector) Name() string { return "read_record_vector" }
func (ReadRecord) Name() string       { return "read_record" }
func (Invoke) Name() string           { return "invoke" }
func (ReplyU64) Name() string         { return "reply_u64" }
func (ReplyString) Name() string      { return "reply_string" }
func (ReplyBytes) Name() string       { return "reply_bytes" }

// Routine is the dispatcher synthesized for one contract class: a preamble
// that constructs the contract and opens its stream, then one Guard per
// entry method.
type Routine struct {
	Contract string
	Body     []Op
}

// Guards returns the guard blocks of the routine in order.
func (r *Routine) Guards() []*Guard {
	var out []*Guard
	for _, op := range r.Body {
		if g, ok := op.(*Guard); ok {
			out = append(out, g)
		}
	}
	return out
}

// Bound returns the variable bound by a decode op, or "" for other ops.
func Bound(op Op) string {
	switch o := op.(type) {
	case *ReadString:
		return o.Bind
	case *ReadScalar:
		return o.Bind
	case *ReadScalarVector:
		return o.Bind
	case *ReadStringVector:
		return o.Bind
	case *ReadRecordVector:
		return o.Bind
	case *ReadRecord:
		return o.Bind
	default:
		return ""
	}
}
