package spec

// Kind is the interaction pattern of a channel.
type Kind string

const (
	// KindBroadcast fires to one or more listeners without a reply.
	KindBroadcast Kind = "Broadcast"
	// KindUnicast has a single handler whose return value is sent back.
	KindUnicast Kind = "Unicast"
	// KindPort hands a pair of duplex MessagePorts to two renderers.
	KindPort Kind = "Port"
)

// Direction is the process pair a channel flows between.
type Direction string

const (
	// RendererToMain flows from a renderer process to the main process.
	RendererToMain Direction = "RendererToMain"
	// MainToRenderer flows from the main process to a renderer process.
	MainToRenderer Direction = "MainToRenderer"
	// RendererToRenderer connects two renderer processes directly.
	RendererToRenderer Direction = "RendererToRenderer"
)

// Kinds lists every channel kind in declaration order.
var Kinds = []Kind{KindBroadcast, KindUnicast, KindPort}

// Directions lists every channel direction in declaration order.
var Directions = []Direction{RendererToMain, MainToRenderer, RendererToRenderer}

// ParseKind maps a kind keyword to its Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// ParseDirection maps a direction keyword to its Direction.
func ParseDirection(s string) (Direction, bool) {
	for _, d := range Directions {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// Param is a single parameter of a channel signature.
type Param struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Rest     bool   `json:"rest"`
	Optional bool   `json:"optional"`
}

// Signature is the function type declared for a channel.
type Signature struct {
	Definition string `json:"definition"`
	// TypeParams is the generic parameter list including its angle
	// brackets, e.g. "<T>". Empty for non-generic signatures.
	TypeParams  string   `json:"typeParams"`
	Params      []Param  `json:"params"`
	ReturnType  string   `json:"returnType"`
	Async       bool     `json:"async"`
	CustomTypes []string `json:"customTypes"`
}

// ChannelSpec is one Channel(...) declaration found in a schema module.
// Fields stay zero when the declaration was malformed; the validator
// reports them.
type ChannelSpec struct {
	Name      string     `json:"name"`
	Kind      Kind       `json:"kind"`
	Direction Direction  `json:"direction"`
	Signature *Signature `json:"signature,omitempty"`
	Listeners []string   `json:"listeners,omitempty"`
	Trigger   string     `json:"trigger,omitempty"`
}

// ListenerNames returns the subscription callable names generated for the
// channel: the explicit overrides when present, otherwise on<Name>.
func (c ChannelSpec) ListenerNames() []string {
	if len(c.Listeners) > 0 {
		return c.Listeners
	}
	return []string{"on" + c.Name}
}

// TypeKind distinguishes interface declarations from type aliases.
type TypeKind string

const (
	TypeKindInterface TypeKind = "interface"
	TypeKindAlias     TypeKind = "type"
)

// TypeSpec is a top-level interface or type alias declared in a schema module.
type TypeSpec struct {
	Name       string   `json:"name"`
	Kind       TypeKind `json:"kind"`
	Generics   string   `json:"generics,omitempty"`
	IsExported bool     `json:"isExported"`
}

// ImportSpec is a top-level import declaration of a schema module.
type ImportSpec struct {
	FromPath    string   `json:"fromPath"`
	CustomTypes []string `json:"customTypes"`
	Namespace   string   `json:"namespace,omitempty"`

	// Aliases maps a local binding name to the exported name it aliases,
	// for specifiers written as `Exported as Local`.
	Aliases map[string]string `json:"aliases,omitempty"`
}

// SpecsCollection is everything extracted from one schema module.
type SpecsCollection struct {
	ChannelSpecs []ChannelSpec `json:"channelSpecs"`
	TypeSpecs    []TypeSpec    `json:"typeSpecs"`
	ImportSpecs  []ImportSpec  `json:"importSpecs"`
}

// ParsedFileSpecs ties a SpecsCollection to the module it came from.
type ParsedFileSpecs struct {
	FullPath     string          `json:"fullPath"`
	RelativePath string          `json:"relativePath"`
	Specs        SpecsCollection `json:"specs"`
}

// Corpus is the set of parsed schema modules of one generation run.
type Corpus []ParsedFileSpecs

// ChannelCount returns the number of channels across the corpus.
func (c Corpus) ChannelCount() int {
	n := 0
	for _, pfs := range c {
		n += len(pfs.Specs.ChannelSpecs)
	}
	return n
}
