package declaration

// Kind identifies one of the six declaration shapes that can be transferred.
type Kind int

const (
	KindVariable Kind = iota + 1
	KindFunction
	KindEnum
	KindClass
	KindInterface
	KindTypeAlias
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindEnum:
		return "enum"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindTypeAlias:
		return "type alias"
	default:
		return "unknown"
	}
}

// Declaration is a descriptor of one declaration, detached from any syntax tree.
// The set of implementations is closed: only the six types in this file satisfy it.
type Declaration interface {
	Kind() Kind
	Accept(v Visitor) error
	declaration()
}

// Visitor handles every declaration shape. Adding a shape adds a method here, which
// breaks every visitor at compile time until it handles the new shape.
type Visitor interface {
	VisitVariable(*Variable) error
	VisitFunction(*Function) error
	VisitEnum(*Enum) error
	VisitClass(*Class) error
	VisitInterface(*Interface) error
	VisitTypeAlias(*TypeAlias) error
}

// VariableKind is the keyword of a variable statement.
type VariableKind string

const (
	VariableConst VariableKind = "const"
	VariableLet   VariableKind = "let"
	VariableVar   VariableKind = "var"
)

// Scope is a member or parameter accessibility modifier. The empty scope means none was written.
type Scope string

const (
	ScopeNone      Scope = ""
	ScopePublic    Scope = "public"
	ScopeProtected Scope = "protected"
	ScopePrivate   Scope = "private"
)

// Variable is a variable statement with all of its co-declared bindings.
type Variable struct {
	DeclarationKind VariableKind      `json:"declarationKind"`
	Declarations    []VariableBinding `json:"declarations"`
}

// VariableBinding is one `name: Type = initializer` entry of a variable statement.
type VariableBinding struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Initializer string `json:"initializer,omitempty"`
}

// Parameter is a function, method, constructor or signature parameter.
// Scope, IsOverride and IsReadonly are only meaningful for constructor parameter properties.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Initializer string `json:"initializer,omitempty"`
	IsOptional  bool   `json:"isOptional,omitempty"`
	Scope       Scope  `json:"scope,omitempty"`
	IsOverride  bool   `json:"isOverride,omitempty"`
	IsReadonly  bool   `json:"isReadonly,omitempty"`
}

// Statement is the source text of one body statement. Continuation lines are
// relative to the statement's own column, except the lines listed in Verbatim:
// those start inside a string or template literal and are copied unchanged.
type Statement struct {
	Text     string `json:"text"`
	Verbatim []int  `json:"verbatim,omitempty"`
}

// IsVerbatim reports whether line i of the statement text must not be re-indented.
func (s Statement) IsVerbatim(i int) bool {
	for _, v := range s.Verbatim {
		if v == i {
			return true
		}
	}
	return false
}

// Function is a top-level function declaration.
type Function struct {
	Name           string      `json:"name"`
	TypeParameters []string    `json:"typeParameters,omitempty"`
	IsAsync        bool        `json:"isAsync,omitempty"`
	IsGenerator    bool        `json:"isGenerator,omitempty"`
	Parameters     []Parameter `json:"parameters"`
	ReturnType     string      `json:"returnType,omitempty"`
	Statements     []Statement `json:"statements"`
	// Overloads are the overload signatures written before the implementation, verbatim.
	Overloads []string `json:"overloads,omitempty"`
}

// EnumMember is one enum entry; Initializer is empty when the member has none.
type EnumMember struct {
	Name        string `json:"name"`
	Initializer string `json:"initializer,omitempty"`
}

// Enum is an enum declaration. Member order is significant.
type Enum struct {
	Name    string       `json:"name"`
	IsConst bool         `json:"isConst,omitempty"`
	Members []EnumMember `json:"members"`
}

// Property is a class property or an interface property signature.
type Property struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Initializer string `json:"initializer,omitempty"`
	IsOptional  bool   `json:"isOptional,omitempty"`
	IsReadonly  bool   `json:"isReadonly,omitempty"`
	IsStatic    bool   `json:"isStatic,omitempty"`
	IsAbstract  bool   `json:"isAbstract,omitempty"`
	IsOverride  bool   `json:"isOverride,omitempty"`
	IsDeclare   bool   `json:"isDeclare,omitempty"`
	IsDefinite  bool   `json:"isDefinite,omitempty"` // name!: T
	Scope       Scope  `json:"scope,omitempty"`
}

// Method is a class method. Abstract methods have no statements and no body.
type Method struct {
	Name           string      `json:"name"`
	TypeParameters []string    `json:"typeParameters,omitempty"`
	Parameters     []Parameter `json:"parameters"`
	ReturnType     string      `json:"returnType,omitempty"`
	Statements     []Statement `json:"statements,omitempty"`
	Scope          Scope       `json:"scope,omitempty"`
	IsStatic       bool        `json:"isStatic,omitempty"`
	IsAbstract     bool        `json:"isAbstract,omitempty"`
	IsOverride     bool        `json:"isOverride,omitempty"`
	IsOptional     bool        `json:"isOptional,omitempty"`
	IsAsync        bool        `json:"isAsync,omitempty"`
	IsGenerator    bool        `json:"isGenerator,omitempty"`
	Accessor       string      `json:"accessor,omitempty"` // "get", "set" or empty
}

// Constructor is a class constructor.
type Constructor struct {
	Parameters     []Parameter `json:"parameters"`
	Scope          Scope       `json:"scope"`
	TypeParameters []string    `json:"typeParameters,omitempty"`
	Statements     []Statement `json:"statements"`
}

// Class is a class declaration.
type Class struct {
	Name           string        `json:"name"`
	TypeParameters []string      `json:"typeParameters,omitempty"`
	IsAbstract     bool          `json:"isAbstract,omitempty"`
	Extends        string        `json:"extends,omitempty"`
	Implements     []string      `json:"implements,omitempty"`
	Properties     []Property    `json:"properties"`
	Methods        []Method      `json:"methods"`
	Constructors   []Constructor `json:"ctors"`
}

// MethodSignature is an interface method. It has no body by construction.
type MethodSignature struct {
	Name           string      `json:"name"`
	IsOptional     bool        `json:"isOptional,omitempty"`
	TypeParameters []string    `json:"typeParameters,omitempty"`
	Parameters     []Parameter `json:"parameters"`
	ReturnType     string      `json:"returnType,omitempty"`
}

// CallSignature is an interface call signature `(params): T`.
type CallSignature struct {
	TypeParameters []string    `json:"typeParameters,omitempty"`
	Parameters     []Parameter `json:"parameters"`
	ReturnType     string      `json:"returnType,omitempty"`
}

// ConstructSignature is an interface construct signature `new (params): T`.
type ConstructSignature struct {
	TypeParameters []string    `json:"typeParameters,omitempty"`
	Parameters     []Parameter `json:"parameters"`
	ReturnType     string      `json:"returnType,omitempty"`
}

// IndexSignature is an interface index signature `[key: K]: V`.
type IndexSignature struct {
	KeyName    string `json:"keyName"`
	KeyType    string `json:"keyType"`
	ReturnType string `json:"returnType"`
	IsReadonly bool   `json:"isReadonly,omitempty"`
}

// Interface is an interface declaration.
type Interface struct {
	Name                string               `json:"name"`
	TypeParameters      []string             `json:"typeParameters,omitempty"`
	Extends             []string             `json:"extends,omitempty"`
	IndexSignatures     []IndexSignature     `json:"indexSignatures"`
	CallSignatures      []CallSignature      `json:"callSignatures"`
	ConstructSignatures []ConstructSignature `json:"constructSignatures"`
	Methods             []MethodSignature    `json:"methods"`
	Properties          []Property           `json:"properties"`
}

// TypeAlias is a `type Name = T` declaration.
type TypeAlias struct {
	Name           string   `json:"name"`
	TypeParameters []string `json:"typeParameters,omitempty"`
	Type           string   `json:"type"`
}

func (*Variable) Kind() Kind  { return KindVariable }
func (*Function) Kind() Kind  { return KindFunction }
func (*Enum) Kind() Kind      { return KindEnum }
func (*Class) Kind() Kind     { return KindClass }
func (*Interface) Kind() Kind { return KindInterface }
func (*TypeAlias) Kind() Kind { return KindTypeAlias }

func (d *Variable) Accept(v Visitor) error  { return v.VisitVariable(d) }
func (d *Function) Accept(v Visitor) error  { return v.VisitFunction(d) }
func (d *Enum) Accept(v Visitor) error      { return v.VisitEnum(d) }
func (d *Class) Accept(v Visitor) error     { return v.VisitClass(d) }
func (d *Interface) Accept(v Visitor) error { return v.VisitInterface(d) }
func (d *TypeAlias) Accept(v Visitor) error { return v.VisitTypeAlias(d) }

func (*Variable) declaration()  {}
func (*Function) declaration()  {}
func (*Enum) declaration()      {}
func (*Class) declaration()     {}
func (*Interface) declaration() {}
func (*TypeAlias) declaration() {}
