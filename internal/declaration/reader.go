package declaration

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tsinline/internal/source"
)

// Read captures the declaration h points at as a descriptor.
// A variable declaration outside a variable statement returns ErrNoEnclosingStatement.
func Read(h Handle) (Declaration, error) {
	switch h.Kind {
	case KindVariable:
		vh, err := AsVariable(h)
		if err != nil {
			return nil, err
		}
		v, err := ReadVariable(vh)
		if err != nil {
			return nil, err
		}
		return v, nil
	case KindFunction:
		fh, err := AsFunction(h)
		if err != nil {
			return nil, err
		}
		return ReadFunction(fh), nil
	case KindEnum:
		eh, err := AsEnum(h)
		if err != nil {
			return nil, err
		}
		return ReadEnum(eh), nil
	case KindClass:
		ch, err := AsClass(h)
		if err != nil {
			return nil, err
		}
		return ReadClass(ch), nil
	case KindInterface:
		ih, err := AsInterface(h)
		if err != nil {
			return nil, err
		}
		return ReadInterface(ih), nil
	case KindTypeAlias:
		th, err := AsTypeAlias(h)
		if err != nil {
			return nil, err
		}
		return ReadTypeAlias(th), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, h.Kind)
}

// ReadVariable captures the variable statement enclosing h, including every binding
// declared alongside it.
func ReadVariable(h VariableHandle) (*Variable, error) {
	u := h.handle.Unit
	stmt := enclosingVariableStatement(h.handle.Node)
	if stmt == nil {
		return nil, ErrNoEnclosingStatement
	}

	kind := VariableVar
	if stmt.Kind() == "lexical_declaration" {
		kind = VariableKind(u.NodeText(stmt.ChildByFieldName("kind")))
	}

	v := &Variable{
		DeclarationKind: kind,
		Declarations:    []VariableBinding{},
	}
	for _, decl := range source.FindChildrenByType(stmt, "variable_declarator") {
		value := decl.ChildByFieldName("value")
		v.Declarations = append(v.Declarations, VariableBinding{
			Name:        u.NodeText(decl.ChildByFieldName("name")),
			Type:        RenderType(typeOf(u, decl.ChildByFieldName("type"), value, kind == VariableConst)),
			Initializer: u.NodeText(value),
		})
	}
	return v, nil
}

func enclosingVariableStatement(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	parent := node.Parent()
	if parent == nil {
		return nil
	}
	switch parent.Kind() {
	case "lexical_declaration", "variable_declaration":
		return parent
	}
	return nil
}

// ReadFunction captures a function declaration.
func ReadFunction(h FunctionHandle) *Function {
	u, n := h.handle.Unit, h.handle.Node
	body := n.ChildByFieldName("body")
	isAsync := source.HasToken(n, "async")
	isGenerator := n.Kind() == "generator_function_declaration"

	return &Function{
		Name:           u.NodeText(n.ChildByFieldName("name")),
		TypeParameters: readTypeParameters(u, n),
		IsAsync:        isAsync,
		IsGenerator:    isGenerator,
		Parameters:     readParameters(u, n.ChildByFieldName("parameters")),
		ReturnType:     RenderType(returnTypeOf(u, n, body, isAsync, isGenerator)),
		Statements:     readStatements(u, body),
		Overloads:      readOverloads(u, n),
	}
}

// readOverloads returns the top-level overload signatures of the function n that
// precede it.
func readOverloads(u *source.Unit, n *sitter.Node) []string {
	name := u.NodeText(n.ChildByFieldName("name"))

	var overloads []string
	for _, stmt := range u.Statements() {
		if stmt.StartByte() >= n.StartByte() {
			break
		}
		sig := stmt
		if sig.Kind() == "export_statement" {
			sig = sig.ChildByFieldName("declaration")
		}
		if sig == nil || sig.Kind() != "function_signature" || u.NodeText(sig.ChildByFieldName("name")) != name {
			continue
		}
		text := strings.TrimSpace(strings.ReplaceAll(u.NodeText(sig), "\r\n", "\n"))
		if !strings.HasSuffix(text, ";") {
			text += ";"
		}
		overloads = append(overloads, text)
	}
	return overloads
}

// ReadEnum captures an enum declaration with its members in source order.
func ReadEnum(h EnumHandle) *Enum {
	u, n := h.handle.Unit, h.handle.Node
	e := &Enum{
		Name:    u.NodeText(n.ChildByFieldName("name")),
		IsConst: source.HasToken(n, "const"),
		Members: []EnumMember{},
	}

	for _, m := range source.NamedChildren(n.ChildByFieldName("body")) {
		if m.Kind() != "enum_assignment" {
			e.Members = append(e.Members, EnumMember{Name: u.NodeText(m)})
			continue
		}
		name := m.ChildByFieldName("name")
		if name == nil {
			name = m.NamedChild(0)
		}
		e.Members = append(e.Members, EnumMember{
			Name:        u.NodeText(name),
			Initializer: u.NodeText(m.ChildByFieldName("value")),
		})
	}
	return e
}

// ReadClass captures a class declaration. Members are grouped into properties,
// methods and constructors, each group in source order. Index signatures, static
// blocks and method overload signatures are not captured.
func ReadClass(h ClassHandle) *Class {
	u, n := h.handle.Unit, h.handle.Node
	c := &Class{
		Name:           u.NodeText(n.ChildByFieldName("name")),
		TypeParameters: readTypeParameters(u, n),
		IsAbstract:     n.Kind() == "abstract_class_declaration",
		Properties:     []Property{},
		Methods:        []Method{},
		Constructors:   []Constructor{},
	}

	if heritage := source.FindChildByType(n, "class_heritage"); heritage != nil {
		if ext := source.FindChildByType(heritage, "extends_clause"); ext != nil {
			c.Extends = strings.TrimSpace(strings.TrimPrefix(u.NodeText(ext), "extends"))
		}
		if impl := source.FindChildByType(heritage, "implements_clause"); impl != nil {
			for _, t := range source.NamedChildren(impl) {
				c.Implements = append(c.Implements, u.NodeText(t))
			}
		}
	}

	for _, m := range source.NamedChildren(n.ChildByFieldName("body")) {
		switch m.Kind() {
		case "public_field_definition":
			c.Properties = append(c.Properties, readProperty(u, m))
		case "method_definition":
			if u.NodeText(m.ChildByFieldName("name")) == "constructor" {
				c.Constructors = append(c.Constructors, readConstructor(u, m))
			} else {
				c.Methods = append(c.Methods, readMethod(u, m))
			}
		case "abstract_method_signature":
			method := readMethod(u, m)
			method.IsAbstract = true
			c.Methods = append(c.Methods, method)
		}
	}
	return c
}

func readProperty(u *source.Unit, m *sitter.Node) Property {
	readonly := source.HasToken(m, "readonly")
	value := m.ChildByFieldName("value")
	return Property{
		Name:        u.NodeText(m.ChildByFieldName("name")),
		Type:        RenderType(typeOf(u, m.ChildByFieldName("type"), value, readonly)),
		Initializer: u.NodeText(value),
		IsOptional:  source.HasToken(m, "?"),
		IsReadonly:  readonly,
		IsStatic:    source.HasToken(m, "static"),
		IsAbstract:  source.HasToken(m, "abstract"),
		IsOverride:  source.FindChildByType(m, "override_modifier") != nil,
		IsDeclare:   source.HasToken(m, "declare"),
		IsDefinite:  source.HasToken(m, "!"),
		Scope:       memberScope(u, m),
	}
}

func readMethod(u *source.Unit, m *sitter.Node) Method {
	body := m.ChildByFieldName("body")
	isAsync := source.HasToken(m, "async")
	isGenerator := source.HasToken(m, "*")

	var accessor string
	switch {
	case source.HasToken(m, "get"):
		accessor = "get"
	case source.HasToken(m, "set"):
		accessor = "set"
	}

	// setters cannot carry a return type annotation
	var ret Type
	if accessor != "set" {
		ret = returnTypeOf(u, m, body, isAsync, isGenerator)
	}

	return Method{
		Name:           u.NodeText(m.ChildByFieldName("name")),
		TypeParameters: readTypeParameters(u, m),
		Parameters:     readParameters(u, m.ChildByFieldName("parameters")),
		ReturnType:     RenderType(ret),
		Statements:     readStatements(u, body),
		Scope:          memberScope(u, m),
		IsStatic:       source.HasToken(m, "static"),
		IsOverride:     source.FindChildByType(m, "override_modifier") != nil,
		IsOptional:     source.HasToken(m, "?"),
		IsAsync:        isAsync,
		IsGenerator:    isGenerator,
		Accessor:       accessor,
	}
}

func readConstructor(u *source.Unit, m *sitter.Node) Constructor {
	scope := Scope(u.NodeText(source.FindChildByType(m, "accessibility_modifier")))
	if scope == ScopeNone {
		scope = ScopePublic
	}
	return Constructor{
		Parameters:     readParameters(u, m.ChildByFieldName("parameters")),
		Scope:          scope,
		TypeParameters: readTypeParameters(u, m),
		Statements:     readStatements(u, m.ChildByFieldName("body")),
	}
}

// memberScope returns the written accessibility of a class member. Public is the
// default and is not recorded.
func memberScope(u *source.Unit, m *sitter.Node) Scope {
	scope := Scope(u.NodeText(source.FindChildByType(m, "accessibility_modifier")))
	if scope == ScopePublic {
		return ScopeNone
	}
	return scope
}

// ReadInterface captures an interface declaration.
func ReadInterface(h InterfaceHandle) *Interface {
	u, n := h.handle.Unit, h.handle.Node
	i := &Interface{
		Name:                u.NodeText(n.ChildByFieldName("name")),
		TypeParameters:      readTypeParameters(u, n),
		IndexSignatures:     []IndexSignature{},
		CallSignatures:      []CallSignature{},
		ConstructSignatures: []ConstructSignature{},
		Methods:             []MethodSignature{},
		Properties:          []Property{},
	}

	if ext := source.FindChildByType(n, "extends_type_clause"); ext != nil {
		for _, t := range source.NamedChildren(ext) {
			i.Extends = append(i.Extends, u.NodeText(t))
		}
	}

	for _, m := range source.NamedChildren(n.ChildByFieldName("body")) {
		switch m.Kind() {
		case "property_signature":
			i.Properties = append(i.Properties, Property{
				Name:       u.NodeText(m.ChildByFieldName("name")),
				Type:       RenderType(typeOf(u, m.ChildByFieldName("type"), nil, false)),
				IsOptional: source.HasToken(m, "?"),
				IsReadonly: source.HasToken(m, "readonly"),
			})
		case "method_signature":
			i.Methods = append(i.Methods, MethodSignature{
				Name:           u.NodeText(m.ChildByFieldName("name")),
				IsOptional:     source.HasToken(m, "?"),
				TypeParameters: readTypeParameters(u, m),
				Parameters:     readParameters(u, m.ChildByFieldName("parameters")),
				ReturnType:     RenderType(typeOf(u, m.ChildByFieldName("return_type"), nil, false)),
			})
		case "call_signature":
			i.CallSignatures = append(i.CallSignatures, CallSignature{
				TypeParameters: readTypeParameters(u, m),
				Parameters:     readParameters(u, m.ChildByFieldName("parameters")),
				ReturnType:     RenderType(typeOf(u, m.ChildByFieldName("return_type"), nil, false)),
			})
		case "construct_signature":
			i.ConstructSignatures = append(i.ConstructSignatures, ConstructSignature{
				TypeParameters: readTypeParameters(u, m),
				Parameters:     readParameters(u, m.ChildByFieldName("parameters")),
				ReturnType:     RenderType(typeOf(u, m.ChildByFieldName("type"), nil, false)),
			})
		case "index_signature":
			name := m.ChildByFieldName("name")
			if name == nil {
				// mapped type clause
				continue
			}
			i.IndexSignatures = append(i.IndexSignatures, IndexSignature{
				KeyName:    u.NodeText(name),
				KeyType:    u.NodeText(m.ChildByFieldName("index_type")),
				ReturnType: RenderType(typeOf(u, m.ChildByFieldName("type"), nil, false)),
				IsReadonly: source.HasToken(m, "readonly"),
			})
		}
	}
	return i
}

// ReadTypeAlias captures a type alias declaration.
func ReadTypeAlias(h TypeAliasHandle) *TypeAlias {
	u, n := h.handle.Unit, h.handle.Node
	return &TypeAlias{
		Name:           u.NodeText(n.ChildByFieldName("name")),
		TypeParameters: readTypeParameters(u, n),
		Type:           RenderType(typeOf(u, n.ChildByFieldName("value"), nil, false)),
	}
}

func readTypeParameters(u *source.Unit, n *sitter.Node) []string {
	var params []string
	for _, tp := range source.FindChildrenByType(n.ChildByFieldName("type_parameters"), "type_parameter") {
		params = append(params, u.NodeText(tp))
	}
	return params
}

func readParameters(u *source.Unit, params *sitter.Node) []Parameter {
	out := []Parameter{}
	for _, p := range source.NamedChildren(params) {
		if p.Kind() != "required_parameter" && p.Kind() != "optional_parameter" {
			continue
		}

		pattern := p.ChildByFieldName("pattern")
		annotation := p.ChildByFieldName("type")
		value := p.ChildByFieldName("value")

		t := typeOf(u, annotation, value, false)
		if annotation == nil && value == nil && pattern != nil && pattern.Kind() == "rest_pattern" {
			t = Type{Text: "any[]"}
		}

		out = append(out, Parameter{
			Name:        u.NodeText(pattern),
			Type:        RenderType(t),
			Initializer: u.NodeText(value),
			IsOptional:  p.Kind() == "optional_parameter",
			Scope:       Scope(u.NodeText(source.FindChildByType(p, "accessibility_modifier"))),
			IsOverride:  source.FindChildByType(p, "override_modifier") != nil,
			IsReadonly:  source.HasToken(p, "readonly"),
		})
	}
	return out
}

// readStatements returns the statements of a body as opaque text. Continuation lines
// are dedented by the statement's starting column so the writer can re-indent them;
// lines inside string and template literals keep their exact text.
func readStatements(u *source.Unit, body *sitter.Node) []Statement {
	if body == nil {
		return nil
	}

	stmts := []Statement{}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		n := body.NamedChild(uint(i))
		base := n.StartByte()
		var literals [][2]uint
		collectLiterals(n, func(lit *sitter.Node) {
			literals = append(literals, [2]uint{lit.StartByte() - base, lit.EndByte() - base})
		})
		stmts = append(stmts, dedent(u.NodeText(n), int(n.StartPosition().Column), literals))
	}
	return stmts
}

// collectLiterals calls fn for every outermost string or template literal under n.
func collectLiterals(n *sitter.Node, fn func(*sitter.Node)) {
	switch n.Kind() {
	case "template_string", "string":
		fn(n)
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil {
			collectLiterals(c, fn)
		}
	}
}

// dedent strips up to column leading blanks from every continuation line and trailing
// blanks from every line. Offsets in literals are byte ranges relative to text; a line
// starting inside one is left untouched and recorded as verbatim, a line ending inside
// one keeps its trailing blanks.
func dedent(text string, column int, literals [][2]uint) Statement {
	inside := func(off uint) bool {
		for _, r := range literals {
			if r[0] < off && off < r[1] {
				return true
			}
		}
		return false
	}

	stmt := Statement{}
	lines := strings.Split(text, "\n")
	var off uint
	for i, line := range lines {
		start := off
		end := start + uint(len(line))
		off = end + 1

		line = strings.TrimSuffix(line, "\r")
		if i > 0 && inside(start) {
			stmt.Verbatim = append(stmt.Verbatim, i)
			lines[i] = line
			continue
		}
		if !inside(end) {
			line = strings.TrimRight(line, " \t")
		}
		if i > 0 {
			n := 0
			for n < column && n < len(line) && (line[n] == ' ' || line[n] == '\t') {
				n++
			}
			line = line[n:]
		}
		lines[i] = line
	}
	stmt.Text = strings.Join(lines, "\n")
	return stmt
}

// returnTypeOf resolves the return type of a function-like node. Without an
// annotation the body is inspected: no value-returning `return` means void, and a
// single widened type shared by every returned value is used when one exists.
func returnTypeOf(u *source.Unit, n, body *sitter.Node, isAsync, isGenerator bool) Type {
	if rt := n.ChildByFieldName("return_type"); rt != nil {
		return annotationType(u, rt)
	}
	if body == nil {
		return anyType
	}
	if isGenerator {
		return Type{}
	}

	var returned []*sitter.Node
	bare := false
	source.WalkTree(body, func(c *sitter.Node) bool {
		switch c.Kind() {
		case "function_declaration", "generator_function_declaration", "function_expression",
			"generator_function", "arrow_function", "class_declaration", "class", "method_definition":
			return false
		case "return_statement":
			if values := source.NamedChildren(c); len(values) > 0 {
				returned = append(returned, values[0])
			} else {
				bare = true
			}
			return false
		}
		return true
	})

	if len(returned) == 0 {
		if isAsync {
			return Type{Text: "Promise<void>"}
		}
		return Type{Text: "void"}
	}
	if bare {
		return Type{}
	}

	var text string
	for _, r := range returned {
		t := inferType(u, r, false)
		if t.Text == "" || (text != "" && t.Text != text) {
			return Type{}
		}
		text = t.Text
	}
	if isAsync {
		return Type{Text: "Promise<" + text + ">"}
	}
	return Type{Text: text}
}
