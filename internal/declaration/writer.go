package declaration

import (
	"errors"
	"strings"

	"github.com/mvp-joe/tsinline/internal/source"
)

// DefaultIndentSize is the number of spaces per indentation level.
const DefaultIndentSize = 4

// Writer renders declaration descriptors as TypeScript and inserts them into a target unit.
type Writer struct {
	indentSize int
	newLine    string
	onSkip     func(h Handle, err error)
}

// Option configures a Writer.
type Option func(*Writer)

// WithIndentSize sets the number of spaces per indentation level.
func WithIndentSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.indentSize = n
		}
	}
}

// WithNewLine forces the line terminator. By default the target unit's terminator is used.
func WithNewLine(nl string) Option {
	return func(w *Writer) {
		w.newLine = nl
	}
}

// WithSkipHandler registers a callback for transfers that are skipped without an error,
// such as a variable declaration that is not part of a variable statement.
func WithSkipHandler(fn func(h Handle, err error)) Option {
	return func(w *Writer) {
		w.onSkip = fn
	}
}

// NewWriter creates a writer with 4-space indentation.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{indentSize: DefaultIndentSize}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Format renders d as the text of one top-level statement, using "\n" line endings.
func (w *Writer) Format(d Declaration) (string, error) {
	p := &printer{indent: strings.Repeat(" ", w.indentSize)}
	if err := d.Accept(p); err != nil {
		return "", err
	}
	return p.String(), nil
}

// Write inserts d into target as a new top-level statement at index.
func (w *Writer) Write(index int, d Declaration, target *source.Unit) error {
	text, err := w.Format(d)
	if err != nil {
		return err
	}

	nl := w.newLine
	if nl == "" {
		nl = target.NewLine()
	}
	if nl != "\n" {
		text = strings.ReplaceAll(text, "\n", nl)
	}

	block := d.Kind() != KindVariable && d.Kind() != KindTypeAlias
	return target.InsertStatement(index, text, block)
}

// TransferVariable copies the variable statement enclosing h into target. A declaration
// without an enclosing statement is skipped and reported to the skip handler.
func (w *Writer) TransferVariable(index int, h VariableHandle, target *source.Unit) error {
	v, err := ReadVariable(h)
	if errors.Is(err, ErrNoEnclosingStatement) {
		if w.onSkip != nil {
			w.onSkip(h.handle, err)
		}
		return nil
	}
	if err != nil {
		return err
	}
	return w.Write(index, v, target)
}

// TransferFunction copies a function declaration into target.
func (w *Writer) TransferFunction(index int, h FunctionHandle, target *source.Unit) error {
	return w.Write(index, ReadFunction(h), target)
}

// TransferEnum copies an enum declaration into target.
func (w *Writer) TransferEnum(index int, h EnumHandle, target *source.Unit) error {
	return w.Write(index, ReadEnum(h), target)
}

// TransferClass copies a class declaration into target.
func (w *Writer) TransferClass(index int, h ClassHandle, target *source.Unit) error {
	return w.Write(index, ReadClass(h), target)
}

// TransferInterface copies an interface declaration into target.
func (w *Writer) TransferInterface(index int, h InterfaceHandle, target *source.Unit) error {
	return w.Write(index, ReadInterface(h), target)
}

// TransferTypeAlias copies a type alias declaration into target.
func (w *Writer) TransferTypeAlias(index int, h TypeAliasHandle, target *source.Unit) error {
	return w.Write(index, ReadTypeAlias(h), target)
}

// Transfer validates h against its kind and dispatches to the matching transfer.
func (w *Writer) Transfer(index int, h Handle, target *source.Unit) error {
	switch h.Kind {
	case KindVariable:
		vh, err := AsVariable(h)
		if err != nil {
			return err
		}
		return w.TransferVariable(index, vh, target)
	case KindFunction:
		fh, err := AsFunction(h)
		if err != nil {
			return err
		}
		return w.TransferFunction(index, fh, target)
	case KindEnum:
		eh, err := AsEnum(h)
		if err != nil {
			return err
		}
		return w.TransferEnum(index, eh, target)
	case KindClass:
		ch, err := AsClass(h)
		if err != nil {
			return err
		}
		return w.TransferClass(index, ch, target)
	case KindInterface:
		ih, err := AsInterface(h)
		if err != nil {
			return err
		}
		return w.TransferInterface(index, ih, target)
	case KindTypeAlias:
		th, err := AsTypeAlias(h)
		if err != nil {
			return err
		}
		return w.TransferTypeAlias(index, th, target)
	}
	return ErrUnsupportedKind
}

// printer renders one declaration. It implements Visitor, so a new declaration shape
// does not compile until it can be printed.
type printer struct {
	strings.Builder
	indent string
}

var _ Visitor = (*printer)(nil)

func (p *printer) VisitVariable(v *Variable) error {
	p.WriteString(string(v.DeclarationKind))
	p.WriteString(" ")
	for i, d := range v.Declarations {
		if i > 0 {
			p.WriteString(", ")
		}
		p.WriteString(d.Name)
		writeTypeAndInitializer(&p.Builder, d.Type, d.Initializer)
	}
	p.WriteString(";")
	return nil
}

func (p *printer) VisitFunction(f *Function) error {
	for _, o := range f.Overloads {
		p.WriteString(o)
		p.WriteString("\n")
	}
	if f.IsAsync {
		p.WriteString("async ")
	}
	p.WriteString("function")
	if f.IsGenerator {
		p.WriteString("*")
	}
	p.WriteString(" ")
	p.WriteString(f.Name)
	p.writeSignature(f.TypeParameters, f.Parameters, f.ReturnType)
	p.WriteString(" ")
	p.writeBody(f.Statements, "")
	return nil
}

func (p *printer) VisitEnum(e *Enum) error {
	if e.IsConst {
		p.WriteString("const ")
	}
	p.WriteString("enum ")
	p.WriteString(e.Name)
	p.WriteString(" {\n")
	for i, m := range e.Members {
		p.WriteString(p.indent)
		p.WriteString(m.Name)
		if m.Initializer != "" {
			p.WriteString(" = ")
			p.WriteString(m.Initializer)
		}
		if i < len(e.Members)-1 {
			p.WriteString(",")
		}
		p.WriteString("\n")
	}
	p.WriteString("}")
	return nil
}

func (p *printer) VisitClass(c *Class) error {
	if c.IsAbstract {
		p.WriteString("abstract ")
	}
	p.WriteString("class ")
	p.WriteString(c.Name)
	writeTypeParameters(&p.Builder, c.TypeParameters)
	if c.Extends != "" {
		p.WriteString(" extends ")
		p.WriteString(c.Extends)
	}
	if len(c.Implements) > 0 {
		p.WriteString(" implements ")
		p.WriteString(strings.Join(c.Implements, ", "))
	}
	p.WriteString(" {\n")

	// members with a body are separated from their neighbours by a blank line
	var members []string
	var blocks []bool
	for _, prop := range c.Properties {
		members = append(members, p.property(prop))
		blocks = append(blocks, false)
	}
	for _, m := range c.Methods {
		members = append(members, p.method(m))
		blocks = append(blocks, !m.IsAbstract)
	}
	for _, ctor := range c.Constructors {
		members = append(members, p.constructor(ctor))
		blocks = append(blocks, true)
	}

	for i, m := range members {
		if i > 0 && (blocks[i] || blocks[i-1]) {
			p.WriteString("\n")
		}
		p.WriteString(p.indent)
		p.WriteString(m)
		p.WriteString("\n")
	}
	p.WriteString("}")
	return nil
}

func (p *printer) VisitInterface(i *Interface) error {
	p.WriteString("interface ")
	p.WriteString(i.Name)
	writeTypeParameters(&p.Builder, i.TypeParameters)
	if len(i.Extends) > 0 {
		p.WriteString(" extends ")
		p.WriteString(strings.Join(i.Extends, ", "))
	}
	p.WriteString(" {\n")

	member := func(text string) {
		p.WriteString(p.indent)
		p.WriteString(text)
		p.WriteString(";\n")
	}

	for _, prop := range i.Properties {
		var b strings.Builder
		if prop.IsReadonly {
			b.WriteString("readonly ")
		}
		b.WriteString(prop.Name)
		if prop.IsOptional {
			b.WriteString("?")
		}
		writeTypeAndInitializer(&b, prop.Type, "")
		member(b.String())
	}
	for _, m := range i.Methods {
		var b strings.Builder
		b.WriteString(m.Name)
		if m.IsOptional {
			b.WriteString("?")
		}
		writeSignature(&b, m.TypeParameters, m.Parameters, m.ReturnType)
		member(b.String())
	}
	for _, cs := range i.CallSignatures {
		var b strings.Builder
		writeSignature(&b, cs.TypeParameters, cs.Parameters, cs.ReturnType)
		member(b.String())
	}
	for _, cs := range i.ConstructSignatures {
		var b strings.Builder
		b.WriteString("new ")
		writeSignature(&b, cs.TypeParameters, cs.Parameters, cs.ReturnType)
		member(b.String())
	}
	for _, is := range i.IndexSignatures {
		var b strings.Builder
		if is.IsReadonly {
			b.WriteString("readonly ")
		}
		b.WriteString("[" + is.KeyName + ": " + is.KeyType + "]")
		writeTypeAndInitializer(&b, is.ReturnType, "")
		member(b.String())
	}
	p.WriteString("}")
	return nil
}

func (p *printer) VisitTypeAlias(t *TypeAlias) error {
	p.WriteString("type ")
	p.WriteString(t.Name)
	writeTypeParameters(&p.Builder, t.TypeParameters)
	p.WriteString(" = ")
	p.WriteString(t.Type)
	p.WriteString(";")
	return nil
}

func (p *printer) property(prop Property) string {
	var b strings.Builder
	writeScope(&b, prop.Scope)
	if prop.IsDeclare {
		b.WriteString("declare ")
	}
	if prop.IsStatic {
		b.WriteString("static ")
	}
	if prop.IsAbstract {
		b.WriteString("abstract ")
	}
	if prop.IsOverride {
		b.WriteString("override ")
	}
	if prop.IsReadonly {
		b.WriteString("readonly ")
	}
	b.WriteString(prop.Name)
	switch {
	case prop.IsOptional:
		b.WriteString("?")
	case prop.IsDefinite:
		b.WriteString("!")
	}
	writeTypeAndInitializer(&b, prop.Type, prop.Initializer)
	b.WriteString(";")
	return b.String()
}

func (p *printer) method(m Method) string {
	var b strings.Builder
	writeScope(&b, m.Scope)
	if m.IsStatic {
		b.WriteString("static ")
	}
	if m.IsAbstract {
		b.WriteString("abstract ")
	}
	if m.IsOverride {
		b.WriteString("override ")
	}
	if m.IsAsync {
		b.WriteString("async ")
	}
	if m.Accessor != "" {
		b.WriteString(m.Accessor + " ")
	}
	if m.IsGenerator {
		b.WriteString("*")
	}
	b.WriteString(m.Name)
	if m.IsOptional {
		b.WriteString("?")
	}
	writeSignature(&b, m.TypeParameters, m.Parameters, m.ReturnType)

	if m.IsAbstract {
		b.WriteString(";")
		return b.String()
	}

	sub := &printer{indent: p.indent}
	sub.writeBody(m.Statements, p.indent)
	b.WriteString(" ")
	b.WriteString(sub.String())
	return b.String()
}

func (p *printer) constructor(c Constructor) string {
	var b strings.Builder
	writeScope(&b, c.Scope)
	b.WriteString("constructor")
	writeTypeParameters(&b, c.TypeParameters)
	writeParameters(&b, c.Parameters)

	sub := &printer{indent: p.indent}
	sub.writeBody(c.Statements, p.indent)
	b.WriteString(" ")
	b.WriteString(sub.String())
	return b.String()
}

func (p *printer) writeSignature(typeParams []string, params []Parameter, returnType string) {
	writeSignature(&p.Builder, typeParams, params, returnType)
}

// writeBody writes a braced block whose closing brace sits at base indentation and
// whose statements sit one level deeper. An empty body is written as "{\n}".
func (p *printer) writeBody(stmts []Statement, base string) {
	p.WriteString("{\n")
	inner := base + p.indent
	for _, stmt := range stmts {
		for i, line := range strings.Split(stmt.Text, "\n") {
			if line != "" && !stmt.IsVerbatim(i) {
				p.WriteString(inner)
			}
			p.WriteString(line)
			p.WriteString("\n")
		}
	}
	p.WriteString(base)
	p.WriteString("}")
}

func writeSignature(b *strings.Builder, typeParams []string, params []Parameter, returnType string) {
	writeTypeParameters(b, typeParams)
	writeParameters(b, params)
	if returnType != "" {
		b.WriteString(": ")
		b.WriteString(returnType)
	}
}

func writeTypeParameters(b *strings.Builder, typeParams []string) {
	if len(typeParams) == 0 {
		return
	}
	b.WriteString("<")
	b.WriteString(strings.Join(typeParams, ", "))
	b.WriteString(">")
}

func writeParameters(b *strings.Builder, params []Parameter) {
	b.WriteString("(")
	for i, param := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		writeScope(b, param.Scope)
		if param.IsOverride {
			b.WriteString("override ")
		}
		if param.IsReadonly {
			b.WriteString("readonly ")
		}
		b.WriteString(param.Name)
		if param.IsOptional {
			b.WriteString("?")
		}
		writeTypeAndInitializer(b, param.Type, param.Initializer)
	}
	b.WriteString(")")
}

func writeScope(b *strings.Builder, scope Scope) {
	if scope != ScopeNone {
		b.WriteString(string(scope))
		b.WriteString(" ")
	}
}

func writeTypeAndInitializer(b *strings.Builder, typ, initializer string) {
	if typ != "" {
		b.WriteString(": ")
		b.WriteString(typ)
	}
	if initializer != "" {
		b.WriteString(" = ")
		b.WriteString(initializer)
	}
}
