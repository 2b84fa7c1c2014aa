package declaration

import (
	"errors"
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tsinline/internal/source"
)

var (
	// ErrKindMismatch indicates a node whose syntax kind disagrees with the requested declaration kind
	ErrKindMismatch = errors.New("declaration kind mismatch")

	// ErrUnsupportedKind indicates a node that is not one of the six transferable declarations
	ErrUnsupportedKind = errors.New("unsupported declaration kind")

	// ErrNoEnclosingStatement indicates a variable declaration outside a variable statement
	ErrNoEnclosingStatement = errors.New("variable declaration has no enclosing statement")
)

// syntaxKinds maps tree-sitter node kinds to declaration kinds.
var syntaxKinds = map[string]Kind{
	"variable_declarator":            KindVariable,
	"function_declaration":           KindFunction,
	"generator_function_declaration": KindFunction,
	"enum_declaration":               KindEnum,
	"class_declaration":              KindClass,
	"abstract_class_declaration":     KindClass,
	"interface_declaration":          KindInterface,
	"type_alias_declaration":         KindTypeAlias,
}

// Handle points at a declaration node inside a parsed unit. It is only valid until
// the unit is next mutated.
type Handle struct {
	Unit *source.Unit
	Node *sitter.Node
	Kind Kind
}

// NewHandle classifies node and returns a handle for it.
func NewHandle(u *source.Unit, node *sitter.Node) (Handle, error) {
	if node == nil {
		return Handle{}, fmt.Errorf("%w: nil node", ErrUnsupportedKind)
	}
	kind, ok := syntaxKinds[node.Kind()]
	if !ok {
		return Handle{}, fmt.Errorf("%w: %s", ErrUnsupportedKind, node.Kind())
	}
	return Handle{Unit: u, Node: node, Kind: kind}, nil
}

// Name returns the declared name, or the empty string for unnamed declarations.
func (h Handle) Name() string {
	if h.Node == nil {
		return ""
	}
	return h.Unit.NodeText(h.Node.ChildByFieldName("name"))
}

// expect checks the node itself, not the Kind field, so a hand-built Handle cannot
// make a reader misinterpret fields.
func (h Handle) expect(want Kind) error {
	if h.Unit == nil || h.Node == nil {
		return fmt.Errorf("%w: expected %s, got empty handle", ErrKindMismatch, want)
	}
	if got, ok := syntaxKinds[h.Node.Kind()]; !ok || got != want {
		return fmt.Errorf("%w: expected %s, got %s", ErrKindMismatch, want, h.Node.Kind())
	}
	return nil
}

// VariableHandle is a handle verified to point at a variable declarator.
type VariableHandle struct{ handle Handle }

// FunctionHandle is a handle verified to point at a function declaration.
type FunctionHandle struct{ handle Handle }

// EnumHandle is a handle verified to point at an enum declaration.
type EnumHandle struct{ handle Handle }

// ClassHandle is a handle verified to point at a class declaration.
type ClassHandle struct{ handle Handle }

// InterfaceHandle is a handle verified to point at an interface declaration.
type InterfaceHandle struct{ handle Handle }

// TypeAliasHandle is a handle verified to point at a type alias declaration.
type TypeAliasHandle struct{ handle Handle }

// AsVariable validates h as a variable declaration.
func AsVariable(h Handle) (VariableHandle, error) {
	if err := h.expect(KindVariable); err != nil {
		return VariableHandle{}, err
	}
	return VariableHandle{h}, nil
}

// AsFunction validates h as a function declaration.
func AsFunction(h Handle) (FunctionHandle, error) {
	if err := h.expect(KindFunction); err != nil {
		return FunctionHandle{}, err
	}
	return FunctionHandle{h}, nil
}

// AsEnum validates h as an enum declaration.
func AsEnum(h Handle) (EnumHandle, error) {
	if err := h.expect(KindEnum); err != nil {
		return EnumHandle{}, err
	}
	return EnumHandle{h}, nil
}

// AsClass validates h as a class declaration.
func AsClass(h Handle) (ClassHandle, error) {
	if err := h.expect(KindClass); err != nil {
		return ClassHandle{}, err
	}
	return ClassHandle{h}, nil
}

// AsInterface validates h as an interface declaration.
func AsInterface(h Handle) (InterfaceHandle, error) {
	if err := h.expect(KindInterface); err != nil {
		return InterfaceHandle{}, err
	}
	return InterfaceHandle{h}, nil
}

// AsTypeAlias validates h as a type alias declaration.
func AsTypeAlias(h Handle) (TypeAliasHandle, error) {
	if err := h.expect(KindTypeAlias); err != nil {
		return TypeAliasHandle{}, err
	}
	return TypeAliasHandle{h}, nil
}
