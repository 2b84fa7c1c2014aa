package declaration

import (
	"github.com/mvp-joe/tsinline/internal/source"
)

// resolveOrder is the lookup precedence when a name is declared more than once,
// for example a merged interface and class.
var resolveOrder = []Kind{KindVariable, KindFunction, KindClass, KindInterface, KindEnum, KindTypeAlias}

// Declarations lists the top-level declarations of u in source order. Exported
// declarations are unwrapped from their export statement and every binding of a
// variable statement is listed separately.
func Declarations(u *source.Unit) []Handle {
	var handles []Handle
	for _, stmt := range u.Statements() {
		node := stmt
		if node.Kind() == "export_statement" {
			node = node.ChildByFieldName("declaration")
			if node == nil {
				continue
			}
		}

		switch node.Kind() {
		case "lexical_declaration", "variable_declaration":
			for _, decl := range source.FindChildrenByType(node, "variable_declarator") {
				handles = append(handles, Handle{Unit: u, Node: decl, Kind: KindVariable})
			}
		default:
			if h, err := NewHandle(u, node); err == nil {
				handles = append(handles, h)
			}
		}
	}
	return handles
}

// Resolve finds the top-level declaration of name in u.
func Resolve(u *source.Unit, name string) (Handle, bool) {
	byKind := make(map[Kind]Handle)
	for _, h := range Declarations(u) {
		if h.Name() != name {
			continue
		}
		if _, seen := byKind[h.Kind]; !seen {
			byKind[h.Kind] = h
		}
	}

	for _, kind := range resolveOrder {
		if h, ok := byKind[kind]; ok {
			return h, true
		}
	}
	return Handle{}, false
}

// IsExported reports whether the statement holding h is an export statement.
func IsExported(h Handle) bool {
	n := h.Node
	for n != nil {
		if n.Kind() == "export_statement" {
			return true
		}
		if n.Kind() == "program" {
			return false
		}
		n = n.Parent()
	}
	return false
}
