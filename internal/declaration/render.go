package declaration

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/mvp-joe/tsinline/internal/source"
)

// Type is the type attached to a declaration, property or parameter, as far as it
// can be known without a type checker. A zero Type is unknown: the target infers
// it from the copied initializer.
type Type struct {
	Text      string
	Literal   bool // the type denotes exactly one value, such as `1` or `"a"`
	Inferable bool // the declaration carries an initializer the type can be inferred from
}

// anyType is the implicit type of an unannotated binding without an initializer.
var anyType = Type{Text: "any"}

// RenderType returns the text a type annotation is written with. Literal types of
// declarations with an initializer render empty, so the annotation is dropped and the
// copied initializer determines the type. Without an initializer there is nothing to
// infer from (type aliases, interface members, return types) and literal types are
// written verbatim. Every reader path goes through this function.
func RenderType(t Type) string {
	if t.Literal && t.Inferable {
		return ""
	}
	return t.Text
}

// typeOf resolves the type of a binding from its annotation and initializer.
// keepLiteral is set for bindings whose inferred type is not widened: `const`
// variables and `readonly` properties.
func typeOf(u *source.Unit, annotation, value *sitter.Node, keepLiteral bool) Type {
	var t Type
	switch {
	case annotation != nil:
		t = annotationType(u, annotation)
	case value != nil:
		t = inferType(u, value, keepLiteral)
	default:
		return anyType
	}
	t.Inferable = value != nil
	return t
}

// annotationType reads a `: T` annotation node, or a bare type node.
func annotationType(u *source.Unit, annotation *sitter.Node) Type {
	typeNode := annotation
	if annotation.Kind() == "type_annotation" {
		if children := source.NamedChildren(annotation); len(children) > 0 {
			typeNode = children[0]
		}
	}

	text := strings.TrimSpace(strings.TrimPrefix(u.NodeText(annotation), ":"))
	if typeNode != annotation {
		text = u.NodeText(typeNode)
	}
	return Type{Text: text, Literal: isLiteralTypeNode(u, typeNode)}
}

// isLiteralTypeNode reports whether a type node is a string, number, bigint or
// boolean literal type. `null` and `undefined` are unit types but not literals.
func isLiteralTypeNode(u *source.Unit, n *sitter.Node) bool {
	if n.Kind() != "literal_type" {
		return false
	}
	children := source.NamedChildren(n)
	if len(children) == 0 {
		// true and false are anonymous tokens inside literal_type
		text := u.NodeText(n)
		return text == "true" || text == "false"
	}
	switch children[0].Kind() {
	case "number", "string", "true", "false", "unary_expression":
		return true
	}
	return false
}

// inferType derives a type from an initializer expression the way the compiler would
// for the common cases, and returns the zero Type otherwise.
func inferType(u *source.Unit, value *sitter.Node, keepLiteral bool) Type {
	primitive := func(widened string) Type {
		if keepLiteral {
			return Type{Text: u.NodeText(value), Literal: true}
		}
		return Type{Text: widened}
	}

	switch value.Kind() {
	case "number":
		if strings.HasSuffix(u.NodeText(value), "n") {
			return primitive("bigint")
		}
		return primitive("number")
	case "string":
		return primitive("string")
	case "template_string":
		if source.FindChildByType(value, "template_substitution") != nil {
			return Type{Text: "string"}
		}
		return primitive("string")
	case "true", "false":
		return primitive("boolean")
	case "unary_expression":
		arg := value.ChildByFieldName("argument")
		op := u.NodeText(value.ChildByFieldName("operator"))
		if arg != nil && arg.Kind() == "number" && (op == "-" || op == "+") {
			if strings.HasSuffix(u.NodeText(arg), "n") {
				return primitive("bigint")
			}
			return primitive("number")
		}
		if op == "!" {
			return Type{Text: "boolean"}
		}
		if op == "typeof" {
			return Type{Text: "string"}
		}
	case "parenthesized_expression":
		if inner := source.NamedChildren(value); len(inner) == 1 {
			return inferType(u, inner[0], keepLiteral)
		}
	case "satisfies_expression":
		if inner := source.NamedChildren(value); len(inner) > 0 {
			return inferType(u, inner[0], keepLiteral)
		}
	case "as_expression":
		children := source.NamedChildren(value)
		if len(children) == 2 {
			return annotationType(u, children[1])
		}
	case "new_expression":
		ctor := value.ChildByFieldName("constructor")
		if ctor != nil && (ctor.Kind() == "identifier" || ctor.Kind() == "member_expression") {
			return Type{Text: u.NodeText(ctor) + u.NodeText(value.ChildByFieldName("type_arguments"))}
		}
	case "regex":
		return Type{Text: "RegExp"}
	case "array":
		return inferArrayType(u, value)
	}
	return Type{}
}

// inferArrayType handles arrays whose elements all widen to the same type.
func inferArrayType(u *source.Unit, value *sitter.Node) Type {
	elements := source.NamedChildren(value)
	if len(elements) == 0 {
		return Type{}
	}

	var elem string
	for _, e := range elements {
		t := inferType(u, e, false)
		if t.Text == "" || (elem != "" && t.Text != elem) {
			return Type{}
		}
		elem = t.Text
	}
	if strings.ContainsAny(elem, " |&") {
		elem = "(" + elem + ")"
	}
	return Type{Text: elem + "[]"}
}
