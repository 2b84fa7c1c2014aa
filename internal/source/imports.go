package source

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ImportBinding is one entry of a named import clause: `{ Name as Alias }`.
type ImportBinding struct {
	Name     string
	Alias    string
	TypeOnly bool // inline `type` modifier: `{ type Name }`
}

// String renders the binding as it appears between the braces.
func (b ImportBinding) String() string {
	s := b.Name
	if b.TypeOnly {
		s = "type " + s
	}
	if b.Alias != "" {
		s += " as " + b.Alias
	}
	return s
}

// Import describes a top-level import statement.
type Import struct {
	Index     int    // statement index within the unit
	Specifier string // module specifier without quotes
	TypeOnly  bool   // `import type ...`
	Default   string // default binding, if any
	Namespace string // `* as Namespace` binding, if any
	Named     []ImportBinding

	quote     byte
	semicolon bool
}

// SideEffect reports whether the import binds nothing (`import './polyfill'`).
func (imp Import) SideEffect() bool {
	return imp.Default == "" && imp.Namespace == "" && len(imp.Named) == 0
}

// WithNamed renders the import statement with its named bindings replaced by named.
// The default and namespace bindings are kept. It returns the empty string when the
// resulting import would bind nothing.
func (imp Import) WithNamed(named []ImportBinding) string {
	var clauses []string
	if imp.Default != "" {
		clauses = append(clauses, imp.Default)
	}
	if imp.Namespace != "" {
		clauses = append(clauses, "* as "+imp.Namespace)
	}
	if len(named) > 0 {
		parts := make([]string, len(named))
		for i, b := range named {
			parts[i] = b.String()
		}
		clauses = append(clauses, "{ "+strings.Join(parts, ", ")+" }")
	}
	if len(clauses) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("import ")
	if imp.TypeOnly {
		sb.WriteString("type ")
	}
	sb.WriteString(strings.Join(clauses, ", "))
	sb.WriteString(" from ")
	quote := imp.quote
	if quote == 0 {
		quote = '\''
	}
	sb.WriteByte(quote)
	sb.WriteString(imp.Specifier)
	sb.WriteByte(quote)
	if imp.semicolon {
		sb.WriteString(";")
	}
	return sb.String()
}

// Imports returns the top-level import statements of the unit in source order.
// `import x = require(...)` forms are not included.
func (u *Unit) Imports() []Import {
	var imports []Import
	for i, stmt := range u.Statements() {
		if stmt.Kind() != "import_statement" {
			continue
		}
		if FindChildByType(stmt, "import_require_clause") != nil {
			continue
		}

		sourceNode := stmt.ChildByFieldName("source")
		if sourceNode == nil {
			continue
		}
		raw := u.NodeText(sourceNode)
		if len(raw) < 2 {
			continue
		}

		imp := Import{
			Index:     i,
			Specifier: raw[1 : len(raw)-1],
			TypeOnly:  HasToken(stmt, "type"),
			quote:     raw[0],
			semicolon: strings.HasSuffix(strings.TrimSpace(u.NodeText(stmt)), ";"),
		}

		if clause := FindChildByType(stmt, "import_clause"); clause != nil {
			u.readImportClause(clause, &imp)
		}
		imports = append(imports, imp)
	}
	return imports
}

func (u *Unit) readImportClause(clause *sitter.Node, imp *Import) {
	for _, child := range NamedChildren(clause) {
		switch child.Kind() {
		case "identifier":
			imp.Default = u.NodeText(child)
		case "namespace_import":
			if id := FindChildByType(child, "identifier"); id != nil {
				imp.Namespace = u.NodeText(id)
			}
		case "named_imports":
			for _, spec := range FindChildrenByType(child, "import_specifier") {
				binding := ImportBinding{
					Name:     u.NodeText(spec.ChildByFieldName("name")),
					Alias:    u.NodeText(spec.ChildByFieldName("alias")),
					TypeOnly: HasToken(spec, "type"),
				}
				imp.Named = append(imp.Named, binding)
			}
		}
	}
}
