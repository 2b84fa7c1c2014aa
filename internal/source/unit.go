package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var (
	// ErrSyntax indicates the file could not be parsed without errors
	ErrSyntax = errors.New("syntax error")

	// ErrIndexOutOfRange indicates a statement index outside the unit
	ErrIndexOutOfRange = errors.New("statement index out of range")
)

// blockKinds are top-level statements that own a braced body. They are separated
// from their neighbours by a blank line when inserted.
var blockKinds = map[string]bool{
	"function_declaration":           true,
	"generator_function_declaration": true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
	"interface_declaration":          true,
	"enum_declaration":               true,
	"internal_module":                true,
	"module":                         true,
}

// Unit is one parsed TypeScript file held as source text plus its syntax tree.
//
// Every mutation rewrites the text and reparses it, so nodes obtained from a Unit
// are only valid until the next InsertStatement, RemoveStatement or ReplaceStatement.
// A Unit must not be shared between goroutines while it is being mutated.
type Unit struct {
	path   string
	src    []byte
	parser *treeSitterParser
	tree   *sitter.Tree
}

// Parse reads and parses the file at path.
func Parse(path string) (*Unit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseBytes(path, src)
}

// ParseBytes parses src as the content of path. The extension of path selects the
// TypeScript or TSX grammar. Files with syntax errors are rejected with ErrSyntax.
func ParseBytes(path string, src []byte) (*Unit, error) {
	u := &Unit{
		path:   path,
		parser: parserFor(path),
	}
	if err := u.reparse(src); err != nil {
		return nil, err
	}

	if u.tree.RootNode().HasError() {
		u.Close()
		return nil, fmt.Errorf("%w in %s", ErrSyntax, path)
	}
	return u, nil
}

// Path returns the file path the unit was parsed from.
func (u *Unit) Path() string {
	return u.path
}

// Source returns the current text of the unit.
func (u *Unit) Source() []byte {
	return u.src
}

// String returns the current text of the unit.
func (u *Unit) String() string {
	return string(u.src)
}

// Root returns the program node.
func (u *Unit) Root() *sitter.Node {
	return u.tree.RootNode()
}

// NodeText returns the source text covered by node.
func (u *Unit) NodeText(node *sitter.Node) string {
	return extractNodeText(node, u.src)
}

// Close releases the syntax tree.
func (u *Unit) Close() {
	if u.tree != nil {
		u.tree.Close()
		u.tree = nil
	}
}

// Statements returns the top-level statements in order. Comments are not statements.
func (u *Unit) Statements() []*sitter.Node {
	return NamedChildren(u.Root())
}

// InsertStatement inserts text as a new top-level statement at index, where index
// len(Statements()) appends. block marks statements with a braced body, which are
// separated from their neighbours by a blank line.
func (u *Unit) InsertStatement(index int, text string, block bool) error {
	stmts := u.Statements()
	if index < 0 || index > len(stmts) {
		return fmt.Errorf("%w: %d (unit has %d statements)", ErrIndexOutOfRange, index, len(stmts))
	}

	nl := u.NewLine()
	var out bytes.Buffer

	if index == len(stmts) {
		body := bytes.TrimRight(u.src, " \t\r\n")
		out.Write(body)
		if len(body) > 0 {
			out.WriteString(nl)
			if block || isBlockStatement(stmts[len(stmts)-1]) {
				out.WriteString(nl)
			}
		}
		out.WriteString(text)
		out.WriteString(nl)
		return u.reparse(out.Bytes())
	}

	pos := u.statementStart(index)
	out.Write(u.src[:pos])
	if pos > 0 && u.src[pos-1] != '\n' {
		out.WriteString(nl)
	}
	if index > 0 && (block || isBlockStatement(stmts[index-1])) && !endsWithBlankLine(out.Bytes()) {
		out.WriteString(nl)
	}
	out.WriteString(text)
	out.WriteString(nl)
	if block || isBlockStatement(stmts[index]) {
		out.WriteString(nl)
	}
	out.Write(u.src[pos:])
	return u.reparse(out.Bytes())
}

// RemoveStatement deletes the statement at index together with the rest of its line.
func (u *Unit) RemoveStatement(index int) error {
	stmts := u.Statements()
	if index < 0 || index >= len(stmts) {
		return fmt.Errorf("%w: %d (unit has %d statements)", ErrIndexOutOfRange, index, len(stmts))
	}

	start := int(stmts[index].StartByte())
	end := int(stmts[index].EndByte())
	for end < len(u.src) && (u.src[end] == ' ' || u.src[end] == '\t') {
		end++
	}
	if end < len(u.src) && u.src[end] == '\r' {
		end++
	}
	if end < len(u.src) && u.src[end] == '\n' {
		end++
	}
	// Do not leave two blank lines, or a blank first line, where the statement was
	if endsWithBlankLine(u.src[:start]) {
		end += blankLineLength(u.src[end:])
	}

	out := make([]byte, 0, len(u.src)-(end-start))
	out = append(out, u.src[:start]...)
	out = append(out, u.src[end:]...)
	return u.reparse(out)
}

// ReplaceStatement replaces the text of the statement at index.
func (u *Unit) ReplaceStatement(index int, text string) error {
	stmts := u.Statements()
	if index < 0 || index >= len(stmts) {
		return fmt.Errorf("%w: %d (unit has %d statements)", ErrIndexOutOfRange, index, len(stmts))
	}

	start := stmts[index].StartByte()
	end := stmts[index].EndByte()

	var out bytes.Buffer
	out.Write(u.src[:start])
	out.WriteString(text)
	out.Write(u.src[end:])
	return u.reparse(out.Bytes())
}

// NewLine returns the line terminator used by the unit.
func (u *Unit) NewLine() string {
	if bytes.Contains(u.src, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

func (u *Unit) reparse(src []byte) error {
	tree, err := u.parser.parse(u.path, src)
	if err != nil {
		return err
	}
	u.Close()
	u.tree = tree
	u.src = src
	return nil
}

// statementStart returns the byte offset an insertion before statement index goes to:
// the start of the line holding the statement or the comments directly above it.
func (u *Unit) statementStart(index int) int {
	root := u.Root()
	target := u.Statements()[index]

	start := int(target.StartByte())
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(uint(i))
		if child.StartByte() != target.StartByte() {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			prev := root.NamedChild(uint(j))
			if prev.Kind() != "comment" || !onlyWhitespace(u.src[prev.EndByte():start]) {
				break
			}
			start = int(prev.StartByte())
		}
		break
	}

	lineStart := start
	for lineStart > 0 && (u.src[lineStart-1] == ' ' || u.src[lineStart-1] == '\t') {
		lineStart--
	}
	if lineStart == 0 || u.src[lineStart-1] == '\n' {
		return lineStart
	}
	return start
}

func isBlockStatement(node *sitter.Node) bool {
	if node.Kind() == "export_statement" {
		decl := node.ChildByFieldName("declaration")
		return decl != nil && blockKinds[decl.Kind()]
	}
	return blockKinds[node.Kind()]
}

// endsWithBlankLine reports whether b ends with an empty line.
func endsWithBlankLine(b []byte) bool {
	trimmed := bytes.TrimRight(b, " \t\r")
	if !bytes.HasSuffix(trimmed, []byte("\n")) {
		return len(trimmed) == 0
	}
	trimmed = bytes.TrimRight(trimmed[:len(trimmed)-1], " \t\r")
	return len(trimmed) == 0 || bytes.HasSuffix(trimmed, []byte("\n"))
}

// blankLineLength returns the length of the first line of b, including its line
// break, when that line is empty. Otherwise it returns 0.
func blankLineLength(b []byte) int {
	i := bytes.IndexByte(b, '\n')
	if i < 0 || !onlyWhitespace(b[:i]) {
		return 0
	}
	return i + 1
}

func onlyWhitespace(b []byte) bool {
	return len(bytes.TrimSpace(b)) == 0
}
