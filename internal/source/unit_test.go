package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Unit:
// - ParseBytes accepts valid TypeScript and TSX
// - ParseBytes rejects files with syntax errors
// - Statements skips comments
// - InsertStatement before a single-line statement uses one newline
// - InsertStatement before a block statement leaves a blank line
// - InsertStatement keeps leading comments attached to the following statement
// - InsertStatement appends at the end of the unit
// - InsertStatement into an empty unit
// - InsertStatement rejects out-of-range indexes
// - RemoveStatement removes the statement and its line break
// - RemoveStatement does not leave a doubled blank line
// - ReplaceStatement swaps statement text
// - NewLine detects CRLF files

func parseString(t *testing.T, src string) *Unit {
	t.Helper()
	u, err := ParseBytes("test.ts", []byte(src))
	require.NoError(t, err)
	t.Cleanup(u.Close)
	return u
}

func TestParseBytes_ValidTypeScript(t *testing.T) {
	t.Parallel()

	u := parseString(t, "export const a: number = 1;\nexport function f() {}\n")
	assert.Equal(t, "test.ts", u.Path())
	assert.Len(t, u.Statements(), 2)
}

func TestParseBytes_TSX(t *testing.T) {
	t.Parallel()

	u, err := ParseBytes("view.tsx", []byte("export const v = <div>hi</div>;\n"))
	require.NoError(t, err)
	defer u.Close()
	assert.Len(t, u.Statements(), 1)
}

func TestParseBytes_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := ParseBytes("broken.ts", []byte("export const = ;"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestStatements_SkipsComments(t *testing.T) {
	t.Parallel()

	u := parseString(t, "// header\nconst a = 1;\n/* between */\nlet b = 2;\n")
	stmts := u.Statements()
	require.Len(t, stmts, 2)
	assert.Equal(t, "lexical_declaration", stmts[0].Kind())
	assert.Equal(t, "let b = 2;", u.NodeText(stmts[1]))
}

func TestInsertStatement_BeforeSingleLineStatement(t *testing.T) {
	t.Parallel()

	u := parseString(t, "export const a = 1;")
	require.NoError(t, u.InsertStatement(0, "const b = 1;", false))
	assert.Equal(t, "const b = 1;\nexport const a = 1;", u.String())
}

func TestInsertStatement_BeforeBlockStatement(t *testing.T) {
	t.Parallel()

	u := parseString(t, "export function a() {}")
	require.NoError(t, u.InsertStatement(0, "function b(): void {\n}", true))
	assert.Equal(t, "function b(): void {\n}\n\nexport function a() {}", u.String())
}

func TestInsertStatement_KeepsLeadingComment(t *testing.T) {
	t.Parallel()

	u := parseString(t, "import { x } from './x';\n// a doc\nexport const a = 1;\n")
	require.NoError(t, u.InsertStatement(1, "const b = 2;", false))
	assert.Equal(t, "import { x } from './x';\nconst b = 2;\n// a doc\nexport const a = 1;\n", u.String())
}

func TestInsertStatement_BlockAfterStatementGetsBlankLines(t *testing.T) {
	t.Parallel()

	u := parseString(t, "const a = 1;\nconst c = 3;\n")
	require.NoError(t, u.InsertStatement(1, "enum E {\n}", true))
	assert.Equal(t, "const a = 1;\n\nenum E {\n}\n\nconst c = 3;\n", u.String())
}

func TestInsertStatement_Append(t *testing.T) {
	t.Parallel()

	u := parseString(t, "const a = 1;\n")
	require.NoError(t, u.InsertStatement(1, "type T = string;", false))
	assert.Equal(t, "const a = 1;\ntype T = string;\n", u.String())

	require.NoError(t, u.InsertStatement(2, "class C {\n}", true))
	assert.Equal(t, "const a = 1;\ntype T = string;\n\nclass C {\n}\n", u.String())
	assert.Len(t, u.Statements(), 3)
}

func TestInsertStatement_EmptyUnit(t *testing.T) {
	t.Parallel()

	u := parseString(t, "")
	require.NoError(t, u.InsertStatement(0, "const a = 1;", false))
	assert.Equal(t, "const a = 1;\n", u.String())
}

func TestInsertStatement_OutOfRange(t *testing.T) {
	t.Parallel()

	u := parseString(t, "const a = 1;")
	err := u.InsertStatement(5, "const b = 1;", false)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Equal(t, "const a = 1;", u.String())
}

func TestRemoveStatement(t *testing.T) {
	t.Parallel()

	u := parseString(t, "import { b } from './b';\n\nexport const a = b;\n")
	require.NoError(t, u.RemoveStatement(0))
	assert.Equal(t, "export const a = b;\n", u.String())
	assert.Len(t, u.Statements(), 1)
}

func TestRemoveStatement_CollapsesBlankLines(t *testing.T) {
	t.Parallel()

	u := parseString(t, "enum E {\n    A\n}\n\nimport { b } from './b';\n\nexport const a = b;\n")
	require.NoError(t, u.RemoveStatement(1))
	assert.Equal(t, "enum E {\n    A\n}\n\nexport const a = b;\n", u.String())

	u = parseString(t, "const x = 1;\nimport { b } from './b';\n\nexport const a = b;\n")
	require.NoError(t, u.RemoveStatement(1))
	assert.Equal(t, "const x = 1;\n\nexport const a = b;\n", u.String())
}

func TestReplaceStatement(t *testing.T) {
	t.Parallel()

	u := parseString(t, "import { a, b } from './m';\nconst x = a;\n")
	require.NoError(t, u.ReplaceStatement(0, "import { a } from './m';"))
	assert.Equal(t, "import { a } from './m';\nconst x = a;\n", u.String())
}

func TestNewLine_DetectsCRLF(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "\r\n", parseString(t, "const a = 1;\r\nconst b = 2;\r\n").NewLine())
	assert.Equal(t, "\n", parseString(t, "const a = 1;\n").NewLine())
}
