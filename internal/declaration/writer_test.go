package declaration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Writer:
// - TransferVariable inserts the whole statement before the target statement
// - TransferFunction separates block statements with a blank line
// - Function bodies copy lines inside template literals unchanged
// - TransferFunction copies overload signatures ahead of the implementation
// - TransferEnum renders members with and without initializers
// - TransferClass orders properties before methods
// - TransferClass round-trips constructor parameter modifiers
// - TransferClass keeps declare, override, definite and optional member markers
// - TransferInterface orders properties before methods
// - TransferTypeAlias renders the target verbatim
// - TransferVariable on a malformed handle is a silent no-op that reports to the skip handler
// - Transfer rejects forged handles with ErrKindMismatch
// - WithIndentSize and WithNewLine change formatting
// - Transferred declarations read back to the same descriptor

func TestTransferVariable(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export const b = 1;")
	target := parseUnit(t, "export const a = 1;")

	vh, err := AsVariable(resolve(t, src, "b"))
	require.NoError(t, err)

	require.NoError(t, NewWriter().TransferVariable(0, vh, target))
	assert.Equal(t, "const b = 1;\nexport const a = 1;", target.String())
}

func TestTransferVariable_CoDeclared(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, `export let a = 1, b = "s", c;`)
	target := parseUnit(t, "")

	vh, err := AsVariable(resolve(t, src, "b"))
	require.NoError(t, err)

	require.NoError(t, NewWriter().TransferVariable(0, vh, target))
	assert.Equal(t, "let a: number = 1, b: string = \"s\", c: any;\n", target.String())
}

func TestTransferFunction(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export function b(): void {}")
	target := parseUnit(t, "export function a() {}")

	fh, err := AsFunction(resolve(t, src, "b"))
	require.NoError(t, err)

	require.NoError(t, NewWriter().TransferFunction(0, fh, target))
	assert.Equal(t, "function b(): void {\n}\n\nexport function a() {}", target.String())
}

func TestTransferFunction_Body(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, `export async function f<T>(x: T, n = 2) {
    if (n > 1) {
        await g(x);
    }
}`)

	fh, err := AsFunction(resolve(t, src, "f"))
	require.NoError(t, err)

	text, err := NewWriter().Format(ReadFunction(fh))
	require.NoError(t, err)
	assert.Equal(t, `async function f<T>(x: T, n: number = 2): Promise<void> {
    if (n > 1) {
        await g(x);
    }
}`, text)
}

func TestTransferFunction_TemplateLiteral(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export function f(): string {\n  return `a\nb`;\n}")

	fh, err := AsFunction(resolve(t, src, "f"))
	require.NoError(t, err)

	f := ReadFunction(fh)
	assert.Equal(t, []Statement{{Text: "return `a\nb`;", Verbatim: []int{1}}}, f.Statements)

	text, err := NewWriter().Format(f)
	require.NoError(t, err)
	assert.Equal(t, "function f(): string {\n    return `a\nb`;\n}", text)
}

func TestTransferFunction_TemplateLiteralTrailingSpaces(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export function g(): string {\n"+
		"    const s = `x  \n"+
		"    y  `;   \n"+
		"    return s;\n"+
		"}")

	fh, err := AsFunction(resolve(t, src, "g"))
	require.NoError(t, err)

	text, err := NewWriter(WithIndentSize(2)).Format(ReadFunction(fh))
	require.NoError(t, err)
	assert.Equal(t, "function g(): string {\n"+
		"  const s = `x  \n"+
		"    y  `;\n"+
		"  return s;\n"+
		"}", text)
}

func TestTransferFunction_Overloads(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, `export function pick(x: string): string;
export function pick(x: number): number;
export function pick(x: any): any {
    return x;
}`)
	target := parseUnit(t, "export const a = 1;\n")

	fh, err := AsFunction(resolve(t, src, "pick"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"function pick(x: string): string;",
		"function pick(x: number): number;",
	}, ReadFunction(fh).Overloads)

	require.NoError(t, NewWriter().TransferFunction(0, fh, target))
	assert.Equal(t, `function pick(x: string): string;
function pick(x: number): number;
function pick(x: any): any {
    return x;
}

export const a = 1;
`, target.String())
}

func TestTransferEnum(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export enum b { b1 = 'b1', b2 }")
	target := parseUnit(t, "export const a = 1;\n")

	eh, err := AsEnum(resolve(t, src, "b"))
	require.NoError(t, err)

	require.NoError(t, NewWriter().TransferEnum(0, eh, target))
	assert.Equal(t, "enum b {\n    b1 = 'b1',\n    b2\n}\n\nexport const a = 1;\n", target.String())
}

func TestTransferClass(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, `export class b {
    b: number = 1;
    a(): void {}
    c: string = "1";
}`)

	ch, err := AsClass(resolve(t, src, "b"))
	require.NoError(t, err)

	text, err := NewWriter().Format(ReadClass(ch))
	require.NoError(t, err)
	assert.Equal(t, "class b {\n    b: number = 1;\n    c: string = \"1\";\n\n    a(): void {\n    }\n}", text)
}

func TestTransferClass_Constructor(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, `export class b {
    constructor(public readonly a: number = 1) {
        this.a = a
    }
}`)

	ch, err := AsClass(resolve(t, src, "b"))
	require.NoError(t, err)

	text, err := NewWriter().Format(ReadClass(ch))
	require.NoError(t, err)
	assert.Equal(t, "class b {\n    public constructor(public readonly a: number = 1) {\n        this.a = a\n    }\n}", text)
}

func TestTransferClass_Modifiers(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, `export abstract class Base<T> extends Root implements Shape {
    private static readonly id = "x";
    protected name?: string;
    declare readonly kind: string;
    value!: number;
    override label = "x";
    abstract area(): number;
    static async load(): Promise<void> {}
    get size(): number { return 1; }
    override run(): void {}
    m?(): void {}
}`)

	ch, err := AsClass(resolve(t, src, "Base"))
	require.NoError(t, err)

	text, err := NewWriter().Format(ReadClass(ch))
	require.NoError(t, err)
	assert.Equal(t, `abstract class Base<T> extends Root implements Shape {
    private static readonly id = "x";
    protected name?: string;
    declare readonly kind: string;
    value!: number;
    override label: string = "x";
    abstract area(): number;

    static async load(): Promise<void> {
    }

    get size(): number {
        return 1;
    }

    override run(): void {
    }

    m?(): void {
    }
}`, text)
}

func TestTransferInterface(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export interface b { a(): void; b: number; c: string; }")

	ih, err := AsInterface(resolve(t, src, "b"))
	require.NoError(t, err)

	text, err := NewWriter().Format(ReadInterface(ih))
	require.NoError(t, err)
	assert.Equal(t, "interface b {\n    b: number;\n    c: string;\n    a(): void;\n}", text)
}

func TestTransferInterface_Signatures(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, `export interface Table<T> extends Base {
    [key: string]: T;
    new (rows: T[]): Table<T>;
    (row: T): boolean;
    readonly size: number;
}`)

	ih, err := AsInterface(resolve(t, src, "Table"))
	require.NoError(t, err)

	text, err := NewWriter().Format(ReadInterface(ih))
	require.NoError(t, err)
	assert.Equal(t, `interface Table<T> extends Base {
    readonly size: number;
    (row: T): boolean;
    new (rows: T[]): Table<T>;
    [key: string]: T;
}`, text)
}

func TestTransferTypeAlias(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export type b = a;")
	target := parseUnit(t, "export type a = b")

	th, err := AsTypeAlias(resolve(t, src, "b"))
	require.NoError(t, err)

	require.NoError(t, NewWriter().TransferTypeAlias(0, th, target))
	assert.Equal(t, "type b = a;\nexport type a = b", target.String())
}

func TestTransferVariable_NoOp(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export const a = 1;")
	target := parseUnit(t, "export const z = 0;\n")

	name := resolve(t, src, "a").Node.ChildByFieldName("name")
	require.NotNil(t, name)
	malformed := VariableHandle{handle: Handle{Unit: src, Node: name, Kind: KindVariable}}

	var skipped error
	w := NewWriter(WithSkipHandler(func(h Handle, err error) {
		skipped = err
	}))

	require.NoError(t, w.TransferVariable(0, malformed, target))
	assert.Equal(t, "export const z = 0;\n", target.String())
	assert.ErrorIs(t, skipped, ErrNoEnclosingStatement)
}

func TestTransfer_KindMismatch(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export class C {}")
	target := parseUnit(t, "")

	forged := resolve(t, src, "C")
	forged.Kind = KindInterface

	err := NewWriter().Transfer(0, forged, target)
	assert.ErrorIs(t, err, ErrKindMismatch)
	assert.Empty(t, target.String())

	err = NewWriter().Transfer(0, Handle{Unit: src, Node: forged.Node}, target)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

func TestWriter_Options(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "enum E { A, B }")
	target := parseUnit(t, "")

	w := NewWriter(WithIndentSize(2), WithNewLine("\r\n"))
	require.NoError(t, w.Transfer(0, resolve(t, src, "E"), target))
	assert.Equal(t, "enum E {\r\n  A,\r\n  B\r\n}\n", target.String())
}

func TestWriter_InsertsBetweenStatements(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, "export type Id = string;\nexport interface User { id: Id; }")
	target := parseUnit(t, "import { Id, User } from './types';\n\nexport const u: User = { id: '1' };\n")

	w := NewWriter()
	require.NoError(t, w.Transfer(1, resolve(t, src, "Id"), target))
	require.NoError(t, w.Transfer(2, resolve(t, src, "User"), target))

	assert.Equal(t, `import { Id, User } from './types';

type Id = string;

interface User {
    id: Id;
}

export const u: User = { id: '1' };
`, target.String())
}

func TestTransfer_RoundTrip(t *testing.T) {
	t.Parallel()

	src := parseUnit(t, `export const v = 1, w = "a";
export function f(x: number, ...rest: string[]): number { return x; }
export enum E { A = 1, B }
export class C<T> extends Base implements I {
    private readonly x: number = 1;
    static y = "s";
    constructor(protected z: T) {
        super();
    }
    run(): void {}
}
export interface I { a: number; m(): void; (x: number): string; }
export type T = 'literal';`)

	w := NewWriter()
	for _, name := range []string{"v", "f", "E", "C", "I", "T"} {
		t.Run(name, func(t *testing.T) {
			target := parseUnit(t, "")
			h := resolve(t, src, name)

			want, err := Read(h)
			require.NoError(t, err)
			require.NoError(t, w.Transfer(0, h, target))

			got, err := Read(resolve(t, target, name))
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// formatting a descriptor twice gives the same text
			first, err := w.Format(want)
			require.NoError(t, err)
			second, err := w.Format(want)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}
