package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Imports:
// - Named, aliased and inline type bindings are read in order
// - Default and namespace bindings are recorded
// - Side-effect imports bind nothing
// - import = require() forms are ignored
// - WithNamed keeps quotes, semicolons and the default binding
// - WithNamed returns empty when nothing remains

func TestImports_NamedBindings(t *testing.T) {
	t.Parallel()

	u := parseString(t, "const z = 0;\nimport { a, b as c, type T } from \"./mod\";\n")
	imports := u.Imports()
	require.Len(t, imports, 1)

	imp := imports[0]
	assert.Equal(t, 1, imp.Index)
	assert.Equal(t, "./mod", imp.Specifier)
	assert.False(t, imp.TypeOnly)
	assert.Equal(t, []ImportBinding{
		{Name: "a"},
		{Name: "b", Alias: "c"},
		{Name: "T", TypeOnly: true},
	}, imp.Named)
}

func TestImports_DefaultAndNamespace(t *testing.T) {
	t.Parallel()

	u := parseString(t, "import def, { x } from './a'\nimport * as ns from './b'\nimport type { T } from './c'\n")
	imports := u.Imports()
	require.Len(t, imports, 3)

	assert.Equal(t, "def", imports[0].Default)
	assert.Equal(t, []ImportBinding{{Name: "x"}}, imports[0].Named)
	assert.Equal(t, "ns", imports[1].Namespace)
	assert.True(t, imports[2].TypeOnly)
}

func TestImports_SideEffect(t *testing.T) {
	t.Parallel()

	u := parseString(t, "import './polyfill';\n")
	imports := u.Imports()
	require.Len(t, imports, 1)
	assert.True(t, imports[0].SideEffect())
}

func TestImports_IgnoresRequireForm(t *testing.T) {
	t.Parallel()

	u := parseString(t, "import fs = require('fs');\nimport { a } from './a';\n")
	imports := u.Imports()
	require.Len(t, imports, 1)
	assert.Equal(t, "./a", imports[0].Specifier)
}

func TestImport_WithNamed(t *testing.T) {
	t.Parallel()

	u := parseString(t, "import def, { a, b } from \"./m\";\n")
	imp := u.Imports()[0]

	assert.Equal(t, `import def, { b } from "./m";`, imp.WithNamed([]ImportBinding{{Name: "b"}}))
	assert.Equal(t, `import def from "./m";`, imp.WithNamed(nil))
}

func TestImport_WithNamedEmpty(t *testing.T) {
	t.Parallel()

	u := parseString(t, "import { a } from './m'\n")
	imp := u.Imports()[0]

	assert.Equal(t, "", imp.WithNamed(nil))
	assert.Equal(t, "import { a } from './m'", imp.WithNamed(imp.Named))
}
