package load

import (
	"go/types"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xhappyboy/bubble/schema"
)

func names(structs []*Struct) []string {
	out := make([]string, len(structs))
	for i, s := range structs {
		out[i] = s.Name
	}
	return out
}

func TestLoad(t *testing.T) {
	cfg := &Config{Patterns: []string{"./testdata/valid"}}
	structs, err := cfg.Load()
	require.NoError(t, err)
	require.Equal(t, []string{"Session", "User"}, names(structs))

	session := structs[0]
	assert.Equal(t, "valid", session.PkgName)
	assert.Equal(t, "github.com/0xhappyboy/bubble/compiler/load/testdata/valid", session.PkgPath)
	abs, err := filepath.Abs("testdata/valid")
	require.NoError(t, err)
	assert.Equal(t, abs, session.Dir)
	assert.Contains(t, session.Pos, "models.go")

	fields := session.Decl.Fields
	require.Len(t, fields, 7)
	assert.Equal(t, schema.FieldDecl{Name: "_", Type: "struct{}", Tag: `orm:"table=sessions"`}, fields[0])
	assert.Equal(t, "github.com/google/uuid.UUID", fields[1].Type)
	assert.Equal(t, "time.Time", fields[3].Type)
	assert.Equal(t, "[]byte", fields[4].Type)
	assert.Equal(t, "map[string]string", fields[6].Type)

	desc, err := schema.Derive(session.Decl)
	require.NoError(t, err)
	assert.Equal(t, "Session(sessions: token, owner_id, expires, data)", desc.String())
	assert.False(t, desc.PrimaryKey().Generated)

	desc, err = schema.Derive(structs[1].Decl)
	require.NoError(t, err)
	assert.Equal(t, "User(user: id, name, email)", desc.String())
	assert.True(t, desc.PrimaryKey().Generated)
	email, ok := desc.Column("email")
	require.True(t, ok)
	assert.Equal(t, "*string", email.GoType)
	assert.True(t, email.Nullable)
}

func TestLoadBuildFlags(t *testing.T) {
	cfg := &Config{Patterns: []string{"./testdata/buildflags"}}
	structs, err := cfg.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Group"}, names(structs))

	cfg.BuildFlags = []string{"-tags=hidden"}
	structs, err = cfg.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Group", "Hidden"}, names(structs))
}

func TestLoadDir(t *testing.T) {
	cfg := &Config{Patterns: []string{"."}, Dir: "testdata/valid"}
	structs, err := cfg.Load()
	require.NoError(t, err)
	assert.Len(t, structs, 2)
}

func TestLoadEmpty(t *testing.T) {
	cfg := &Config{Patterns: []string{"./testdata/empty"}}
	structs, err := cfg.Load()
	require.NoError(t, err)
	assert.Empty(t, structs)
}

func TestLoadErrors(t *testing.T) {
	_, err := (&Config{}).Load()
	require.EqualError(t, err, "load: no package patterns")

	_, err = (&Config{Patterns: []string{"./testdata/broken"}}).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "testdata/broken")
	assert.Contains(t, err.Error(), "Missing")

	_, err = (&Config{Patterns: []string{"./testdata/nonexistent"}}).Load()
	require.Error(t, err)
}

func TestLoadStaleGenerated(t *testing.T) {
	structs, err := (&Config{Patterns: []string{"./testdata/stale"}}).Load()
	require.NoError(t, err)
	require.Equal(t, []string{"User"}, names(structs))
	desc, err := schema.Derive(structs[0].Decl)
	require.NoError(t, err)
	assert.Equal(t, "User(user: id, full_name)", desc.String())
}

func TestGenerated(t *testing.T) {
	tests := []struct {
		pos  string
		want bool
	}{
		{"/src/models/user_orm.go:5:43", true},
		{`C:\src\models\user_orm.go:5:43`, true},
		{"/src/models/user.go:5:43", false},
		{"/src/models_orm.go.d/user.go:1:1", false},
		{"-", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, generated(tt.pos), tt.pos)
	}
}

func TestTypeString(t *testing.T) {
	pkg := types.NewPackage("example.com/models", "models")
	named := types.NewNamed(types.NewTypeName(0, pkg, "Status", nil), types.Typ[types.String], nil)
	assert.Equal(t, "example.com/models.Status", TypeString(named))
	assert.Equal(t, "*example.com/models.Status", TypeString(types.NewPointer(named)))
	assert.Equal(t, "int64", TypeString(types.Typ[types.Int64]))
}
