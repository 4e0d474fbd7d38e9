package gen

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/compiler/load"
	"github.com/0xhappyboy/bubble/schema"
	"github.com/0xhappyboy/bubble/value"
)

// declarations returns the top level identifiers of a Go file, with methods
// named Recv.Name.
func declarations(t *testing.T, path string) []string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), path, nil, parser.ParseComments)
	require.NoError(t, err)
	var names []string
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names = append(names, n.Name)
					}
				case *ast.TypeSpec:
					names = append(names, s.Name.Name)
				}
			}
		case *ast.FuncDecl:
			name := d.Name.Name
			if d.Recv != nil {
				recv := d.Recv.List[0].Type
				if star, ok := recv.(*ast.StarExpr); ok {
					recv = star.X
				}
				name = recv.(*ast.Ident).Name + "." + name
			}
			names = append(names, name)
		}
	}
	return names
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	g, err := New()
	require.NoError(t, err)

	res, err := g.Generate(ctx, []*load.Struct{userStruct(dir)})
	require.NoError(t, err)
	path := filepath.Join(dir, "user_orm.go")
	assert.Equal(t, []string{path}, res.Files)
	assert.Equal(t, 1, res.Written)

	assert.Equal(t, []string{
		"UserTable",
		"UserID", "UserName", "UserEmail",
		"userCodec", "userCodec.Values", "userCodec.Decode", "userCodec.SetKey",
		"UserClient", "NewUserClient",
		"UserClient.WithTx", "UserClient.Repo",
		"UserClient.Insert", "UserClient.FindByKey", "UserClient.Update", "UserClient.Delete",
		"UserClient.FindAll", "UserClient.Count",
	}, declarations(t, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	src := string(b)
	assert.True(t, strings.HasPrefix(src, "// Code generated by bubblegen. DO NOT EDIT.\n"), src)
	for _, want := range []string{
		"package models",
		`var UserTable = schema.Must(schema.New("User", "user", []*schema.Column{`,
		`{Field: "ID", Name: "id", Kind: value.KindInt, GoType: "int64", PrimaryKey: true, Generated: true},`,
		`{Field: "Name", Name: "name", Kind: value.KindText, GoType: "string"},`,
		`{Field: "Email", Name: "email", Kind: value.KindText, GoType: "*string", Nullable: true},`,
		`query.Field[string]{Column: "email", Kind: value.KindText}`,
		"vals[0] = value.Null(value.KindInt)",
		"vals[0] = value.Int(m.ID)",
		"vals[1] = value.Text(m.Name)",
		"vals[2] = value.Text(*m.Email)",
		"if m.Email, err = orm.OptionalColumn[string](row, UserTable.Columns[2]); err != nil {",
		"if m.Name, err = orm.Column[string](row, UserTable.Columns[1]); err != nil {",
		"m.ID, err = value.Decode[int64](key, value.KindInt)",
		"func NewUserClient(conn dialect.ExecQuerier, opts ...orm.Option) *UserClient {",
		"return &UserClient{repo: orm.NewRepo[User](conn, UserTable, userCodec{}, opts...)}",
		"func (c *UserClient) Insert(ctx context.Context, m *User) (key int64, err error) {",
		"func (c *UserClient) FindByKey(ctx context.Context, key int64) (*User, error) {",
		"return c.repo.FindByKey(ctx, value.Int(key))",
		"func (c *UserClient) FindAll(ctx context.Context, conds ...query.Cond) *orm.Cursor[User] {",
		"func (c *UserClient) Count(ctx context.Context, conds ...query.Cond) (int64, error) {",
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "fmt.")
	assert.NotContains(t, src, "reflect")

	// Regenerating identical output leaves the file alone.
	info, err := os.Stat(path)
	require.NoError(t, err)
	res, err = g.Generate(ctx, []*load.Struct{userStruct(dir)})
	require.NoError(t, err)
	assert.Zero(t, res.Written)
	again, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), again.ModTime())
}

func TestGenerateHeader(t *testing.T) {
	dir := t.TempDir()
	g, err := New(WithHeader("Code generated by make models. DO NOT EDIT."))
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), []*load.Struct{userStruct(dir)})
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "user_orm.go"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "// Code generated by make models. DO NOT EDIT.\n"))
}

func TestGenerateClientKey(t *testing.T) {
	dir := t.TempDir()
	s := &load.Struct{
		Name:    "Session",
		PkgPath: "example.com/models",
		PkgName: "models",
		Dir:     dir,
		Decl: schema.Declaration{Name: "Session", Fields: []schema.FieldDecl{
			{Name: "_", Type: "struct{}", Tag: `orm:"table=sessions"`},
			{Name: "Token", Type: "github.com/google/uuid.UUID", Tag: `orm:"primary_key"`},
			{Name: "Expires", Type: "*time.Time", Tag: `orm:"nullable"`},
			{Name: "Hits", Type: "uint64"},
			{Name: "Rank", Type: "int32"},
		}},
	}
	g, err := New()
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), []*load.Struct{s})
	require.NoError(t, err)
	b, err := os.ReadFile(filepath.Join(dir, "session_orm.go"))
	require.NoError(t, err)
	src := string(b)
	for _, want := range []string{
		`"github.com/google/uuid"`,
		`"time"`,
		`var SessionTable = schema.Must(schema.New("Session", "sessions", []*schema.Column{`,
		`{Field: "Token", Name: "token", Kind: value.KindUUID, GoType: "github.com/google/uuid.UUID", PrimaryKey: true},`,
		"vals[0] = value.UUID(m.Token)",
		"vals[2], err = value.Encode(m.Hits, value.KindInt)",
		"vals[3] = value.Int(int64(m.Rank))",
		"vals[1] = value.Time(*m.Expires)",
		"orm.OptionalColumn[time.Time](row, SessionTable.Columns[1])",
		"func (c *SessionClient) FindByKey(ctx context.Context, key uuid.UUID) (*Session, error) {",
		"return c.repo.Delete(ctx, value.UUID(key))",
		"m.Token, err = value.Decode[uuid.UUID](key, value.KindUUID)",
	} {
		assert.Contains(t, src, want)
	}
	assert.NotContains(t, src, "value.Null(value.KindUUID)", "a client key is always sent")
}

func TestGenerateFailure(t *testing.T) {
	dir := t.TempDir()
	broken := userStruct(dir)
	broken.Name, broken.Decl.Name = "Broken", "Broken"
	broken.Decl.Fields = append(broken.Decl.Fields, schema.FieldDecl{Name: "Extra", Type: "map[string]string"})
	noKey := userStruct(dir)
	noKey.Name, noKey.Decl.Name = "NoKey", "NoKey"
	noKey.Decl.Fields[0].Tag = ""

	g, err := New()
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), []*load.Struct{userStruct(dir), broken, noKey})
	require.Error(t, err)
	var agg *bubble.AggregateError
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 2)
	assert.ErrorContains(t, agg.Errors[0], "generate Broken: models.go:3:6")
	assert.ErrorContains(t, agg.Errors[0], "no value kind registered for map[string]string")
	assert.ErrorContains(t, agg.Errors[1], "no primary key")
	assert.True(t, bubble.IsSchema(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is written for a failing type set")
}

func TestGenerateSelection(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	session := userStruct(dir)
	session.Name, session.Decl.Name = "Session", "Session"

	g, err := New(WithTypes("Session"))
	require.NoError(t, err)
	res, err := g.Generate(ctx, []*load.Struct{userStruct(dir), session})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "session_orm.go")}, res.Files)

	g, err = New(WithTypes("Session", "Missing"))
	require.NoError(t, err)
	_, err = g.Generate(ctx, []*load.Struct{session})
	assert.True(t, IsConfigError(err))
	assert.ErrorContains(t, err, "Missing")

	g, err = New()
	require.NoError(t, err)
	_, err = g.Generate(ctx, nil)
	assert.True(t, IsGenerateError(err))
	assert.ErrorContains(t, err, "no annotated types found")
}

func TestGenerateConflicts(t *testing.T) {
	ctx := context.Background()
	a := userStruct("")
	a.Name, a.Decl.Name = "UserID", "UserID"
	b := userStruct("")
	b.Name, b.Decl.Name = "UserId", "UserId"

	g, err := New()
	require.NoError(t, err)
	_, err = g.Generate(ctx, []*load.Struct{a, b})
	require.Error(t, err)
	assert.ErrorContains(t, err, "output file already generated for UserID")

	item := userStruct("")
	item.Name, item.Decl.Name = "Item", "Item"
	itemTable := userStruct("")
	itemTable.Name, itemTable.Decl.Name = "ItemTable", "ItemTable"
	itemTable.Decl.Fields = []schema.FieldDecl{{Name: "ID", Type: "int64", Tag: `orm:"primary_key"`}}
	item.Decl.Fields = append(item.Decl.Fields, schema.FieldDecl{Name: "TableID", Type: "int64"})
	_, err = g.Generate(ctx, []*load.Struct{item, itemTable})
	require.Error(t, err)
	assert.ErrorContains(t, err, "generated identifier ItemTable declared by both type ItemTable and the table descriptor of Item")
	assert.ErrorContains(t, err, "generated identifier ItemTableID declared by both field Item.TableID and field ItemTable.ID")
}

func TestGenerateCompiles(t *testing.T) {
	if testing.Short() {
		t.Skip("type checks generated code")
	}
	ctx := context.Background()
	dir, err := os.MkdirTemp("testdata", "compile")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	src, err := os.ReadFile("testdata/models/models.go")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.go"), src, 0o644))

	structs, err := (&load.Config{Patterns: []string{"./" + filepath.ToSlash(dir)}}).Load()
	require.NoError(t, err)
	require.Len(t, structs, 3)
	status := structs[0].PkgPath + ".Status"

	g, err := New(WithKind(status, value.KindText))
	require.NoError(t, err)
	res, err := g.Generate(ctx, structs)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	for _, name := range []string{"event_orm.go", "session_orm.go", "user_orm.go"} {
		abs, err := filepath.Abs(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, res.Files, abs)
	}
	typeCheck(t, dir, "EventTable", "EventPrevious", "NewSessionClient", "UserClient", "userCodec")
}

func TestGenerateTarget(t *testing.T) {
	if testing.Short() {
		t.Skip("type checks generated code")
	}
	ctx := context.Background()
	structs, err := (&load.Config{Patterns: []string{"./testdata/models"}}).Load()
	require.NoError(t, err)
	require.Len(t, structs, 3)
	kind := WithKind(structs[0].PkgPath+".Status", value.KindText)

	t.Run("Copy", func(t *testing.T) {
		dir, err := os.MkdirTemp("testdata", "target")
		require.NoError(t, err)
		t.Cleanup(func() { os.RemoveAll(dir) })
		src, err := os.ReadFile("testdata/models/models.go")
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "models.go"), src, 0o644))

		g, err := New(WithTarget(dir), kind)
		require.NoError(t, err)
		res, err := g.Generate(ctx, structs)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "event_orm.go"),
			filepath.Join(dir, "session_orm.go"),
			filepath.Join(dir, "user_orm.go"),
		}, res.Files)
		typeCheck(t, dir, "EventTable", "NewSessionClient", "UserClient")
	})

	t.Run("ForeignPackage", func(t *testing.T) {
		dir, err := os.MkdirTemp("testdata", "target")
		require.NoError(t, err)
		t.Cleanup(func() { os.RemoveAll(dir) })
		require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.go"), []byte("package clients\n"), 0o644))

		g, err := New(WithTarget(dir), kind)
		require.NoError(t, err)
		_, err = g.Generate(ctx, structs)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.ErrorContains(t, err, "no type User of package models declared in the target directory")
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1, "nothing is written into a foreign package")
	})

	t.Run("Missing", func(t *testing.T) {
		g, err := New(WithTarget(filepath.Join(t.TempDir(), "missing")), kind)
		require.NoError(t, err)
		_, err = g.Generate(ctx, structs)
		assert.True(t, IsConfigError(err))
	})
}

// typeCheck loads the package in dir and fails the test on any error.
func typeCheck(t *testing.T, dir string, names ...string) {
	t.Helper()
	pkgs, err := packages.Load(&packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
	}, "./"+filepath.ToSlash(dir))
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	for _, e := range pkgs[0].Errors {
		t.Error(e)
	}
	scope := pkgs[0].Types.Scope()
	for _, name := range names {
		assert.NotNil(t, scope.Lookup(name), name)
	}
}
