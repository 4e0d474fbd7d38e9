package gen

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/0xhappyboy/bubble/compiler/load"
	"github.com/0xhappyboy/bubble/schema"
)

// Type is an annotated struct type prepared for generation.
type Type struct {
	*load.Struct
	Desc *schema.Descriptor
}

// NewType derives the descriptor of s and validates the identifiers the
// generated code declares for it.
func NewType(s *load.Struct) (*Type, error) {
	if !exported(s.Name) {
		return nil, NewGenerateError(s.Name, "", "annotated type must be exported", nil)
	}
	desc, err := schema.Derive(s.Decl)
	if err != nil {
		return nil, err
	}
	t := &Type{Struct: s, Desc: desc}
	seen := make(map[string]string)
	for _, d := range t.Declared() {
		if prev, ok := seen[d.Name]; ok {
			return nil, NewGenerateError(s.Name, "", "generated identifier "+d.Name+" declared by both "+prev+" and "+d.Origin, nil)
		}
		seen[d.Name] = d.Origin
	}
	return t, nil
}

// Declaration is a package level identifier declared by generated code.
type Declaration struct {
	Name   string
	Origin string // what declares it, for error messages
}

// Declared returns the package level identifiers the generated file of t
// declares.
func (t *Type) Declared() []Declaration {
	decls := []Declaration{
		{t.TableVar(), "the table descriptor of " + t.Name},
		{t.CodecName(), "the codec of " + t.Name},
		{t.ClientName(), "the client of " + t.Name},
		{t.ClientConstructor(), "the client constructor of " + t.Name},
	}
	for _, c := range t.Desc.Columns {
		decls = append(decls, Declaration{t.FieldVar(c), "field " + t.Name + "." + c.Field})
	}
	return decls
}

// Filename returns the name of the generated file, e.g. "user_account_orm.go".
func (t *Type) Filename() string {
	return schema.SnakeCase(t.Name) + FileSuffix
}

// OutputPath returns the path of the generated file for the given target
// directory. An empty target means the directory of the declaring file.
func (t *Type) OutputPath(target string) string {
	dir := target
	if dir == "" {
		dir = t.Dir
	}
	return filepath.Join(dir, t.Filename())
}

// TableVar returns the name of the descriptor variable, e.g. "UserTable".
func (t *Type) TableVar() string { return t.Name + "Table" }

// CodecName returns the name of the codec type, e.g. "userCodec".
func (t *Type) CodecName() string { return lowerFirst(t.Name) + "Codec" }

// ClientName returns the name of the client type, e.g. "UserClient".
func (t *Type) ClientName() string { return t.Name + "Client" }

// ClientConstructor returns the name of the client constructor.
func (t *Type) ClientConstructor() string { return "New" + t.ClientName() }

// FieldVar returns the name of the filter field variable of c, e.g.
// "UserEmail".
func (t *Type) FieldVar(c *schema.Column) string { return t.Name + c.Field }

// Key returns the primary key column.
func (t *Type) Key() *schema.Column { return t.Desc.PrimaryKey() }

// lowerFirst lowercases the leading run of upper case letters, keeping the
// last one of a longer run when it starts a new word: "User" is "user",
// "HTTPLog" is "httpLog" and "ID" is "id".
func lowerFirst(s string) string {
	runes := []rune(s)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return s
	case n > 1 && n < len(runes) && unicode.IsLower(runes[n]):
		n--
	}
	for i := range n {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// baseType returns the canonical Go type of c without the pointer of a
// nullable field.
func baseType(c *schema.Column) string {
	return strings.TrimPrefix(c.GoType, "*")
}

func exported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
