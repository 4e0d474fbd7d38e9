package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/0xhappyboy/bubble/value"
)

// FieldDecl is one field of a struct declaration, in source order.
type FieldDecl struct {
	Name     string
	Type     string // canonical Go type, see value.Register
	Tag      string // raw struct tag
	Embedded bool
}

// Declaration is the source-level shape of a struct type, as seen by the
// build-time loader or by reflection.
type Declaration struct {
	Name   string
	Fields []FieldDecl
}

// Derive builds the descriptor of decl from its field annotations.
//
// Every field with an exported name is mapped unless it is annotated with
// "-". Unexported fields are ignored unless annotated, which is an error.
// Exactly one field must be the primary key; an integer key is generated by
// the database.
func Derive(decl Declaration) (*Descriptor, error) {
	table := SnakeCase(decl.Name)
	var columns []*Column
	for _, f := range decl.Fields {
		ann, tagged, err := ParseTag(f.Tag)
		if err != nil {
			return nil, &Error{Type: decl.Name, Field: f.Name, Msg: "invalid annotation", Err: err}
		}
		if f.Name == "_" {
			if !tagged {
				continue
			}
			if ann.Table == "" || ann.Column != "" || ann.PrimaryKey || ann.Nullable || ann.Skip {
				return nil, fieldError(decl.Name, f.Name, "blank field only accepts the table annotation")
			}
			table = ann.Table
			continue
		}
		if tagged && ann.Table != "" {
			return nil, fieldError(decl.Name, f.Name, "table annotation is only valid on a blank field")
		}
		if tagged && ann.Skip {
			continue
		}
		if f.Embedded {
			return nil, fieldError(decl.Name, f.Name, "embedded fields are not supported; exclude them with `orm:\"-\"`")
		}
		if !exported(f.Name) {
			if tagged {
				return nil, fieldError(decl.Name, f.Name, "unexported field cannot be mapped")
			}
			continue
		}
		if ann == nil {
			ann = &Annotation{}
		}
		col, err := deriveColumn(decl.Name, f, ann)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	if len(columns) == 0 {
		return nil, typeError(decl.Name, "no mapped fields")
	}
	return New(decl.Name, table, columns)
}

func deriveColumn(typ string, f FieldDecl, ann *Annotation) (*Column, error) {
	base, pointer := strings.CutPrefix(f.Type, "*")
	switch {
	case ann.Nullable && !pointer:
		return nil, fieldError(typ, f.Name, "nullable field must be a pointer, got %s", f.Type)
	case pointer && !ann.Nullable:
		return nil, fieldError(typ, f.Name, "pointer field %s must be annotated nullable", f.Type)
	case strings.HasPrefix(base, "*"):
		return nil, fieldError(typ, f.Name, "unsupported type %s", f.Type)
	}
	kind, ok := value.Lookup(base)
	if !ok {
		return nil, fieldError(typ, f.Name, "no value kind registered for %s", base)
	}
	name := ann.Column
	if name == "" {
		name = SnakeCase(f.Name)
	}
	return &Column{
		Field:      f.Name,
		Name:       name,
		Kind:       kind,
		GoType:     f.Type,
		Nullable:   ann.Nullable,
		PrimaryKey: ann.PrimaryKey,
		Generated:  ann.PrimaryKey && kind == value.KindInt,
	}, nil
}

func exported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
