package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/0xhappyboy/bubble/schema"
	"github.com/0xhappyboy/bubble/value"
)

const (
	schemaPkg  = "github.com/0xhappyboy/bubble/schema"
	valuePkg   = "github.com/0xhappyboy/bubble/value"
	queryPkg   = "github.com/0xhappyboy/bubble/query"
	dialectPkg = "github.com/0xhappyboy/bubble/dialect"
	ormPkg     = "github.com/0xhappyboy/bubble/orm"
)

var kindIdents = map[value.Kind]string{
	value.KindInt:   "KindInt",
	value.KindFloat: "KindFloat",
	value.KindBool:  "KindBool",
	value.KindText:  "KindText",
	value.KindTime:  "KindTime",
	value.KindBlob:  "KindBlob",
	value.KindUUID:  "KindUUID",
}

// constructors are the value constructors that take a Go type directly.
// Types listed in widen are converted first.
var (
	constructors = map[string]string{
		"int64":                       "Int",
		"float64":                     "Float",
		"bool":                        "Bool",
		"string":                      "Text",
		"time.Time":                   "Time",
		"[]byte":                      "Blob",
		"[]uint8":                     "Blob",
		"github.com/google/uuid.UUID": "UUID",
	}
	widen = map[string]string{
		"int":     "int64",
		"int8":    "int64",
		"int16":   "int64",
		"int32":   "int64",
		"uint8":   "int64",
		"uint16":  "int64",
		"uint32":  "int64",
		"float32": "float64",
	}
)

func kindCode(k value.Kind) *jen.Statement {
	return jen.Qual(valuePkg, kindIdents[k])
}

// typeCode returns the code of a canonical Go type string, as produced by
// load.TypeString.
func typeCode(goType string) *jen.Statement {
	switch {
	case strings.HasPrefix(goType, "*"):
		return jen.Op("*").Add(typeCode(goType[1:]))
	case strings.HasPrefix(goType, "[]"):
		return jen.Index().Add(typeCode(goType[2:]))
	}
	if i := strings.LastIndex(goType, "."); i > 0 && !strings.HasPrefix(goType, "[") {
		return jen.Qual(goType[:i], goType[i+1:])
	}
	return jen.Id(goType)
}

// encodeCode returns the expression encoding x, a value of the base type of
// c. Types without a direct constructor go through value.Encode, which may
// fail.
func encodeCode(c *schema.Column, x *jen.Statement) (code *jen.Statement, fallible bool) {
	base := baseType(c)
	if conv, ok := widen[base]; ok {
		if name, ok := constructors[conv]; ok && kindOfType(conv) == c.Kind {
			return jen.Qual(valuePkg, name).Call(jen.Id(conv).Call(x)), false
		}
	}
	if name, ok := constructors[base]; ok && kindOfType(base) == c.Kind {
		return jen.Qual(valuePkg, name).Call(x), false
	}
	return jen.Qual(valuePkg, "Encode").Call(x, kindCode(c.Kind)), true
}

func kindOfType(goType string) value.Kind {
	k, _ := value.Lookup(goType)
	return k
}

// file returns the generated file of t.
func (g *Generator) file(t *Type) *jen.File {
	f := jen.NewFilePathName(t.PkgPath, t.PkgName)
	f.HeaderComment(g.cfg.header())
	g.descriptor(f, t)
	g.filters(f, t)
	g.codec(f, t)
	g.client(f, t)
	return f
}

func (g *Generator) descriptor(f *jen.File, t *Type) {
	f.Commentf("%s describes how %s maps onto table %q.", t.TableVar(), t.Name, t.Desc.Table)
	f.Var().Id(t.TableVar()).Op("=").Qual(schemaPkg, "Must").Call(
		jen.Qual(schemaPkg, "New").Call(
			jen.Lit(t.Name),
			jen.Lit(t.Desc.Table),
			jen.Index().Op("*").Qual(schemaPkg, "Column").CustomFunc(jen.Options{
				Open:      "{",
				Close:     "}",
				Separator: ",",
				Multi:     true,
			}, func(grp *jen.Group) {
				for _, c := range t.Desc.Columns {
					grp.Values(columnFields(c)...)
				}
			}),
		),
	)
}

func columnFields(c *schema.Column) []jen.Code {
	fields := []jen.Code{
		jen.Id("Field").Op(":").Lit(c.Field),
		jen.Id("Name").Op(":").Lit(c.Name),
		jen.Id("Kind").Op(":").Add(kindCode(c.Kind)),
		jen.Id("GoType").Op(":").Lit(c.GoType),
	}
	for _, flag := range []struct {
		name string
		set  bool
	}{
		{"Nullable", c.Nullable},
		{"PrimaryKey", c.PrimaryKey},
		{"Generated", c.Generated},
	} {
		if flag.set {
			fields = append(fields, jen.Id(flag.name).Op(":").True())
		}
	}
	return fields
}

func (g *Generator) filters(f *jen.File, t *Type) {
	f.Commentf("Filter fields of %s. EQ builds an equality condition for %s.FindAll and %s.Count.", t.Name, t.ClientName(), t.ClientName())
	f.Var().DefsFunc(func(grp *jen.Group) {
		for _, c := range t.Desc.Columns {
			grp.Id(t.FieldVar(c)).Op("=").Qual(queryPkg, "Field").Types(typeCode(baseType(c))).Values(
				jen.Id("Column").Op(":").Lit(c.Name),
				jen.Id("Kind").Op(":").Add(kindCode(c.Kind)),
			)
		}
	})
}

func (g *Generator) codec(f *jen.File, t *Type) {
	codec := t.CodecName()
	model := jen.Id(t.Name)

	f.Commentf("%s converts %s values to and from rows of %s.", codec, t.Name, t.Desc.Table)
	f.Type().Id(codec).Struct()

	// Values
	var (
		body     []jen.Code
		fallible bool
	)
	body = append(body, jen.Id("vals").Op(":=").Make(jen.Index().Qual(valuePkg, "Value"), jen.Lit(len(t.Desc.Columns))))
	for i, c := range t.Desc.Columns {
		stmts, failed := valueStmts(i, c)
		fallible = fallible || failed
		body = append(body, stmts...)
	}
	if fallible {
		body = append([]jen.Code{jen.Var().Err().Error()}, body...)
	}
	body = append(body, jen.Return(jen.Id("vals"), jen.Nil()))
	f.Comment("Values returns the column values of m in column order.")
	f.Func().Params(jen.Id(codec)).Id("Values").Params(jen.Id("m").Op("*").Add(model)).Params(
		jen.Index().Qual(valuePkg, "Value"), jen.Error(),
	).Block(body...)

	// Decode
	body = []jen.Code{
		jen.Var().Defs(
			jen.Id("m").Add(model),
			jen.Err().Error(),
		),
	}
	for i, c := range t.Desc.Columns {
		fn := "Column"
		if c.Nullable {
			fn = "OptionalColumn"
		}
		body = append(body, jen.If(
			jen.List(jen.Id("m").Dot(c.Field), jen.Err()).Op("=").Qual(ormPkg, fn).Types(typeCode(baseType(c))).Call(
				jen.Id("row"),
				jen.Id(t.TableVar()).Dot("Columns").Index(jen.Lit(i)),
			),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err())))
	}
	body = append(body, jen.Return(jen.Op("&").Id("m"), jen.Nil()))
	f.Comment("Decode builds a " + t.Name + " from a result row.")
	f.Func().Params(jen.Id(codec)).Id("Decode").Params(jen.Id("row").Qual(dialectPkg, "Row")).Params(
		jen.Op("*").Add(model), jen.Error(),
	).Block(body...)

	// SetKey
	key := t.Key()
	f.Comment("SetKey stores the key assigned on insert.")
	f.Func().Params(jen.Id(codec)).Id("SetKey").Params(
		jen.Id("m").Op("*").Add(model),
		jen.Id("key").Qual(valuePkg, "Value"),
	).Params(jen.Err().Error()).Block(
		jen.List(jen.Id("m").Dot(key.Field), jen.Err()).Op("=").Qual(valuePkg, "Decode").Types(typeCode(key.GoType)).Call(
			jen.Id("key"), kindCode(key.Kind),
		),
		jen.Return(jen.Err()),
	)
}

// valueStmts returns the statements storing the value of column i in vals.
func valueStmts(i int, c *schema.Column) ([]jen.Code, bool) {
	slot := func() *jen.Statement { return jen.Id("vals").Index(jen.Lit(i)) }
	field := func() *jen.Statement { return jen.Id("m").Dot(c.Field) }
	assign := func(code *jen.Statement, fallible bool) jen.Code {
		if !fallible {
			return slot().Op("=").Add(code)
		}
		return jen.If(
			jen.List(slot(), jen.Err()).Op("=").Add(code),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Nil(), jen.Err()))
	}

	switch {
	case c.Generated:
		// The zero key lets the database assign one.
		code, fallible := encodeCode(c, field())
		return []jen.Code{
			slot().Op("=").Qual(valuePkg, "Null").Call(kindCode(c.Kind)),
			jen.If(field().Op("!=").Lit(0)).Block(assign(code, fallible)),
		}, fallible
	case c.Nullable:
		code, fallible := encodeCode(c, jen.Op("*").Add(field()))
		if fallible {
			return []jen.Code{assign(jen.Qual(valuePkg, "EncodeOptional").Call(field(), kindCode(c.Kind)), true)}, true
		}
		return []jen.Code{
			slot().Op("=").Qual(valuePkg, "Null").Call(kindCode(c.Kind)),
			jen.If(field().Op("!=").Nil()).Block(assign(code, false)),
		}, false
	default:
		code, fallible := encodeCode(c, field())
		return []jen.Code{assign(code, fallible)}, fallible
	}
}

func (g *Generator) client(f *jen.File, t *Type) {
	var (
		client = t.ClientName()
		model  = func() *jen.Statement { return jen.Id(t.Name) }
		repo   = func() *jen.Statement { return jen.Id("c").Dot("repo") }
		recv   = func() *jen.Statement { return jen.Id("c").Op("*").Id(client) }
		ctx    = func() *jen.Statement { return jen.Id("ctx").Qual("context", "Context") }
		key    = t.Key()
	)

	f.Commentf("%s runs the database operations of %s.", client, t.Name)
	f.Type().Id(client).Struct(
		jen.Id("repo").Op("*").Qual(ormPkg, "Repo").Types(model()),
	)

	f.Commentf("%s returns a client for %s executing on conn.", t.ClientConstructor(), t.Name)
	f.Func().Id(t.ClientConstructor()).Params(
		jen.Id("conn").Qual(dialectPkg, "ExecQuerier"),
		jen.Id("opts").Op("...").Qual(ormPkg, "Option"),
	).Op("*").Id(client).Block(
		jen.Return(jen.Op("&").Id(client).Values(
			jen.Id("repo").Op(":").Qual(ormPkg, "NewRepo").Types(model()).Call(
				jen.Id("conn"), jen.Id(t.TableVar()), jen.Id(t.CodecName()).Values(), jen.Id("opts").Op("..."),
			),
		)),
	)

	f.Comment("WithTx returns a copy of the client executing on tx.")
	f.Func().Params(recv()).Id("WithTx").Params(jen.Id("tx").Qual(dialectPkg, "ExecQuerier")).Op("*").Id(client).Block(
		jen.Return(jen.Op("&").Id(client).Values(
			jen.Id("repo").Op(":").Add(repo()).Dot("With").Call(jen.Id("tx")),
		)),
	)

	f.Comment("Repo returns the underlying repository, e.g. to run raw statements.")
	f.Func().Params(recv()).Id("Repo").Params().Op("*").Qual(ormPkg, "Repo").Types(model()).Block(
		jen.Return(repo()),
	)

	keyType := typeCode(key.GoType)
	insertDoc := "Insert inserts m and returns its key."
	if key.Generated {
		insertDoc = "Insert inserts m, stores the key assigned by the database in m." + key.Field + " and returns it."
	}
	f.Comment(insertDoc)
	f.Func().Params(recv()).Id("Insert").Params(ctx(), jen.Id("m").Op("*").Add(model())).Params(
		jen.Id("key").Add(keyType), jen.Err().Error(),
	).Block(
		jen.If(
			jen.List(jen.Id("_"), jen.Err()).Op("=").Add(repo()).Dot("Insert").Call(jen.Id("ctx"), jen.Id("m")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Id("key"), jen.Err())),
		jen.Return(jen.Id("m").Dot(key.Field), jen.Nil()),
	)

	f.Comment("FindByKey returns the row with the given key, or nil if there is none.")
	f.Func().Params(recv()).Id("FindByKey").Params(ctx(), jen.Id("key").Add(typeCode(key.GoType))).Params(
		jen.Op("*").Add(model()), jen.Error(),
	).Block(keyCall(key, jen.Nil(), func(k jen.Code) *jen.Statement {
		return repo().Dot("FindByKey").Call(jen.Id("ctx"), k)
	})...)

	f.Comment("Update writes every column of m except the key, and returns the number of")
	f.Comment("rows affected. Zero means no row has the key of m.")
	f.Func().Params(recv()).Id("Update").Params(ctx(), jen.Id("m").Op("*").Add(model())).Params(
		jen.Int64(), jen.Error(),
	).Block(
		jen.Return(repo().Dot("Update").Call(jen.Id("ctx"), jen.Id("m"))),
	)

	f.Comment("Delete deletes the row with the given key and returns the number of rows")
	f.Comment("affected.")
	f.Func().Params(recv()).Id("Delete").Params(ctx(), jen.Id("key").Add(typeCode(key.GoType))).Params(
		jen.Int64(), jen.Error(),
	).Block(keyCall(key, jen.Lit(0), func(k jen.Code) *jen.Statement {
		return repo().Dot("Delete").Call(jen.Id("ctx"), k)
	})...)

	f.Comment("FindAll returns a cursor over the rows matching all conditions. The query")
	f.Comment("runs on the first call to Next.")
	f.Func().Params(recv()).Id("FindAll").Params(ctx(), jen.Id("conds").Op("...").Qual(queryPkg, "Cond")).Op("*").Qual(ormPkg, "Cursor").Types(model()).Block(
		jen.Return(repo().Dot("FindAll").Call(jen.Id("ctx"), jen.Id("conds").Op("..."))),
	)

	f.Comment("Count returns the number of rows matching all conditions.")
	f.Func().Params(recv()).Id("Count").Params(ctx(), jen.Id("conds").Op("...").Qual(queryPkg, "Cond")).Params(
		jen.Int64(), jen.Error(),
	).Block(
		jen.Return(repo().Dot("Count").Call(jen.Id("ctx"), jen.Id("conds").Op("..."))),
	)
}

// keyCall returns the statements encoding the key parameter and returning
// call(key). zero is returned with an encoding error.
func keyCall(key *schema.Column, zero jen.Code, call func(jen.Code) *jen.Statement) []jen.Code {
	code, fallible := encodeCode(key, jen.Id("key"))
	if !fallible {
		return []jen.Code{jen.Return(call(code))}
	}
	return []jen.Code{
		jen.List(jen.Id("k"), jen.Err()).Op(":=").Add(code),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(zero, jen.Err())),
		jen.Return(call(jen.Id("k"))),
	}
}
