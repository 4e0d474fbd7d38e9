package schema

import (
	"fmt"
	"reflect"
	"sync"
)

// descriptors caches derivations per struct type. Each entry holds a
// sync.OnceValues so a type is derived at most once.
var descriptors sync.Map // reflect.Type -> func() (*Descriptor, error)

// For returns the descriptor of the struct type T, deriving it through
// reflection on first use.
func For[T any]() (*Descriptor, error) {
	return ForType(reflect.TypeFor[T]())
}

// ForType is like For for a reflect.Type. Pointer types are dereferenced.
func ForType(t reflect.Type) (*Descriptor, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, typeError(t.String(), "not a struct type")
	}
	if f, ok := descriptors.Load(t); ok {
		return f.(func() (*Descriptor, error))()
	}
	f, _ := descriptors.LoadOrStore(t, sync.OnceValues(func() (*Descriptor, error) {
		return Derive(DeclarationOf(t))
	}))
	return f.(func() (*Descriptor, error))()
}

// DeclarationOf returns the declaration of the struct type t.
func DeclarationOf(t reflect.Type) Declaration {
	decl := Declaration{Name: t.Name(), Fields: make([]FieldDecl, t.NumField())}
	for i := range t.NumField() {
		f := t.Field(i)
		decl.Fields[i] = FieldDecl{
			Name:     f.Name,
			Type:     TypeName(f.Type),
			Tag:      string(f.Tag),
			Embedded: f.Anonymous,
		}
	}
	return decl
}

// TypeName returns the canonical string form of t used by the value
// registry. It matches what go/types prints with package paths as
// qualifiers.
func TypeName(t reflect.Type) string {
	switch {
	case t.Name() != "" && t.PkgPath() != "":
		return t.PkgPath() + "." + t.Name()
	case t.Name() != "":
		return t.Name()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return "*" + TypeName(t.Elem())
	case reflect.Slice:
		if e := t.Elem(); e.Kind() == reflect.Uint8 && e.PkgPath() == "" {
			return "[]byte"
		}
		return "[]" + TypeName(t.Elem())
	case reflect.Array:
		return fmt.Sprintf("[%d]%s", t.Len(), TypeName(t.Elem()))
	}
	return t.String()
}
