// Package schema holds the table metadata of annotated struct types.
//
// A Descriptor lists the columns of a type in field declaration order, with
// their value kinds, nullability and the single primary key. Descriptors are
// derived from struct declarations and their `orm` tags:
//
//	type Account struct {
//	    _       struct{}  `orm:"table=accounts"`
//	    ID      uuid.UUID `orm:"primary_key"`
//	    Owner   string    `orm:"column=owner_name"`
//	    Closed  *time.Time `orm:"nullable"`
//	    scratch int
//	}
//
// The code generator derives descriptors at build time from go/types and
// emits them as literals checked by New. For and ForType derive them at run
// time through reflection and cache the result per type.
//
// Derivation failures are *Error values matching bubble.ErrSchema; they stop
// code generation.
package schema
