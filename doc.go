// Package bubble is an annotation-driven object-relational mapper.
//
// Application types are plain Go structs whose fields carry an `orm` struct
// tag. The bubblegen command reads those declarations at build time and
// writes a <type>_orm.go file next to them with a typed client that inserts,
// finds, updates, deletes and enumerates records through a pluggable database
// abstraction.
//
// # Annotations
//
//	type User struct {
//	    _     struct{} `orm:"table=users"`
//	    ID    int64    `orm:"primary_key"`
//	    Name  string
//	    Email *string  `orm:"column=email_address,nullable"`
//	}
//
// The vocabulary is:
//
//   - table=<name>: rename the table (only on the blank field)
//   - column=<name>: rename the column of a field
//   - primary_key: mark the key field; exactly one is required
//   - nullable: allow NULL; the field must be a pointer
//   - -: exclude the field
//
// Table and column names default to the snake_case form of the Go names.
// An integer primary key is generated by the database on insert.
//
// # Packages
//
//   - value: the database value model and Go type mapping
//   - schema: table descriptors and their derivation from declarations
//   - dialect: the connection contract implemented by drivers
//   - dialect/sql: a driver on top of database/sql
//   - query: the statement builder used by generated code
//   - orm: the runtime shared by generated clients
//   - compiler/gen: the code generator behind cmd/bubblegen
//   - config: YAML database configuration and connection opening
//
// internal/example shows generated clients for a small shop schema.
//
// # Errors
//
// Run-time failures are *Error values classified by Kind. Use errors.Is with
// the Err sentinels, or the IsXxx helpers:
//
//	u, err := users.FindByKey(ctx, 1)
//	switch {
//	case bubble.IsDataIntegrity(err):
//	    // more than one row shares the key
//	case err != nil:
//	    return err
//	case u == nil:
//	    // no such user
//	}
package bubble
