// Package query builds the parameterized statements behind the generated
// create, read, update and delete operations.
//
// Builders are pure: they take a schema.Descriptor, the dialect.Flavor of the
// target connection and the values to bind, and return a dialect.Statement.
// Column order always follows the descriptor, and values are only ever bound
// as parameters.
//
//	st, err := query.Select(UserTable, drv.Flavor(), UserName.EQ("Ana"))
//	// SELECT id, name, email FROM user WHERE name = ?   ["Ana"]
//
// Filters are conjunctions of field equalities. Disjunctions, grouping and
// other operators are not supported; use dialect.Raw for those statements.
package query
