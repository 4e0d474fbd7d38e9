package stale

// User had its Name field renamed after user_orm.go was generated.
type User struct {
	ID       int64 `orm:"primary_key"`
	FullName string
}
