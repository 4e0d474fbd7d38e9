package broken

// User references an undefined type.
type User struct {
	ID   int64 `orm:"primary_key"`
	Name Missing
}
