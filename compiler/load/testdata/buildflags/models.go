package buildflags

// Group is always loaded.
type Group struct {
	ID int64 `orm:"primary_key"`
}
