//go:build hidden

package buildflags

// Hidden is only loaded with the "hidden" build tag.
type Hidden struct {
	ID int64 `orm:"primary_key"`
}
