package empty

// Config is not annotated.
type Config struct {
	Name string
}
