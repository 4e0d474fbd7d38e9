package models

// Level is stored as text.
type Level string

// Account has a database assigned key.
type Account struct {
	ID    int64 `orm:"primary_key"`
	Owner string
	Level Level
}

// helper is not annotated and is ignored.
type helper struct {
	n int
}
