package valid

import (
	"time"

	"github.com/google/uuid"
)

// User is mapped to the "user" table.
type User struct {
	ID    int64 `orm:"primary_key"`
	Name  string
	Email *string `orm:"nullable"`
}

// Session is keyed by a client generated UUID.
type Session struct {
	_       struct{}  `orm:"table=sessions"`
	Token   uuid.UUID `orm:"primary_key"`
	UserID  int64     `orm:"column=owner_id"`
	Expires time.Time
	Data    []byte
	Note    string `orm:"-"`
	cache   map[string]string
}

// Plain has no annotations and is ignored.
type Plain struct {
	ID int64
}

// Page is generic and is ignored.
type Page[T any] struct {
	Items []T `orm:"-"`
}

// Alias is ignored.
type Alias = User

// Status is not a struct.
type Status string
