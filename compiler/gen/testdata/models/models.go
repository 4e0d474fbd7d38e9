package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is stored as text.
type Status string

// User has a database assigned key.
type User struct {
	ID    int64 `orm:"primary_key"`
	Name  string
	Email *string `orm:"nullable"`
}

// Session has a client assigned key.
type Session struct {
	_       struct{}  `orm:"table=sessions"`
	Token   uuid.UUID `orm:"primary_key"`
	UserID  int64     `orm:"column=owner_id"`
	Expires time.Time
	Data    []byte
}

// Event exercises the conversions without a direct value constructor.
type Event struct {
	ID       int32 `orm:"primary_key"`
	Status   Status
	Previous *Status `orm:"nullable"`
	Weight   float32
	Seen     *bool `orm:"nullable"`
	Count    uint64
	At       *time.Time `orm:"nullable"`
	Internal string     `orm:"-"`
}
