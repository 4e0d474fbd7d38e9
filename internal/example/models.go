// Package example is a small application built on bubble: annotated models,
// the code bubblegen generates for them, and a Store wiring the generated
// clients to one connection.
package example

//go:generate go run github.com/0xhappyboy/bubble/cmd/bubblegen .

import (
	"time"

	"github.com/google/uuid"
)

// User is an account. Its key is assigned by the database.
type User struct {
	ID    int64 `orm:"primary_key"`
	Name  string
	Email *string `orm:"nullable"`
}

// Session is a login session of a user. Its key is chosen by the
// application.
type Session struct {
	_       struct{}  `orm:"table=sessions"`
	Token   uuid.UUID `orm:"primary_key"`
	UserID  int64     `orm:"column=owner_id"`
	Expires time.Time
	Data    []byte
}

// Product is a catalogue entry.
type Product struct {
	_       struct{} `orm:"table=products"`
	ID      int32    `orm:"primary_key"`
	Title   string
	Price   float64
	Stock   int32
	Active  bool
	Retired *time.Time `orm:"nullable"`
}
