package sql

import (
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/0xhappyboy/bubble"
)

// PostgreSQL SQLSTATE codes.
const (
	pgQueryCanceled       = "57014" // statement_timeout
	pgLockNotAvailable    = "55P03" // lock_timeout
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// MySQL error numbers.
const (
	mysqlLockWaitTimeout        = 1205
	mysqlQueryTimeout           = 3024 // max_execution_time exceeded
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451
	mysqlForeignKeyChild        = 1452
	mysqlCheckConstraintViolate = 3819
)

// wrapError classifies a database/sql error into a *bubble.Error, mostly of
// kind Timeout or Driver. The original error stays reachable with errors.As.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := as[*bubble.Error](err); ok {
		return err
	}
	switch {
	case errors.Is(err, sql.ErrTxDone):
		return bubble.NewError(bubble.KindInvalidState, op, err)
	case IsTimeoutError(err):
		return bubble.NewError(bubble.KindTimeout, op, err)
	}
	return bubble.NewError(bubble.KindDriver, op, err)
}

// IsTimeoutError reports whether err is a deadline expiry or a timeout
// reported by one of the supported drivers.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if e, ok := as[*pq.Error](err); ok {
		return e.Code == pgQueryCanceled || e.Code == pgLockNotAvailable
	}
	if e, ok := as[*mysql.MySQLError](err); ok {
		return e.Number == mysqlLockWaitTimeout || e.Number == mysqlQueryTimeout
	}
	if e, ok := as[*sqlite.Error](err); ok {
		code := e.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}
	return false
}

// IsConstraintError reports whether err resulted from a database constraint
// violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err)
}

// IsUniqueConstraintError reports whether err resulted from a uniqueness
// constraint violation, e.g. a duplicate primary key.
func IsUniqueConstraintError(err error) bool {
	return matchConstraint(err, constraint{
		pg:       []string{pgUniqueViolation},
		mysql:    []uint16{mysqlDuplicateEntry},
		sqlite:   []int{sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY},
		messages: []string{"violates unique constraint", "UNIQUE constraint failed"},
	})
}

// IsForeignKeyConstraintError reports whether err resulted from a foreign
// key constraint violation.
func IsForeignKeyConstraintError(err error) bool {
	return matchConstraint(err, constraint{
		pg:       []string{pgForeignKeyViolation},
		mysql:    []uint16{mysqlForeignKeyParent, mysqlForeignKeyChild},
		sqlite:   []int{sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY},
		messages: []string{"violates foreign key constraint", "FOREIGN KEY constraint failed"},
	})
}

// IsCheckConstraintError reports whether err resulted from a check
// constraint violation.
func IsCheckConstraintError(err error) bool {
	return matchConstraint(err, constraint{
		pg:       []string{pgCheckViolation},
		mysql:    []uint16{mysqlCheckConstraintViolate},
		sqlite:   []int{sqlite3.SQLITE_CONSTRAINT_CHECK},
		messages: []string{"violates check constraint", "CHECK constraint failed"},
	})
}

type constraint struct {
	pg       []string
	mysql    []uint16
	sqlite   []int
	messages []string
}

func matchConstraint(err error, c constraint) bool {
	if err == nil {
		return false
	}
	if e, ok := as[*pq.Error](err); ok {
		return slices.Contains(c.pg, string(e.Code))
	}
	if e, ok := as[*mysql.MySQLError](err); ok {
		return slices.Contains(c.mysql, e.Number)
	}
	if e, ok := as[*sqlite.Error](err); ok && slices.Contains(c.sqlite, e.Code()) {
		return true
	}
	// SQLite without extended result codes, and drivers that only keep the
	// message.
	msg := err.Error()
	for _, m := range c.messages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func as[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
