package orm

import (
	"context"
	"iter"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/dialect"
)

// Cursor is a lazy, forward-only sequence of instances. It holds its
// connection until it is exhausted or closed, and cannot be restarted.
// It is not safe for concurrent use.
//
//	cur := users.FindAll(ctx, example.UserName.EQ("Ana"))
//	defer cur.Close()
//	for cur.Next() {
//		u, err := cur.Value()
//		if err != nil {
//			// the row could not be decoded; iteration may go on
//			continue
//		}
//		fmt.Println(u.Name)
//	}
//	if err := cur.Err(); err != nil {
//		return err
//	}
type Cursor[T any] struct {
	ctx  context.Context
	repo *Repo[T]
	op   string
	st   dialect.Statement

	rows    dialect.Rows
	cur     *T
	rowErr  error
	err     error
	started bool
	done    bool
}

func newCursor[T any](ctx context.Context, r *Repo[T], op string, st dialect.Statement, err error) *Cursor[T] {
	return &Cursor[T]{ctx: ctx, repo: r, op: op, st: st, err: r.wrap(op, err)}
}

// Next advances to the next row and reports whether there is one. A row
// that cannot be decoded still counts: its error is returned by Value.
func (c *Cursor[T]) Next() bool {
	if c.done {
		return false
	}
	if !c.started {
		c.started = true
		if c.err != nil {
			c.done = true
			return false
		}
		c.repo.log(c.ctx, c.op, c.st)
		rows, err := c.repo.conn.Query(c.ctx, c.st)
		if err != nil {
			c.fail(err)
			return false
		}
		c.rows = rows
	}
	c.cur, c.rowErr = nil, nil
	if !c.rows.Next() {
		c.fail(c.rows.Err())
		return false
	}
	row, err := c.rows.Row()
	if err != nil {
		c.rowErr = c.repo.wrap(c.op, err)
		return true
	}
	obj, err := c.repo.codec.Decode(row)
	if err != nil {
		c.rowErr = c.repo.wrap(c.op, err)
		return true
	}
	c.cur = obj
	return true
}

// fail ends the iteration with err, which may be nil.
func (c *Cursor[T]) fail(err error) {
	c.done = true
	if err != nil && c.err == nil {
		c.err = c.repo.wrap(c.op, err)
	}
	if c.rows != nil {
		if cerr := c.rows.Close(); cerr != nil && c.err == nil {
			c.err = c.repo.wrap(c.op, cerr)
		}
	}
}

// Value returns the instance of the current row, or the error met while
// decoding it.
func (c *Cursor[T]) Value() (*T, error) {
	return c.cur, c.rowErr
}

// Err returns the error, if any, that ended the iteration. Errors of single
// rows are reported by Value, not by Err.
func (c *Cursor[T]) Err() error {
	return c.err
}

// Close releases the connection held by the cursor. It is safe to call more
// than once.
func (c *Cursor[T]) Close() error {
	if c.done {
		return nil
	}
	c.started, c.done = true, true
	if c.rows == nil {
		return nil
	}
	return c.repo.wrap(c.op, c.rows.Close())
}

// All returns an iterator over the remaining rows. Row errors are yielded
// in place of the instance, and an error that ends the iteration is yielded
// last. The cursor is closed when the loop ends. A cursor that was already
// iterated yields a single invalid state error.
//
//	for u, err := range users.FindAll(ctx).All() {
//		...
//	}
func (c *Cursor[T]) All() iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		if c.started {
			yield(nil, c.repo.wrap(c.op, bubble.Errorf(bubble.KindInvalidState, "cursor already consumed")))
			return
		}
		defer c.Close()
		for c.Next() {
			if !yield(c.Value()) {
				return
			}
		}
		if c.err != nil {
			yield(nil, c.err)
		}
	}
}

// Collect reads the remaining rows into a slice and closes the cursor. It
// stops at the first error.
func (c *Cursor[T]) Collect() ([]*T, error) {
	var objs []*T
	for obj, err := range c.All() {
		if err != nil {
			return objs, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}
