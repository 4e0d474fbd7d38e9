package dialect

import (
	"context"
	"errors"
	"sync"

	"github.com/0xhappyboy/bubble"
)

type txState uint8

const (
	txActive txState = iota
	txFailed
	txDone
)

var (
	errTxDone   = errors.New("transaction already committed or rolled back")
	errTxFailed = errors.New("transaction aborted by a failed statement, only Rollback is allowed")
)

// GuardTx wraps tx with the transaction state machine shared by all
// drivers: once Commit or Rollback was called every operation fails with
// bubble.ErrInvalidState, and after a statement failed only Rollback is
// accepted.
func GuardTx(tx Tx) Tx {
	if g, ok := tx.(*guardedTx); ok {
		return g
	}
	return &guardedTx{tx: tx}
}

type guardedTx struct {
	tx    Tx
	mu    sync.Mutex
	state txState
}

func (g *guardedTx) check(op string, allowFailed bool) error {
	switch g.state {
	case txDone:
		return bubble.NewError(bubble.KindInvalidState, op, errTxDone)
	case txFailed:
		if !allowFailed {
			return bubble.NewError(bubble.KindInvalidState, op, errTxFailed)
		}
	}
	return nil
}

func (g *guardedTx) Exec(ctx context.Context, st Statement) (Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check("exec", false); err != nil {
		return Result{}, err
	}
	res, err := g.tx.Exec(ctx, st)
	if err != nil {
		g.state = txFailed
	}
	return res, err
}

func (g *guardedTx) Query(ctx context.Context, st Statement) (Rows, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check("query", false); err != nil {
		return nil, err
	}
	rows, err := g.tx.Query(ctx, st)
	if err != nil {
		g.state = txFailed
		return nil, err
	}
	if rows == nil {
		return nil, nil
	}
	return &guardedRows{Rows: rows, g: g}, nil
}

// fail marks an active transaction failed.
func (g *guardedTx) fail() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == txActive {
		g.state = txFailed
	}
}

// guardedRows fails its transaction when iteration ends with an error.
type guardedRows struct {
	Rows
	g *guardedTx
}

func (r *guardedRows) Err() error {
	err := r.Rows.Err()
	if err != nil {
		r.g.fail()
	}
	return err
}

func (g *guardedTx) Flavor() Flavor {
	return g.tx.Flavor()
}

func (g *guardedTx) Commit() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check("commit", false); err != nil {
		return err
	}
	g.state = txDone
	return g.tx.Commit()
}

func (g *guardedTx) Rollback() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check("rollback", true); err != nil {
		return err
	}
	g.state = txDone
	return g.tx.Rollback()
}
