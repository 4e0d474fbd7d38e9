package orm

import (
	"context"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/dialect"
)

// WithTx runs fn in a transaction of drv. The transaction is committed when
// fn returns nil and rolled back when it fails or panics. A failed rollback
// is reported as a *bubble.RollbackError that wraps both errors.
//
//	err := orm.WithTx(ctx, drv, func(tx dialect.Tx) error {
//		if _, err := users.WithTx(tx).Insert(ctx, u); err != nil {
//			return err
//		}
//		_, err := audit.WithTx(tx).Insert(ctx, entry)
//		return err
//	})
func WithTx(ctx context.Context, drv dialect.Driver, fn func(tx dialect.Tx) error) error {
	tx, err := drv.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()
	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return &bubble.RollbackError{Err: err, Rollback: rerr}
		}
		return err
	}
	return tx.Commit()
}
