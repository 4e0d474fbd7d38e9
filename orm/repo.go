package orm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/0xhappyboy/bubble"
	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/query"
	"github.com/0xhappyboy/bubble/schema"
	"github.com/0xhappyboy/bubble/value"
)

// Operation names reported in errors.
const (
	OpInsert    = "insert"
	OpFindByKey = "find_by_key"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpFindAll   = "find_all"
	OpCount     = "count"
	OpRaw       = "raw"
)

// Option configures a Repo.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger logs every operation at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Repo runs the create, read, update and delete operations of T against a
// connection. Generated clients wrap one Repo each. A Repo is safe for
// concurrent use when its connection is.
type Repo[T any] struct {
	conn  dialect.ExecQuerier
	desc  *schema.Descriptor
	codec Codec[T]
	opts  options
}

// NewRepo returns a repository for the type described by desc.
func NewRepo[T any](conn dialect.ExecQuerier, desc *schema.Descriptor, codec Codec[T], opts ...Option) *Repo[T] {
	r := &Repo[T]{conn: conn, desc: desc, codec: codec}
	for _, opt := range opts {
		opt(&r.opts)
	}
	return r
}

// With returns a copy of the repository that runs on conn, typically a
// transaction.
func (r *Repo[T]) With(conn dialect.ExecQuerier) *Repo[T] {
	c := *r
	c.conn = conn
	return &c
}

// Descriptor returns the descriptor of T.
func (r *Repo[T]) Descriptor() *schema.Descriptor { return r.desc }

// Conn returns the connection the repository runs on.
func (r *Repo[T]) Conn() dialect.ExecQuerier { return r.conn }

// Insert writes obj as a new row and returns its primary key. A generated
// key is read back with RETURNING when the connection supports it, or from
// the last insert id otherwise, and stored in obj.
func (r *Repo[T]) Insert(ctx context.Context, obj *T) (value.Value, error) {
	key, err := r.insert(ctx, obj)
	return key, r.wrap(OpInsert, err)
}

func (r *Repo[T]) insert(ctx context.Context, obj *T) (value.Value, error) {
	vals, err := r.codec.Values(obj)
	if err != nil {
		return value.Value{}, err
	}
	fl := r.conn.Flavor()
	st, err := query.Insert(r.desc, fl, vals)
	if err != nil {
		return value.Value{}, err
	}
	r.log(ctx, OpInsert, st)
	pk := r.desc.PrimaryKey()
	if !pk.Generated {
		if _, err := r.conn.Exec(ctx, st); err != nil {
			return value.Value{}, err
		}
		return vals[r.desc.KeyIndex()], nil
	}
	var key value.Value
	if fl.Returning {
		if key, err = r.returning(ctx, st); err != nil {
			return value.Value{}, err
		}
	} else {
		res, err := r.conn.Exec(ctx, st)
		if err != nil {
			return value.Value{}, err
		}
		if !res.HasLastInsertID {
			return value.Value{}, bubble.Errorf(bubble.KindDriver, "driver did not report the generated key of %s", r.desc.Table)
		}
		key = value.Int(res.LastInsertID)
	}
	if err := r.codec.SetKey(obj, key); err != nil {
		return value.Value{}, err
	}
	return key, nil
}

func (r *Repo[T]) returning(ctx context.Context, st dialect.Statement) (_ value.Value, rerr error) {
	rows, err := r.conn.Query(ctx, st)
	if err != nil {
		return value.Value{}, err
	}
	defer closeRows(rows, &rerr)
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return value.Value{}, err
		}
		return value.Value{}, bubble.Errorf(bubble.KindDataIntegrity, "insert into %s returned no key", r.desc.Table)
	}
	row, err := rows.Row()
	if err != nil {
		return value.Value{}, err
	}
	if row.Len() != 1 {
		return value.Value{}, bubble.Errorf(bubble.KindDataIntegrity, "insert into %s returned %d columns", r.desc.Table, row.Len())
	}
	return row.Value(0), nil
}

// FindByKey returns the instance with the given primary key, or nil if there
// is none. More than one matching row is a data integrity error.
func (r *Repo[T]) FindByKey(ctx context.Context, key value.Value) (*T, error) {
	obj, err := r.findByKey(ctx, key)
	return obj, r.wrap(OpFindByKey, err)
}

func (r *Repo[T]) findByKey(ctx context.Context, key value.Value) (_ *T, rerr error) {
	st, err := query.SelectByKey(r.desc, r.conn.Flavor(), key)
	if err != nil {
		return nil, err
	}
	r.log(ctx, OpFindByKey, st)
	rows, err := r.conn.Query(ctx, st)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, &rerr)
	if !rows.Next() {
		return nil, rows.Err()
	}
	row, err := rows.Row()
	if err != nil {
		return nil, err
	}
	// A shared key is reported even when the first row does not decode.
	if rows.Next() {
		return nil, bubble.Errorf(bubble.KindDataIntegrity, "more than one %s row with key %s", r.desc.Table, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return r.codec.Decode(row)
}

// Update writes every non-key column of obj to the row with the same key and
// returns the number of affected rows. No affected row is not an error.
func (r *Repo[T]) Update(ctx context.Context, obj *T) (int64, error) {
	n, err := r.update(ctx, obj)
	return n, r.wrap(OpUpdate, err)
}

func (r *Repo[T]) update(ctx context.Context, obj *T) (int64, error) {
	vals, err := r.codec.Values(obj)
	if err != nil {
		return 0, err
	}
	st, err := query.Update(r.desc, r.conn.Flavor(), vals)
	if err != nil {
		return 0, err
	}
	r.log(ctx, OpUpdate, st)
	res, err := r.conn.Exec(ctx, st)
	return res.RowsAffected, err
}

// Delete removes the row with the given key and returns the number of
// affected rows. No affected row is not an error.
func (r *Repo[T]) Delete(ctx context.Context, key value.Value) (int64, error) {
	n, err := r.delete(ctx, key)
	return n, r.wrap(OpDelete, err)
}

func (r *Repo[T]) delete(ctx context.Context, key value.Value) (int64, error) {
	st, err := query.Delete(r.desc, r.conn.Flavor(), key)
	if err != nil {
		return 0, err
	}
	r.log(ctx, OpDelete, st)
	res, err := r.conn.Exec(ctx, st)
	return res.RowsAffected, err
}

// FindAll returns a cursor over the instances matching the conditions. The
// statement runs on the first call to Next.
func (r *Repo[T]) FindAll(ctx context.Context, conds ...query.Cond) *Cursor[T] {
	st, err := query.Select(r.desc, r.conn.Flavor(), conds...)
	return newCursor(ctx, r, OpFindAll, st, err)
}

// Raw returns a cursor over the rows of a caller supplied statement, decoded
// into T. The statement must select every column of T.
func (r *Repo[T]) Raw(ctx context.Context, st dialect.Statement) *Cursor[T] {
	return newCursor(ctx, r, OpRaw, st, nil)
}

// Count returns the number of rows matching the conditions.
func (r *Repo[T]) Count(ctx context.Context, conds ...query.Cond) (int64, error) {
	n, err := r.count(ctx, conds)
	return n, r.wrap(OpCount, err)
}

func (r *Repo[T]) count(ctx context.Context, conds []query.Cond) (_ int64, rerr error) {
	st, err := query.Count(r.desc, r.conn.Flavor(), conds...)
	if err != nil {
		return 0, err
	}
	r.log(ctx, OpCount, st)
	rows, err := r.conn.Query(ctx, st)
	if err != nil {
		return 0, err
	}
	defer closeRows(rows, &rerr)
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, bubble.Errorf(bubble.KindDataIntegrity, "count of %s returned no rows", r.desc.Table)
	}
	row, err := rows.Row()
	if err != nil {
		return 0, err
	}
	if row.Len() != 1 {
		return 0, bubble.Errorf(bubble.KindDataIntegrity, "count of %s returned %d columns", r.desc.Table, row.Len())
	}
	return value.Decode[int64](row.Value(0), value.KindInt)
}

// closeRows closes rows, joining a close failure into *err.
func closeRows(rows dialect.Rows, err *error) {
	if cerr := rows.Close(); cerr != nil {
		*err = errors.Join(*err, cerr)
	}
}

func (r *Repo[T]) wrap(op string, err error) error {
	return bubble.WithOp(err, op, r.desc.Table)
}

func (r *Repo[T]) log(ctx context.Context, op string, st dialect.Statement) {
	if r.opts.logger != nil {
		r.opts.logger.DebugContext(ctx, "orm: "+op, "table", r.desc.Table, "statement", st.String())
	}
}
