package example

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/0xhappyboy/bubble/config"
	"github.com/0xhappyboy/bubble/dialect"
	"github.com/0xhappyboy/bubble/dialect/sql"
	"github.com/0xhappyboy/bubble/orm"
	"github.com/0xhappyboy/bubble/schema"
)

// Tables lists the descriptors of the example models.
var Tables = []*schema.Descriptor{UserTable, SessionTable, ProductTable}

// Store holds the generated clients of the example models on one
// connection.
type Store struct {
	drv *sql.Driver

	Users    *UserClient
	Sessions *SessionClient
	Products *ProductClient
}

// New returns a store executing on drv.
func New(drv *sql.Driver, opts ...orm.Option) *Store {
	return &Store{
		drv:      drv,
		Users:    NewUserClient(drv, opts...),
		Sessions: NewSessionClient(drv, opts...),
		Products: NewProductClient(drv, opts...),
	}
}

// Open connects to the database described by cfg and checks that its tables
// match the models.
func Open(ctx context.Context, cfg *config.DatabaseConfig, opts ...orm.Option) (*Store, error) {
	drv, err := cfg.Open()
	if err != nil {
		return nil, err
	}
	s := New(drv, opts...)
	res, err := s.Verify(ctx)
	if err != nil {
		drv.Close()
		return nil, err
	}
	if res.HasErrors() {
		drv.Close()
		return nil, fmt.Errorf("example: %s: schema mismatch:\n%s", cfg, res)
	}
	return s, nil
}

// Verify compares the database tables with the model descriptors.
func (s *Store) Verify(ctx context.Context) (*orm.VerifyResult, error) {
	return orm.Verify(ctx, s.drv, Tables...)
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.drv.Close() }

// Register creates a user together with a first session valid for ttl. Both
// rows are written in one transaction; when it fails u keeps its previous
// key.
func (s *Store) Register(ctx context.Context, u *User, ttl time.Duration) (*Session, error) {
	prev := u.ID
	sess := &Session{Token: uuid.New(), Expires: time.Now().Add(ttl).UTC().Truncate(time.Second)}
	err := orm.WithTx(ctx, s.drv, func(tx dialect.Tx) error {
		id, err := s.Users.WithTx(tx).Insert(ctx, u)
		if err != nil {
			return err
		}
		sess.UserID = id
		_, err = s.Sessions.WithTx(tx).Insert(ctx, sess)
		return err
	})
	if err != nil {
		u.ID = prev
		return nil, err
	}
	return sess, nil
}

// Retire marks the product with the given key inactive. It reports false
// when there is no such product.
func (s *Store) Retire(ctx context.Context, id int32, at time.Time) (bool, error) {
	p, err := s.Products.FindByKey(ctx, id)
	if err != nil || p == nil {
		return false, err
	}
	p.Active, p.Retired = false, &at
	n, err := s.Products.Update(ctx, p)
	return n > 0, err
}
