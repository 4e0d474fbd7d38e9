// Package gen generates data access code for annotated struct types.
//
// # Pipeline
//
//	models/*.go (structs with `orm` tags)
//	        ↓
//	   compiler/load (go/packages, go/types)
//	        ↓
//	   schema.Derive (one Descriptor per type)
//	        ↓
//	   Generator (jennifer, errgroup workers)
//	        ↓
//	   models/<type>_orm.go
//
// Every type is derived and rendered before anything is written; a single
// failing type aborts the run and leaves existing files untouched. Files are
// replaced atomically, and files whose content did not change are not
// rewritten.
//
// # Generated Output
//
// For a type User with an int64 key, the generated user_orm.go declares:
//
//	var UserTable = schema.Must(schema.New("User", "user", ...)) // descriptor literal
//	var UserID, UserName, ... = query.Field[...]{...}            // filter fields
//	type userCodec struct{}                                     // static encode/decode
//	type UserClient struct{ ... }                               // typed operations
//
//	func NewUserClient(conn dialect.ExecQuerier, opts ...orm.Option) *UserClient
//	func (c *UserClient) WithTx(tx dialect.ExecQuerier) *UserClient
//	func (c *UserClient) Insert(ctx context.Context, m *User) (int64, error)
//	func (c *UserClient) FindByKey(ctx context.Context, key int64) (*User, error)
//	func (c *UserClient) Update(ctx context.Context, m *User) (int64, error)
//	func (c *UserClient) Delete(ctx context.Context, key int64) (int64, error)
//	func (c *UserClient) FindAll(ctx context.Context, conds ...query.Cond) *orm.Cursor[User]
//	func (c *UserClient) Count(ctx context.Context, conds ...query.Cond) (int64, error)
//
// Values are always bound as statement arguments; the generated code never
// formats them into SQL text.
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	res, err := gen.Generate(ctx, &load.Config{Patterns: []string{"./models"}},
//	    gen.WithTypes("User", "Session"),
//	    gen.WithKind("example.com/models.Status", value.KindText),
//	)
//
// # Error Handling
//
//   - ConfigError: invalid options, unknown type names
//   - GenerateError: derivation, identifier conflicts, render and write
//     failures, wrapping *schema.Error where applicable
//
// Several failures are reported together as a *bubble.AggregateError.
package gen
