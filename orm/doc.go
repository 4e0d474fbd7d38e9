// Package orm is the runtime behind generated clients.
//
// Repo implements the create, read, update and delete operations of one
// annotated type on any dialect.ExecQuerier, using the static Codec the
// generator emits for the type:
//
//	repo := orm.NewRepo(drv, UserTable, userCodec{})
//	id, err := repo.Insert(ctx, &User{Name: "Ana"})
//	u, err := repo.FindByKey(ctx, id)            // nil, nil when absent
//	n, err := repo.Update(ctx, u)                // 0 when the row is gone
//	cur := repo.FindAll(ctx, UserName.EQ("Ana")) // lazy, single use
//
// Generated clients are thin typed wrappers around a Repo. Types that are
// not run through the generator can use Reflect for a reflection based
// codec. WithTx runs a function in a transaction, and Verify checks the
// database tables against a set of descriptors.
//
// Errors are *bubble.Error values naming the operation and table. Use the
// bubble.IsXxx helpers or errors.Is with the bubble sentinels to inspect
// them.
package orm
