package auth

import (
	"context"
	"database/sql"
	"log"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes the repositories sharing one database
type RepositoryManager interface {
	Validate() error
	MustValidate()
	Migrate(ctx context.Context) error
	TxRunner
	Users() UserStore
}

type mngr struct {
	db    *bun.DB
	users *users
}

// NewRepositoryManager wires the bun repositories over db
func NewRepositoryManager(db *bun.DB, opts ...UsersOption) RepositoryManager {
	return &mngr{
		db:    db,
		users: NewUsersRepository(db, opts...).(*users),
	}
}

func (m mngr) Validate() error {
	if m.db == nil {
		return goerrors.New("repository database should be initialized", goerrors.CategoryInternal)
	}

	if m.users == nil {
		return goerrors.New("repository users should be initialized", goerrors.CategoryInternal)
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

// Migrate creates the schema in a single transaction
func (m mngr) Migrate(ctx context.Context) error {
	return m.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return CreateSchema(ctx, tx)
	})
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, users UserStore) error) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled before transaction")
	default:
		return m.db.RunInTx(ctx, opts, func(ctx context.Context, tx bun.Tx) error {
			return f(ctx, m.users.withDB(tx))
		})
	}
}

func (m mngr) Users() UserStore {
	return m.users
}
