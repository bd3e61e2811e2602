package auth

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type users struct {
	repo repository.Repository[*User]
	db   bun.IDB
	now  func() time.Time
}

var _ UserStore = (*users)(nil)

// UsersOption configures the bun users repository
type UsersOption func(*users)

// WithUsersClock overrides the clock used for created_at
func WithUsersClock(now func() time.Time) UsersOption {
	return func(u *users) {
		if now != nil {
			u.now = now
		}
	}
}

// NewUsersRepository returns a UserStore backed by a go-repository-bun
// repository. Every query runs against db, which may be a *bun.DB or a
// bun.Tx.
func NewUsersRepository(db bun.IDB, opts ...UsersOption) UserStore {
	repo := &users{
		repo: newUserModelRepository(db),
		db:   db,
		now:  time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}

	return repo
}

func newUserModelRepository(db bun.IDB) repository.Repository[*User] {
	return repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})
}

// withDB returns a copy of the store bound to db
func (a *users) withDB(db bun.IDB) *users {
	return &users{repo: a.repo, db: db, now: a.now}
}

// CreateSchema creates the users table if it does not exist
func CreateSchema(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create users table")
	}
	return nil
}

func (a *users) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	record, err := a.repo.GetByIDTx(ctx, a.db, id.String())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user")
	}
	return record, nil
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	record, err := a.repo.GetByIdentifierTx(ctx, a.db, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user by email")
	}
	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	if record == nil {
		return nil, goerrors.New("user record is required", goerrors.CategoryBadInput)
	}

	prepareUserDefaults(record, a.now())

	created, err := a.repo.CreateTx(ctx, a.db, record)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailInUse
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	return created, nil
}

func (a *users) Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*User, error) {
	if update.IsEmpty() {
		return a.FindByID(ctx, id)
	}

	criteria, err := updateCriteria(update)
	if err != nil {
		return nil, err
	}

	record, err := a.repo.UpdateTx(ctx, a.db, &User{ID: id}, criteria...)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to update user")
	}

	return record, nil
}

func updateCriteria(update UserUpdate) ([]repository.UpdateCriteria, error) {
	criteria := make([]repository.UpdateCriteria, 0, 5)

	if update.Name != nil {
		criteria = append(criteria, repository.UpdateSetColumn("name", *update.Name))
	}

	if update.PasswordHash != nil {
		criteria = append(criteria, repository.UpdateSetColumn("password_hash", *update.PasswordHash))
	}

	if update.Roles != nil {
		if len(update.Roles) == 0 {
			return nil, goerrors.New("user roles must not be empty", goerrors.CategoryValidation)
		}
		raw, err := json.Marshal(update.Roles)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode roles")
		}
		criteria = append(criteria, repository.UpdateSetColumn("roles", string(raw)))
	}

	if update.IsEmailVerified != nil {
		criteria = append(criteria, repository.UpdateSetColumn("is_email_verified", *update.IsEmailVerified))
	}

	if update.SetEmailVerificationExpires {
		var expires any
		if update.EmailVerificationExpires != nil {
			expires = *update.EmailVerificationExpires
		}
		criteria = append(criteria, repository.UpdateSetColumn("email_verification_expires", expires))
	}

	return criteria, nil
}

func (a *users) Remove(ctx context.Context, id uuid.UUID) error {
	record, err := a.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := a.repo.DeleteTx(ctx, a.db, record); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to remove user")
	}

	return nil
}

func (a *users) List(ctx context.Context) ([]*User, error) {
	records, _, err := a.repo.ListTx(ctx, a.db,
		repository.Paginate(0, 0),
		repository.OrderBy("created_at ASC"),
	)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list users")
	}
	return records, nil
}

// isUniqueViolation matches the driver messages for a unique index
// conflict. go-repository-bun returns driver errors unchanged.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "Duplicate entry")
}
