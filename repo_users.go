package guard

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the Bun backed identity repository. It satisfies
// IdentityRepository and adds the team plumbing the guard and tests need.
type Users interface {
	IdentityRepository

	GetByEmail(ctx context.Context, email string) (*User, error)
	Delete(ctx context.Context, id int64) error
	AddToTeam(ctx context.Context, userID, teamID int64) error
	CreateTeam(ctx context.Context, team *Team) (*Team, error)
}

type users struct {
	db     bun.IDB
	logger Logger
}

var _ Users = (*users)(nil)

type UsersOption func(*users)

func NewUsersRepository(db bun.IDB, opts ...UsersOption) Users {
	repo := &users{
		db:     db,
		logger: defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(repo)
		}
	}

	return repo
}

func WithUsersLogger(logger Logger) UsersOption {
	return func(u *users) {
		if logger != nil {
			u.logger = logger
		}
	}
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapSelectError(err, map[string]any{"id": id})
	}
	return record, nil
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapSelectError(err, map[string]any{"email": email})
	}
	return record, nil
}

func (a *users) GetByAuth(ctx context.Context, email, provider string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Where("?TableAlias.auth_provider = ?", provider).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, mapSelectError(err, map[string]any{
			"email":    email,
			"provider": provider,
		})
	}
	return record, nil
}

// VerifyPassword looks up the account by email and compares the stored hash
// against password + pepper. Unknown email and wrong password are
// indistinguishable to the caller.
func (a *users) VerifyPassword(ctx context.Context, email, password string, pepper []byte) (*User, error) {
	user, err := a.GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if err := ComparePasswordAndHash(password, pepper, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// Create inserts a new identity. The storage layer enforces uniqueness on
// (email, auth_provider); a violation surfaces as ErrIdentityConflict so
// callers can treat a concurrent first login as recoverable.
func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	if record.Username != "" {
		if err := ValidateUsername(record.Username); err != nil {
			return nil, err
		}
	}

	_, err := a.db.NewInsert().Model(record).Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrIdentityConflict
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return record, nil
}

func (a *users) Update(ctx context.Context, id int64, fields UserUpdate) error {
	q := a.db.NewUpdate().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id)

	touched := false

	if fields.Username != nil {
		if err := ValidateUsername(*fields.Username); err != nil {
			return err
		}
		q.Set("username = ?", *fields.Username)
		touched = true
	}
	if fields.DisplayName != nil {
		q.Set("display_name = ?", *fields.DisplayName)
		touched = true
	}
	if fields.AvatarURL != nil {
		q.Set("avatar_url = ?", *fields.AvatarURL)
		touched = true
	}
	if fields.Links != nil {
		payload, err := json.Marshal(fields.Links)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to encode links")
		}
		q.Set("links = ?", string(payload))
		touched = true
	}
	if fields.Metadata != nil {
		payload, err := json.Marshal(fields.Metadata)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to encode metadata")
		}
		q.Set("metadata = ?", string(payload))
		touched = true
	}

	if !touched {
		return nil
	}

	res, err := q.Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrUsernameTaken
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

// Delete deactivates an account. The row is soft deleted, lookups stop
// returning it but the uniqueness constraints keep holding its identity.
func (a *users) Delete(ctx context.Context, id int64) error {
	res, err := a.db.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

func (a *users) UserIsInTeam(ctx context.Context, userID, teamID int64) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*UserTeam)(nil)).
		Where("?TableAlias.user_id = ?", userID).
		Where("?TableAlias.team_id = ?", teamID).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.CategoryInternal, "failed to check team membership")
	}
	return exists, nil
}

func (a *users) AddToTeam(ctx context.Context, userID, teamID int64) error {
	membership := &UserTeam{UserID: userID, TeamID: teamID}
	_, err := a.db.NewInsert().Model(membership).Exec(ctx)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to add team member")
	}
	return nil
}

func (a *users) CreateTeam(ctx context.Context, team *Team) (*Team, error) {
	_, err := a.db.NewInsert().Model(team).Exec(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create team")
	}
	return team, nil
}

func mapSelectError(err error, metadata map[string]any) error {
	if errors.Is(err, sql.ErrNoRows) {
		clone := ErrIdentityNotFound.Clone()
		if clone == nil {
			return ErrIdentityNotFound
		}
		clone.Source = ErrIdentityNotFound
		return clone.WithMetadata(metadata)
	}
	return errors.Wrap(err, errors.CategoryInternal, "failed to query users")
}

// IsUniqueViolation reports whether err is a uniqueness constraint failure
// from one of the supported drivers.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
