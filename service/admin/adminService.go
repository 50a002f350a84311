package adminsvc

import (
	"context"
	"database/sql"
	"errors"

	statsrepo "carrental/repository/stats"
	userrepo "carrental/repository/user"
	"carrental/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrUserNotFound ErrCode = "USER_NOT_FOUND"
	ErrSelfDelete   ErrCode = "SELF_DELETE"
	ErrUserInUse    ErrCode = "USER_IN_USE"
	ErrBadRole      ErrCode = "BAD_ROLE"
	ErrEmailTaken   ErrCode = "EMAIL_TAKEN"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	// ListUsers includes each user's booking count.
	ListUsers(ctx context.Context) ([]model.UserRow, error)
	UpdateUser(ctx context.Context, id int64, name, email, role *string) (*model.User, error)
	DeleteUser(ctx context.Context, actorID, id int64) error
	Dashboard(ctx context.Context) (*statsrepo.Stats, error)
}

type service struct {
	ur userrepo.Repo
	sr statsrepo.Repo
}

func New(ur userrepo.Repo, sr statsrepo.Repo) Service { return &service{ur: ur, sr: sr} }

func (s *service) ListUsers(ctx context.Context) ([]model.UserRow, error) {
	return s.ur.List(ctx)
}

func (s *service) UpdateUser(ctx context.Context, id int64, name, email, role *string) (*model.User, error) {
	if role != nil && *role != "user" && *role != "admin" {
		return nil, makeErr(ErrBadRole)
	}
	u, err := s.ur.Update(ctx, id, name, email, role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrUserNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrEmailTaken)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) DeleteUser(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return makeErr(ErrSelfDelete)
	}
	if err := s.ur.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrUserNotFound)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return makeErr(ErrUserInUse)
		}
		return err
	}
	return nil
}

func (s *service) Dashboard(ctx context.Context) (*statsrepo.Stats, error) {
	return s.sr.Dashboard(ctx)
}
