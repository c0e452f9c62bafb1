// Package iostore implements store.Store with GORM. It works with any
// dialect opened by iodb.
package iostore

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gnames/gnforms/pkg/errcode"
	"github.com/gnames/gnforms/pkg/schema"
	"github.com/gnames/gnforms/pkg/store"
	"gorm.io/gorm"
)

type gormStore struct {
	db   *gorm.DB
	inTx bool
}

// New creates a Store on top of an open GORM handle.
func New(db *gorm.DB) store.Store {
	return &gormStore{db: db}
}

func (s *gormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Transaction implements store.Store.
func (s *gormStore) Transaction(
	ctx context.Context,
	fn func(tx store.Store) error,
) error {
	if s.inTx {
		return fn(s)
	}
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, inTx: true})
	})
	if err != nil && errcode.Of(err) == errcode.UnknownError {
		return fail("transaction", err)
	}
	return err
}

// fail logs and wraps a database error.
func fail(op string, err error) error {
	slog.Error("Store operation failed", "op", op, "error", err)
	return store.StoreError(op, err)
}

// lookupErr converts gorm.ErrRecordNotFound to a NotFound error.
func lookupErr(err error, entity string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.NotFoundError(entity, id)
	}
	return fail("get "+entity, err)
}

// CreateUser implements store.Users.
func (s *gormStore) CreateUser(ctx context.Context, u *schema.User) error {
	return s.Transaction(ctx, func(tx store.Store) error {
		db := tx.(*gormStore).conn(ctx)

		var count int64
		err := db.Model(&schema.User{}).
			Where("username = ?", u.Username).Count(&count).Error
		if err != nil {
			return fail("check username", err)
		}
		if count > 0 {
			return store.ConflictError("user", "username", u.Username)
		}

		err = db.Model(&schema.User{}).
			Where("email = ?", u.Email).Count(&count).Error
		if err != nil {
			return fail("check email", err)
		}
		if count > 0 {
			return store.ConflictError("user", "email", u.Email)
		}

		if err = db.Create(u).Error; err != nil {
			return fail("create user", err)
		}
		return nil
	})
}

// UserByID implements store.Users.
func (s *gormStore) UserByID(ctx context.Context, id uint) (*schema.User, error) {
	var res schema.User
	if err := s.conn(ctx).First(&res, id).Error; err != nil {
		return nil, lookupErr(err, "user", id)
	}
	return &res, nil
}

// UserByUsername implements store.Users.
func (s *gormStore) UserByUsername(
	ctx context.Context,
	username string,
) (*schema.User, error) {
	var res schema.User
	err := s.conn(ctx).Where("username = ?", username).First(&res).Error
	if err != nil {
		return nil, lookupErr(err, "user", username)
	}
	return &res, nil
}

// UserByEmail implements store.Users.
func (s *gormStore) UserByEmail(
	ctx context.Context,
	email string,
) (*schema.User, error) {
	var res schema.User
	err := s.conn(ctx).Where("email = ?", email).First(&res).Error
	if err != nil {
		return nil, lookupErr(err, "user", email)
	}
	return &res, nil
}

// SetPasswordHash implements store.Users.
func (s *gormStore) SetPasswordHash(
	ctx context.Context,
	id uint,
	hash string,
) error {
	res := s.conn(ctx).Model(&schema.User{}).
		Where("id = ?", id).Update("password_hash", hash)
	if res.Error != nil {
		return fail("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return store.NotFoundError("user", id)
	}
	return nil
}
