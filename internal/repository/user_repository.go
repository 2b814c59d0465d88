package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"userapi/internal/auth"
	apperrors "userapi/internal/errors"
	"userapi/internal/model"
	"userapi/internal/validation"
)

// UserRepository is the only gateway to persisted users.
//
// Create and Update run the validation rule set first; a rule failure is
// returned as *errors.ValidationError and nothing is written.
type UserRepository interface {
	All(ctx context.Context) ([]model.User, error)
	Find(ctx context.Context, id uint) (*model.User, error)
	Create(ctx context.Context, in model.CreateUserInput) (*model.User, error)
	Update(ctx context.Context, id uint, in model.UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db        *gorm.DB
	hasher    auth.PasswordHasher
	validator *validation.Validator
	lookupFor func(db *gorm.DB) validation.Lookup
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB, hasher auth.PasswordHasher, validator *validation.Validator) UserRepository {
	return &userRepository{
		db:        db,
		hasher:    hasher,
		validator: validator,
		lookupFor: func(db *gorm.DB) validation.Lookup { return gormLookup{db: db} },
	}
}

// All lists every user in id order.
func (r *userRepository) All(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Find returns errors.ErrUserNotFound when no row has the id.
func (r *userRepository) Find(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

// Create validates in, hashes the password and inserts a new row.
func (r *userRepository) Create(ctx context.Context, in model.CreateUserInput) (*model.User, error) {
	if err := r.validator.ValidateCreate(ctx, in, r.lookupFor(r.db.WithContext(ctx))); err != nil {
		return nil, err
	}

	user := &model.User{
		Nickname: in.Nickname,
		Email:    in.Email,
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Password != nil {
		hash, err := r.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, r.translateWriteError("create", err)
	}
	return user, nil
}

// Update applies the supplied fields of in to the user with id. Fields left
// nil keep their stored values. All changes commit together or not at all.
func (r *userRepository) Update(ctx context.Context, id uint, in model.UpdateUserInput) (*model.User, error) {
	if id == 0 {
		return nil, apperrors.ErrMissingTarget
	}

	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("find user %d: %w", id, err)
		}

		if err := r.validator.ValidateUpdate(ctx, id, in, r.lookupFor(tx)); err != nil {
			return err
		}

		columns, err := r.apply(&user, in)
		if err != nil {
			return err
		}
		if len(columns) == 0 {
			return nil
		}

		if err := tx.Model(&user).Select(columns).Updates(&user).Error; err != nil {
			return r.translateWriteError("update", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes the user with id. Deleting a missing id is a no-op.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.User{}, id).Error; err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// apply copies the supplied fields onto user and returns the columns to write.
func (r *userRepository) apply(user *model.User, in model.UpdateUserInput) ([]string, error) {
	var columns []string
	if in.Name != nil {
		user.Name = *in.Name
		columns = append(columns, "name")
	}
	if in.Nickname != nil {
		user.Nickname = *in.Nickname
		columns = append(columns, "nickname", "nickname_key")
	}
	if in.Email != nil {
		user.Email = *in.Email
		columns = append(columns, "email", "email_key")
	}
	if in.Password != nil {
		hash, err := r.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
		columns = append(columns, "password")
	}
	return columns, nil
}

// translateWriteError turns unique-index violations into the same field
// errors the application check produces.
func (r *userRepository) translateWriteError(action string, err error) error {
	if field, ok := duplicateField(err); ok {
		fields := apperrors.FieldErrors{}
		fields.Add(field, r.validator.TakenMessage(field))
		return apperrors.NewValidationError(fields)
	}
	return fmt.Errorf("%s user: %w", action, err)
}

// gormLookup answers uniqueness questions with case-folded key columns.
type gormLookup struct {
	db *gorm.DB
}

func (l gormLookup) NicknameTaken(ctx context.Context, nickname string, exceptID uint) (bool, error) {
	return l.taken(ctx, "nickname_key", model.NormalizeKey(nickname), exceptID)
}

func (l gormLookup) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	return l.taken(ctx, "email_key", model.NormalizeKey(email), exceptID)
}

func (l gormLookup) taken(ctx context.Context, column, key string, exceptID uint) (bool, error) {
	query := l.db.WithContext(ctx).Model(&model.User{}).Where(column+" = ?", key)
	if exceptID != 0 {
		query = query.Where("id <> ?", exceptID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
