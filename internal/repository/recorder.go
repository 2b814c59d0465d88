package repository

import (
	"context"
	"sync"

	apperrors "userapi/internal/errors"
	"userapi/internal/model"
)

// Recorder wraps a UserRepository and remembers the field errors of the last
// Create or Update, for callers that inspect state after the call instead of
// the returned error. Each caller should own its Recorder.
type Recorder struct {
	UserRepository

	mu     sync.Mutex
	fields apperrors.FieldErrors
}

// NewRecorder wraps repo.
func NewRecorder(repo UserRepository) *Recorder {
	return &Recorder{UserRepository: repo}
}

// Create delegates to the wrapped repository and records the outcome.
func (r *Recorder) Create(ctx context.Context, in model.CreateUserInput) (*model.User, error) {
	user, err := r.UserRepository.Create(ctx, in)
	r.record(err)
	return user, err
}

// Update delegates to the wrapped repository and records the outcome.
func (r *Recorder) Update(ctx context.Context, id uint, in model.UpdateUserInput) (*model.User, error) {
	user, err := r.UserRepository.Update(ctx, id, in)
	r.record(err)
	return user, err
}

// HasErrors reports whether the last write failed validation.
func (r *Recorder) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fields) > 0
}

// Errors returns a copy of the field errors of the last write, or nil.
func (r *Recorder) Errors() apperrors.FieldErrors {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fields == nil {
		return nil
	}
	out := make(apperrors.FieldErrors, len(r.fields))
	for field, msgs := range r.fields {
		out[field] = append([]string(nil), msgs...)
	}
	return out
}

func (r *Recorder) record(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ve, ok := apperrors.AsValidation(err); ok {
		r.fields = ve.Fields
		return
	}
	r.fields = nil
}
