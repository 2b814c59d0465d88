package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userapi/internal/model"
)

func TestRecorder_TracksLastWrite(t *testing.T) {
	repo, _ := newTestRepo(t)
	rec := NewRecorder(repo)
	ctx := context.Background()

	existing, err := rec.Create(ctx, model.CreateUserInput{Nickname: "taken", Email: "taken@x.com"})
	require.NoError(t, err)
	assert.False(t, rec.HasErrors())
	assert.Nil(t, rec.Errors())

	_, err = rec.Create(ctx, model.CreateUserInput{Nickname: "Taken", Email: "new@x.com"})
	require.Error(t, err)
	assert.True(t, rec.HasErrors())
	assert.Contains(t, rec.Errors(), "nickname")

	_, err = rec.Update(ctx, existing.ID, model.UpdateUserInput{Name: strPtr("Fine")})
	require.NoError(t, err)
	assert.False(t, rec.HasErrors(), "a successful write clears earlier errors")
}

func TestRecorder_NonValidationErrorsAreNotFieldErrors(t *testing.T) {
	repo, _ := newTestRepo(t)
	rec := NewRecorder(repo)

	_, err := rec.Update(context.Background(), 77, model.UpdateUserInput{Name: strPtr("Ghost")})
	require.Error(t, err)
	assert.False(t, rec.HasErrors())
}

func TestRecorder_ErrorsReturnsCopy(t *testing.T) {
	repo, _ := newTestRepo(t)
	rec := NewRecorder(repo)
	ctx := context.Background()

	_, err := rec.Create(ctx, model.CreateUserInput{Email: "x@x.com"})
	require.Error(t, err)

	got := rec.Errors()
	require.Contains(t, got, "nickname")
	delete(got, "nickname")
	got.Add("email", "tampered")

	again := rec.Errors()
	assert.Contains(t, again, "nickname")
	assert.NotContains(t, again, "email")
	assert.True(t, rec.HasErrors())
}
