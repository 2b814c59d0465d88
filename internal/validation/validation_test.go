package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "userapi/internal/errors"
	"userapi/internal/model"
)

// MockLookup is a mock implementation of Lookup.
type MockLookup struct {
	mock.Mock
}

func (m *MockLookup) NicknameTaken(ctx context.Context, nickname string, exceptID uint) (bool, error) {
	args := m.Called(ctx, nickname, exceptID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLookup) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	args := m.Called(ctx, email, exceptID)
	return args.Bool(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func fieldErrors(t *testing.T, err error) apperrors.FieldErrors {
	t.Helper()
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok, "expected validation error, got %v", err)
	return ve.Fields
}

func TestNew_KeepsBuiltinTranslations(t *testing.T) {
	var v *Validator
	require.NotPanics(t, func() { v = New() })

	assert.Equal(t, "email has already been taken", v.TakenMessage("email"))

	type tags struct {
		Tags []string `json:"tags" validate:"unique"`
	}
	fields := v.staticErrors(tags{Tags: []string{"a", "a"}})
	require.Contains(t, fields, "tags")
	assert.Equal(t, []string{"tags must contain unique values"}, fields["tags"])
}

func TestValidateCreate(t *testing.T) {
	tests := []struct {
		name          string
		input         model.CreateUserInput
		setupMock     func(*MockLookup)
		expectedField []string
	}{
		{
			name: "valid input",
			input: model.CreateUserInput{
				Name:     strPtr("Jane Doe"),
				Nickname: "jane",
				Email:    "jane@x.com",
				Password: strPtr("longenough1"),
			},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, "jane", uint(0)).Return(false, nil)
				m.On("EmailTaken", mock.Anything, "jane@x.com", uint(0)).Return(false, nil)
			},
		},
		{
			name:  "optional fields omitted",
			input: model.CreateUserInput{Nickname: "jane", Email: "jane@x.com"},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, "jane", uint(0)).Return(false, nil)
				m.On("EmailTaken", mock.Anything, "jane@x.com", uint(0)).Return(false, nil)
			},
		},
		{
			name:  "missing nickname",
			input: model.CreateUserInput{Email: "jane@x.com"},
			setupMock: func(m *MockLookup) {
				m.On("EmailTaken", mock.Anything, "jane@x.com", uint(0)).Return(false, nil)
			},
			expectedField: []string{"nickname"},
		},
		{
			name:  "nickname longer than 30 characters",
			input: model.CreateUserInput{Nickname: strings.Repeat("a", 31), Email: "jane@x.com"},
			setupMock: func(m *MockLookup) {
				m.On("EmailTaken", mock.Anything, "jane@x.com", uint(0)).Return(false, nil)
			},
			expectedField: []string{"nickname"},
		},
		{
			name:  "nickname of 30 multibyte characters",
			input: model.CreateUserInput{Nickname: strings.Repeat("é", 30), Email: "jane@x.com"},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, strings.Repeat("é", 30), uint(0)).Return(false, nil)
				m.On("EmailTaken", mock.Anything, "jane@x.com", uint(0)).Return(false, nil)
			},
		},
		{
			name:  "nickname taken",
			input: model.CreateUserInput{Nickname: "JANE", Email: "other@x.com"},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, "JANE", uint(0)).Return(true, nil)
				m.On("EmailTaken", mock.Anything, "other@x.com", uint(0)).Return(false, nil)
			},
			expectedField: []string{"nickname"},
		},
		{
			name:  "invalid email and short password",
			input: model.CreateUserInput{Nickname: "jane", Email: "not-an-email", Password: strPtr("short")},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, "jane", uint(0)).Return(false, nil)
			},
			expectedField: []string{"email", "password"},
		},
		{
			name:  "empty name supplied",
			input: model.CreateUserInput{Name: strPtr(""), Nickname: "jane", Email: "jane@x.com"},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, "jane", uint(0)).Return(false, nil)
				m.On("EmailTaken", mock.Anything, "jane@x.com", uint(0)).Return(false, nil)
			},
			expectedField: []string{"name"},
		},
		{
			name:  "email taken",
			input: model.CreateUserInput{Nickname: "jane", Email: "Jane@X.com"},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, "jane", uint(0)).Return(false, nil)
				m.On("EmailTaken", mock.Anything, "Jane@X.com", uint(0)).Return(true, nil)
			},
			expectedField: []string{"email"},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := new(MockLookup)
			tt.setupMock(lookup)

			err := v.ValidateCreate(context.Background(), tt.input, lookup)

			if len(tt.expectedField) == 0 {
				assert.NoError(t, err)
			} else {
				fields := fieldErrors(t, err)
				assert.ElementsMatch(t, tt.expectedField, fields.Fields())
				for _, f := range tt.expectedField {
					assert.NotEmpty(t, fields[f][0])
				}
			}
			lookup.AssertExpectations(t)
		})
	}
}

func TestValidateCreate_Messages(t *testing.T) {
	v := New()
	lookup := new(MockLookup)
	lookup.On("NicknameTaken", mock.Anything, "john_doe", uint(0)).Return(true, nil)
	lookup.On("EmailTaken", mock.Anything, "john@x.com", uint(0)).Return(false, nil)

	err := v.ValidateCreate(context.Background(), model.CreateUserInput{Nickname: "john_doe", Email: "john@x.com"}, lookup)

	fields := fieldErrors(t, err)
	assert.Equal(t, []string{"nickname has already been taken"}, fields["nickname"])

	err = v.ValidateCreate(context.Background(), model.CreateUserInput{Email: "john@x.com"}, lookup)
	fields = fieldErrors(t, err)
	assert.Equal(t, []string{"nickname is a required field"}, fields["nickname"])

	err = v.ValidateCreate(context.Background(), model.CreateUserInput{Nickname: strings.Repeat("x", 31), Email: "john@x.com"}, lookup)
	fields = fieldErrors(t, err)
	require.Len(t, fields["nickname"], 1)
	assert.Contains(t, fields["nickname"][0], "30")
}

func TestValidateCreate_LookupFailure(t *testing.T) {
	v := New()
	lookup := new(MockLookup)
	dbErr := errors.New("db down")
	lookup.On("NicknameTaken", mock.Anything, "jane", uint(0)).Return(false, dbErr)

	err := v.ValidateCreate(context.Background(), model.CreateUserInput{Nickname: "jane", Email: "jane@x.com"}, lookup)

	assert.ErrorIs(t, err, dbErr)
	_, isValidation := apperrors.AsValidation(err)
	assert.False(t, isValidation)
}

func TestValidateUpdate(t *testing.T) {
	tests := []struct {
		name          string
		id            uint
		input         model.UpdateUserInput
		setupMock     func(*MockLookup)
		expectedField []string
		expectedError error
	}{
		{
			name:          "missing target",
			id:            0,
			input:         model.UpdateUserInput{Nickname: strPtr("jane")},
			setupMock:     func(m *MockLookup) {},
			expectedError: apperrors.ErrMissingTarget,
		},
		{
			name:      "nothing supplied",
			id:        7,
			input:     model.UpdateUserInput{},
			setupMock: func(m *MockLookup) {},
		},
		{
			name:  "own nickname excluded by id",
			id:    7,
			input: model.UpdateUserInput{Nickname: strPtr("Jane"), Email: strPtr("jane@x.com")},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, "Jane", uint(7)).Return(false, nil)
				m.On("EmailTaken", mock.Anything, "jane@x.com", uint(7)).Return(false, nil)
			},
		},
		{
			name:  "nickname of another user",
			id:    7,
			input: model.UpdateUserInput{Nickname: strPtr("bob")},
			setupMock: func(m *MockLookup) {
				m.On("NicknameTaken", mock.Anything, "bob", uint(7)).Return(true, nil)
			},
			expectedField: []string{"nickname"},
		},
		{
			name:          "blank nickname",
			id:            7,
			input:         model.UpdateUserInput{Nickname: strPtr("")},
			setupMock:     func(m *MockLookup) {},
			expectedField: []string{"nickname"},
		},
		{
			name:          "nickname longer than 30 characters",
			id:            7,
			input:         model.UpdateUserInput{Nickname: strPtr(strings.Repeat("a", 31))},
			setupMock:     func(m *MockLookup) {},
			expectedField: []string{"nickname"},
		},
		{
			name:          "blank email",
			id:            7,
			input:         model.UpdateUserInput{Email: strPtr("")},
			setupMock:     func(m *MockLookup) {},
			expectedField: []string{"email"},
		},
		{
			name:          "short password",
			id:            7,
			input:         model.UpdateUserInput{Password: strPtr("1234567")},
			setupMock:     func(m *MockLookup) {},
			expectedField: []string{"password"},
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := new(MockLookup)
			tt.setupMock(lookup)

			err := v.ValidateUpdate(context.Background(), tt.id, tt.input, lookup)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case len(tt.expectedField) > 0:
				fields := fieldErrors(t, err)
				assert.ElementsMatch(t, tt.expectedField, fields.Fields())
			default:
				assert.NoError(t, err)
			}
			lookup.AssertExpectations(t)
		})
	}
}
