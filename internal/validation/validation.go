// Package validation holds the rule sets evaluated before a user is created
// or updated. Static rules come from struct tags on the model inputs;
// uniqueness is checked against storage through a Lookup.
package validation

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	apperrors "userapi/internal/errors"
	"userapi/internal/model"
)

// takenKey must differ from every tag the default translations register.
const takenKey = "taken"

// Lookup answers uniqueness questions against current storage state.
// exceptID excludes one row from the comparison; zero excludes nothing.
type Lookup interface {
	NicknameTaken(ctx context.Context, nickname string, exceptID uint) (bool, error)
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
}

// Validator evaluates the create and update rule sets.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New builds a Validator with English messages keyed by JSON field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
		panic(fmt.Sprintf("validation: register translations: %v", err))
	}
	if err := trans.Add(takenKey, "{0} has already been taken", false); err != nil {
		panic(fmt.Sprintf("validation: register unique translation: %v", err))
	}

	return &Validator{validate: v, trans: trans}
}

// ValidateCreate checks a create request. It returns a *errors.ValidationError
// when any rule fails, a storage error when a lookup fails, or nil.
func (v *Validator) ValidateCreate(ctx context.Context, in model.CreateUserInput, lookup Lookup) error {
	fields := v.staticErrors(in)

	if err := v.checkUnique(ctx, fields, "nickname", &in.Nickname, 0, lookup.NicknameTaken); err != nil {
		return err
	}
	if err := v.checkUnique(ctx, fields, "email", &in.Email, 0, lookup.EmailTaken); err != nil {
		return err
	}

	return result(fields)
}

// ValidateUpdate checks an update of the user identified by id. Uniqueness
// ignores the target row so a user may keep its own nickname and email.
func (v *Validator) ValidateUpdate(ctx context.Context, id uint, in model.UpdateUserInput, lookup Lookup) error {
	if id == 0 {
		return apperrors.ErrMissingTarget
	}

	fields := v.staticErrors(in)

	if err := v.checkUnique(ctx, fields, "nickname", in.Nickname, id, lookup.NicknameTaken); err != nil {
		return err
	}
	if err := v.checkUnique(ctx, fields, "email", in.Email, id, lookup.EmailTaken); err != nil {
		return err
	}

	return result(fields)
}

// TakenMessage renders the uniqueness violation message for field.
func (v *Validator) TakenMessage(field string) string {
	msg, err := v.trans.T(takenKey, field)
	if err != nil {
		return field + " has already been taken"
	}
	return msg
}

func (v *Validator) staticErrors(s any) apperrors.FieldErrors {
	fields := apperrors.FieldErrors{}

	var verrs validator.ValidationErrors
	if err := v.validate.Struct(s); errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields.Add(fe.Field(), fe.Translate(v.trans))
		}
	}
	return fields
}

// checkUnique consults storage only for supplied fields that passed their
// static rules.
func (v *Validator) checkUnique(
	ctx context.Context,
	fields apperrors.FieldErrors,
	field string,
	value *string,
	exceptID uint,
	taken func(context.Context, string, uint) (bool, error),
) error {
	if value == nil {
		return nil
	}
	if _, failed := fields[field]; failed {
		return nil
	}

	exists, err := taken(ctx, *value, exceptID)
	if err != nil {
		return fmt.Errorf("check %s uniqueness: %w", field, err)
	}
	if exists {
		fields.Add(field, v.TakenMessage(field))
	}
	return nil
}

func result(fields apperrors.FieldErrors) error {
	if ve := apperrors.NewValidationError(fields); ve != nil {
		return ve
	}
	return nil
}
