package validator

import (
	"encoding/json"
	"errors"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/otpgate/internal/pkg/strcase"
)

var (
	// NIST 800-63B length bounds; bcrypt ignores anything past 72 bytes.
	rePassword    = regexp.MustCompile(`^.{8,72}$`)
	reOperationID = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)
	reUsername    = regexp.MustCompile(`^[a-zA-Z0-9_.]{3,50}$`)
)

var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator with go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps snake_case field names to translated messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, _ := json.Marshal(map[string]string(vs))
	return string(b)
}

// Values maps each field to its translated message.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator registers the custom rules and English translations.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	enTrans, ok := ut.New(enLang, enLang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerRules(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{validate: validate, translator: enTrans}, nil
}

// Validate returns V10ValidationError when a tag fails.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}

	return out
}

func registerRules(validate *validator.Validate, trans ut.Translator) error {
	rules := []struct {
		tag string
		re  *regexp.Regexp
		msg string
	}{
		{tag: "password", re: rePassword, msg: "{0} must be 8-72 characters"},
		{tag: "operation_id", re: reOperationID, msg: "{0} must be 1-128 characters of letters, digits, '.', '_', ':' or '-'"},
		{tag: "username", re: reUsername, msg: "{0} must be 3-50 characters of letters, digits, '_' or '.'"},
	}

	for _, rule := range rules {
		re := rule.re
		if err := validate.RegisterValidation(rule.tag, func(fl validator.FieldLevel) bool {
			s, ok := fl.Field().Interface().(string)
			return ok && re.MatchString(s)
		}); err != nil {
			return err
		}

		tag, msg := rule.tag, rule.msg
		if err := validate.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, msg, false) },
			func(t ut.Translator, fe validator.FieldError) string {
				s, err := t.T(fe.Tag(), fe.Field())
				if err != nil {
					return fe.Error()
				}
				return s
			},
		); err != nil {
			return err
		}
	}

	return nil
}
