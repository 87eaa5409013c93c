package utils

import (
	"reflect"
	"sync"
	"time"
	"unicode"

	"campushub-server/internal/schemas"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

// Validator bundles the struct validator, the HTML sanitizer and the email
// deliverability check behind one instance shared by all requests.
type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool

	policy *bluemonday.Policy
}

var instance *Validator
var configuration *truemail.Configuration
var once sync.Once

func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "noreply@mail.campushub.app",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: verifyEmail,
			policy:      bluemonday.StrictPolicy(),
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

// SanitizeData strips HTML from every exported string field of the given
// struct pointer, including pointers to nested structs.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.IsNil() {
		return nil
	}

	value = value.Elem()
	if value.Kind() != reflect.Struct {
		return nil
	}

	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(v.policy.Sanitize(field.String()))
		case reflect.Ptr, reflect.Struct:
			if field.Kind() == reflect.Ptr && field.IsNil() {
				continue
			}
			if field.Kind() == reflect.Struct {
				field = field.Addr()
			}
			if err := v.SanitizeData(field.Interface()); err != nil {
				return err
			}
		}
	}

	return nil
}

func verifyEmail(email string) bool {
	return truemail.IsValid(email, configuration)
}

func registerCustomValidators(v *validator.Validate) {
	if err := v.RegisterValidation("password_validation", passwordValidation); err != nil {
		return
	}

	if err := v.RegisterValidation("role_validation", roleValidation); err != nil {
		return
	}

	if err := v.RegisterValidation("rfc3339_validation", rfc3339Validation); err != nil {
		return
	}
}

// passwordValidation requires an upper case letter, a lower case letter, a
// number and a special character, all within ASCII.
func passwordValidation(fl validator.FieldLevel) bool {
	var upperLetter, lowerLetter, number, specialChar bool

	value := fl.Field().String()
	for _, r := range value {
		if r > unicode.MaxASCII {
			return false
		}

		switch {
		case unicode.IsUpper(r):
			upperLetter = true
		case unicode.IsLower(r):
			lowerLetter = true
		case unicode.IsNumber(r):
			number = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			specialChar = true
		}
	}

	return upperLetter && lowerLetter && number && specialChar
}

func roleValidation(fl validator.FieldLevel) bool {
	_, err := schemas.ParseRole(fl.Field().String())
	return err == nil
}

func rfc3339Validation(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.RFC3339, fl.Field().String())
	return err == nil
}
