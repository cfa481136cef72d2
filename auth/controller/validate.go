package auth

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	models "github.com/Lancesatorre/Movie-Booking-System-sub001/auth/models"
)

var phoneRegex = regexp.MustCompile(`^[0-9]{11}$`)

type loginRules struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Field order matters: the first missing field in this order is the one reported.
type signupRules struct {
	FirstName       string `form:"firstName" validate:"required"`
	LastName        string `form:"lastName" validate:"required"`
	Email           string `form:"email" validate:"required"`
	Phone           string `form:"phone" validate:"required,phone11"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password"`
}

// Checker runs the login and signup rules against a form record.
type Checker struct {
	v *validator.Validate
}

func NewChecker() *Checker {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone11", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	return &Checker{v: v}
}

func (c *Checker) CheckLogin(f models.CredentialForm) error {
	return c.check(loginRules{Email: f.Email, Password: f.Password})
}

func (c *Checker) CheckSignup(f models.CredentialForm) error {
	return c.check(signupRules{
		FirstName:       f.FirstName,
		LastName:        f.LastName,
		Email:           f.Email,
		Phone:           f.Phone,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	})
}

// rulePriority orders tag failures; lower wins when several fields fail at once.
var rulePriority = map[string]int{
	"required": 0,
	"eqfield":  1,
	"min":      2,
	"phone11":  3,
}

var ruleErr = map[string]error{
	"required": ErrMissingField,
	"eqfield":  ErrPasswordMismatch,
	"min":      ErrPasswordTooShort,
	"phone11":  ErrInvalidPhoneFormat,
}

func (c *Checker) check(rules any) error {
	err := c.v.Struct(rules)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var first validator.FieldError
	for _, fe := range verrs {
		if _, ok := rulePriority[fe.Tag()]; !ok {
			continue
		}
		if first == nil || rulePriority[fe.Tag()] < rulePriority[first.Tag()] {
			first = fe
		}
	}
	if first == nil {
		return verrs
	}
	return &FieldError{Field: first.Field(), Err: ruleErr[first.Tag()]}
}
