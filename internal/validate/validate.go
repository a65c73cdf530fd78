// Package validate checks form input locally before any request is made.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"taskflow/internal/service"
)

// LoginForm is the input of a login.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// RegisterForm is the input of an account registration.
type RegisterForm struct {
	Email    string `form:"email" validate:"required,email"`
	Name     string `form:"name" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// ListForm is the input of a list creation or rename.
type ListForm struct {
	Title string `form:"title" validate:"required"`
}

// TaskForm is the input of a task creation or edit.
type TaskForm struct {
	Text string `form:"text" validate:"required"`
}

var (
	instance *validator.Validate
	once     sync.Once
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			return fld.Tag.Get("form")
		})
	})
	return instance
}

// Struct validates a form. Whitespace-only fields count as empty.
// The first failing field is reported as a *service.ValidationError.
func Struct(form interface{}) error {
	err := get().Struct(trimmed(form))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	return &service.ValidationError{Field: fe.Field(), Message: message(fe)}
}

// Login validates login input and returns it trimmed.
func Login(email, password string) (LoginForm, error) {
	form := trimmed(LoginForm{Email: email, Password: password}).(LoginForm)
	return form, Struct(form)
}

// Register validates registration input and returns it trimmed.
func Register(email, name, password string) (RegisterForm, error) {
	form := trimmed(RegisterForm{Email: email, Name: name, Password: password}).(RegisterForm)
	return form, Struct(form)
}

// Title validates a list title and returns it trimmed.
func Title(title string) (string, error) {
	form := trimmed(ListForm{Title: title}).(ListForm)
	return form.Title, Struct(form)
}

// Text validates task text and returns it trimmed.
func Text(text string) (string, error) {
	form := trimmed(TaskForm{Text: text}).(TaskForm)
	return form.Text, Struct(form)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " is invalid"
	}
}

// trimmed returns a copy of a form struct with string fields trimmed.
// Passwords are left untouched apart from the emptiness check.
func trimmed(form interface{}) interface{} {
	v := reflect.ValueOf(form)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return form
	}

	out := reflect.New(v.Type()).Elem()
	out.Set(v)
	for i := 0; i < out.NumField(); i++ {
		f := out.Field(i)
		if f.Kind() != reflect.String || !f.CanSet() {
			continue
		}
		if strings.TrimSpace(f.String()) == "" {
			f.SetString("")
		} else if v.Type().Field(i).Tag.Get("form") != "password" {
			f.SetString(strings.TrimSpace(f.String()))
		}
	}
	return out.Interface()
}
