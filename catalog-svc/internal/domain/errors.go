package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyValue               = errors.New("the value cannot be empty")
	ErrInvalidValue             = errors.New("the value is not valid")
	ErrObjectManagerType        = errors.New("object manager: unexpected object type")
	ErrInvalidAccessConstructor = errors.New("object was not built with its constructor")
	ErrNotAssigned              = errors.New("the object is not assigned")

	ErrDishExists       = errors.New("dish already exists")
	ErrCategoryExists   = errors.New("category already exists")
	ErrAllergenExists   = errors.New("allergen already exists")
	ErrMenuExists       = errors.New("menu already exists")
	ErrRestaurantExists = errors.New("restaurant already exists")

	ErrDishNotExist       = errors.New("dish does not exist")
	ErrCategoryNotExist   = errors.New("category does not exist")
	ErrAllergenNotExist   = errors.New("allergen does not exist")
	ErrMenuNotExist       = errors.New("menu does not exist")
	ErrRestaurantNotExist = errors.New("restaurant does not exist")
)

// FieldError reports a field that failed validation on construction or mutation.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrEmptyValue) {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func emptyValue(field string) error {
	return &FieldError{Field: field, Err: ErrEmptyValue}
}

func invalidValue(field string, value any) error {
	return &FieldError{Field: field, Value: value, Err: ErrInvalidValue}
}

// TypeError is returned by the catalog when a parameter does not hold the
// entity it expects.
type TypeError struct {
	Param    string
	Expected string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: the %s parameter must be a %s", ErrObjectManagerType, e.Param, e.Expected)
}

func (e *TypeError) Unwrap() error {
	return ErrObjectManagerType
}

// EntityError ties a registry failure to the entity that caused it.
type EntityError struct {
	Kind Kind
	Name string
	Err  error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Name, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

var existsErrors = map[Kind]error{
	KindDish:       ErrDishExists,
	KindCategory:   ErrCategoryExists,
	KindAllergen:   ErrAllergenExists,
	KindMenu:       ErrMenuExists,
	KindRestaurant: ErrRestaurantExists,
}

var notExistErrors = map[Kind]error{
	KindDish:       ErrDishNotExist,
	KindCategory:   ErrCategoryNotExist,
	KindAllergen:   ErrAllergenNotExist,
	KindMenu:       ErrMenuNotExist,
	KindRestaurant: ErrRestaurantNotExist,
}

// Exists builds the "<Kind>Exists" error for name.
func Exists(kind Kind, name string) error {
	return &EntityError{Kind: kind, Name: name, Err: existsErrors[kind]}
}

// NotExist builds the "<Kind>NotExist" error for name.
func NotExist(kind Kind, name string) error {
	return &EntityError{Kind: kind, Name: name, Err: notExistErrors[kind]}
}

// NotAssigned builds the error returned when name has no link to target.
func NotAssigned(kind Kind, name, target string) error {
	return fmt.Errorf("%w: %s %q is not assigned to %q", ErrNotAssigned, kind, name, target)
}
