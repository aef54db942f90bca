package handlers

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// CredentialsRequest is the DTO bound from the web login form.
// Either field may arrive alone: the 2FA password is often sent after the code.
type CredentialsRequest struct {
	Code     string `form:"code" validate:"required_without=Password,max=32"`
	Password string `form:"password" validate:"max=256"`
}
