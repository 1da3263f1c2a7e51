package domain

import "errors"

var (
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrBlocked            = errors.New("blocked")
	ErrTooManyAttempts    = errors.New("too_many_attempts")
	ErrCaptchaMismatch    = errors.New("captcha_mismatch")
	ErrForbiddenCharacter = errors.New("forbidden_character")
	ErrProductExists      = errors.New("product_exists")
	ErrValidation         = errors.New("validation")
)
