package service

import "net/http"

// Error is a service-level error carrying the HTTP status it maps to and the
// exact message shown to the client. Anything that is not a *Error is treated
// as an unclassified server error and never reaches the client verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrUserNotFound      = &Error{Status: http.StatusNotFound, Message: "User not found."}
	ErrLoginFailed       = &Error{Status: http.StatusUnauthorized, Message: "Login failed."}
	ErrProductNotFound   = &Error{Status: http.StatusNotFound, Message: "Product not found."}
	ErrOutOfStock        = &Error{Status: http.StatusConflict, Message: "Product out of stock."}
	ErrTransactionFailed = &Error{Status: http.StatusBadGateway, Message: "Transaction failed."}

	ErrMissingFields     = &Error{Status: http.StatusBadRequest, Message: "Missing fields."}
	ErrPasswordMismatch  = &Error{Status: http.StatusBadRequest, Message: "Passwords do not match."}
	ErrInvalidEmail      = &Error{Status: http.StatusBadRequest, Message: "Invalid email."}
	ErrWeakPassword      = &Error{Status: http.StatusBadRequest, Message: "Password is not strong enough."}
	ErrDuplicateUsername = &Error{Status: http.StatusBadRequest, Message: "Username already exists."}
	ErrDuplicateEmail    = &Error{Status: http.StatusBadRequest, Message: "Email already exists."}
)
