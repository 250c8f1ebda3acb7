package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")

	// Token related errors
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")

	// Restaurant/dish related errors
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrDishNotFound       = errors.New("dish not found")
	ErrOwnerNotFound      = errors.New("restaurant owner not found")
	ErrFavoriteNotFound   = errors.New("favorite not found")

	// Archive related errors
	ErrArchiveNotFound = errors.New("archive not found")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Storage errors
	ErrConstraintViolation = errors.New("storage constraint violation")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
