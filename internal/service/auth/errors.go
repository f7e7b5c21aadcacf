package auth

import "errors"

// Authentication errors.
var (
	// ErrInvalidToken means the token is malformed or its signature does not match.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken means the token's exp claim has passed.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid means the token's nbf or iat claim is in the future.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrWrongTokenType means a refresh token was used as an access token or
	// the reverse.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrMissingToken means a request carried no bearer token.
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials means the email or password did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
