package pihole

import (
	"errors"
	"fmt"
)

// AuthErrorKind classifies authentication failures.
type AuthErrorKind int

const (
	// KindInvalidCredentials means Pi-hole rejected the configured password.
	KindInvalidCredentials AuthErrorKind = iota
	// KindAuthUnreachable means the login exchange never completed.
	KindAuthUnreachable
)

// AuthError is returned when the login exchange with Pi-hole fails.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case KindInvalidCredentials:
		return "pihole: invalid credentials"
	default:
		if e.Err != nil {
			return fmt.Sprintf("pihole: authentication unreachable: %v", e.Err)
		}
		return "pihole: authentication unreachable"
	}
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchErrorKind classifies statistics fetch failures.
type FetchErrorKind int

const (
	// KindSessionExpired means Pi-hole answered 401/403; the caller should
	// re-authenticate and retry exactly once.
	KindSessionExpired FetchErrorKind = iota
	// KindParse means the response body was not the expected JSON shape.
	KindParse
	// KindUnreachable means the request could not be completed.
	KindUnreachable
	// KindTimeout means the request exceeded its deadline.
	KindTimeout
)

// FetchError is returned when a statistics request fails.
type FetchError struct {
	Kind FetchErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindSessionExpired:
		return "pihole: session expired"
	case KindParse:
		return fmt.Sprintf("pihole: unexpected response shape: %v", e.Err)
	case KindTimeout:
		return fmt.Sprintf("pihole: request timed out: %v", e.Err)
	default:
		return fmt.Sprintf("pihole: unreachable: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsSessionExpired reports whether err signals that the Pi-hole session
// must be renewed before retrying.
func IsSessionExpired(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == KindSessionExpired
}

// IsInvalidCredentials reports whether err means Pi-hole rejected the
// configured password.
func IsInvalidCredentials(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == KindInvalidCredentials
}
