// Package apperror defines the error kinds surfaced by the service and the
// HTTP status and type code each one maps to.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the HTTP layer.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindHTTPClient
	KindCSV
	KindCache
	KindDiscordNotify
	KindConfig

	numKinds
)

type kindInfo struct {
	status int
	code   string
	prefix string
}

// Every Kind must have an entry here; TestKindTableComplete enforces it.
var kindTable = [numKinds]kindInfo{
	KindInternal:       {http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"},
	KindAuthentication: {http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Authentication failed"},
	KindHTTPClient:     {http.StatusBadGateway, "HTTP_CLIENT_ERROR", "HTTP client error"},
	KindCSV:            {http.StatusInternalServerError, "CSV_ERROR", "CSV parsing error"},
	KindCache:          {http.StatusInternalServerError, "CACHE_ERROR", "Cache error"},
	KindDiscordNotify:  {http.StatusBadGateway, "DISCORD_NOTIFY_ERROR", "Discord service error"},
	KindConfig:         {http.StatusInternalServerError, "CONFIG_ERROR", "Configuration error"},
}

func (k Kind) info() kindInfo {
	if k < 0 || k >= numKinds {
		return kindTable[KindInternal]
	}
	return kindTable[k]
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int { return k.info().status }

// Code returns the machine-readable type code, e.g. "CSV_ERROR".
func (k Kind) Code() string { return k.info().code }

func (k Kind) String() string { return k.Code() }

// Error is an error tagged with a Kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap tags err with kind. message may be empty.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	return e.Kind.info().prefix + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int { return e.Kind.Status() }

// Code returns the type code for the error's kind.
func (e *Error) Code() string { return e.Kind.Code() }

// From returns err as an *Error. Errors without a kind become KindInternal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(KindInternal, err, "")
}

// KindOf reports the kind of err, or KindInternal if it carries none.
func KindOf(err error) Kind {
	return From(err).Kind
}
