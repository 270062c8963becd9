package views

import (
	"context"
	"fmt"
	"strings"

	"medconnect/internal/apiclient"
	"medconnect/internal/notify"
	"medconnect/internal/session"
)

// AuthAPI is the part of the API client used to sign in.
type AuthAPI interface {
	Login(ctx context.Context, identifier, password string) (*apiclient.LoginResult, error)
}

// SessionStore persists the signed-in session.
type SessionStore interface {
	Save(s *session.Session) error
}

// Login is the sign-in form. Identifier is an email address or a mobile number.
type Login struct {
	Identifier string
	Password   string

	api      AuthAPI
	store    SessionStore
	notifier notify.Notifier
}

// NewLogin returns an empty sign-in form.
func NewLogin(api AuthAPI, store SessionStore, n notify.Notifier) *Login {
	return &Login{api: api, store: store, notifier: n}
}

// Submit signs in and stores the resulting session.
func (f *Login) Submit(ctx context.Context) (*session.Session, error) {
	if strings.TrimSpace(f.Identifier) == "" || f.Password == "" {
		f.notifier.Error("Email or mobile and password are required")
		return nil, fmt.Errorf("%w: missing credentials", ErrInvalidForm)
	}

	res, err := f.api.Login(ctx, strings.TrimSpace(f.Identifier), f.Password)
	if err != nil {
		f.notifier.Error(apiclient.MessageOr(err, "Login failed"))
		return nil, err
	}

	sess, err := session.FromToken(res.Token)
	if err != nil {
		f.notifier.Error("Login failed")
		return nil, err
	}
	if err := f.store.Save(sess); err != nil {
		f.notifier.Error("Could not store the session")
		return nil, err
	}

	msg := res.Message
	if msg == "" {
		msg = "Login successful"
	}
	f.notifier.Success(msg)
	f.Password = ""
	return sess, nil
}
