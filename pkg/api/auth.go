package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Goden-Gun/diary-client/pkg/apierr"
	"github.com/Goden-Gun/diary-client/pkg/codes"
)

// AuthService covers sign-in, sign-up and password recovery. None of its
// calls send a bearer token.
type AuthService struct {
	c *Client
}

// Login exchanges credentials for a token pair and stores the access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	var out TokenPair
	err := s.c.do(ctx, call{
		name:   "Login",
		method: http.MethodPost,
		path:   "/api/token/",
		body:   Credentials{Username: strings.TrimSpace(username), Password: password},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Access == "" {
		return nil, apierr.New(codes.AuthFailed, errors.New("login response carried no access token"))
	}
	if err := s.c.tokens.Set(ctx, out.Access); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout forgets the stored token. The backend keeps no session to end.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.c.tokens.Remove(ctx)
}

// Authenticated reports whether a usable token is stored.
func (s *AuthService) Authenticated(ctx context.Context) bool {
	_, err := s.c.bearer(ctx)
	return err == nil
}

// Register starts sign-up; the backend mails a verification code.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	return s.c.do(ctx, call{name: "Register", method: http.MethodPost, path: "/api/register/", body: req}, nil)
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	body := map[string]string{"email": strings.TrimSpace(email), "code": strings.TrimSpace(code)}
	return s.c.do(ctx, call{name: "VerifyEmail", method: http.MethodPost, path: "/api/email/verify/", body: body}, nil)
}

func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	body := map[string]string{"email": strings.TrimSpace(email)}
	return s.c.do(ctx, call{name: "ResendVerification", method: http.MethodPost, path: "/api/email/resend/", body: body}, nil)
}

func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": strings.TrimSpace(email)}
	return s.c.do(ctx, call{name: "RequestPasswordReset", method: http.MethodPost, path: "/api/password/reset-request/", body: body}, nil)
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	body := map[string]string{
		"email":        strings.TrimSpace(email),
		"code":         strings.TrimSpace(code),
		"new_password": newPassword,
	}
	return s.c.do(ctx, call{name: "ConfirmPasswordReset", method: http.MethodPost, path: "/api/password/reset-confirm/", body: body}, nil)
}
