package api

import (
	"context"
	"fmt"
	"net/url"
)

// Service endpoint paths. Trailing slashes are part of the contract.
const (
	pathToken         = "/api/token/"
	pathRegister      = "/api/register/"
	pathVerifyOTP     = "/api/verify-otp/"
	pathPasswordReset = "/api/password-reset/"
)

// TokenPair is the credential pair issued by the token endpoint. Both
// tokens are opaque to the client. The refresh token is stored but not
// exercised: the service exposes no refresh endpoint.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// ObtainToken exchanges username and password for a token pair.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	err := c.postJSON(ctx, pathToken, map[string]string{
		"username": username,
		"password": password,
	}, &pair)
	return pair, err
}

// Register submits a new account. A 2xx means an OTP was mailed to the
// address; failures carry field-level errors (username or email taken).
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.postJSON(ctx, pathRegister, map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
}

// VerifyOTP redeems the one-time code mailed during registration.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.postJSON(ctx, pathVerifyOTP, map[string]string{
		"email": email,
		"otp":   otp,
	}, nil)
}

// RequestPasswordReset asks the service to mail a reset link. The endpoint
// answers 2xx whether or not the address matches an account, so a caller
// can never distinguish registered from unregistered emails.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.postJSON(ctx, pathPasswordReset, map[string]string{
		"email": email,
	}, nil)
}

// ConfirmPasswordReset redeems a reset link's (userRef, token) pair with
// the new password.
func (c *Client) ConfirmPasswordReset(ctx context.Context, userRef, token, password string) error {
	path := fmt.Sprintf("/api/password-reset-confirm/%s/%s/",
		url.PathEscape(userRef), url.PathEscape(token))
	return c.postJSON(ctx, path, map[string]string{
		"password": password,
	}, nil)
}
