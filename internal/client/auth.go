package client

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

// RegisterRequest is the body of a registration call.
type RegisterRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Role            string `json:"role"`
	Organization    string `json:"organization"`
	Experience      string `json:"experience"`
}

// ProfileUpdate is the body of an update-profile call. Email selects the
// account; the remaining fields replace the stored values.
type ProfileUpdate struct {
	Email        string `json:"email"`
	FullName     string `json:"fullName"`
	Role         string `json:"role"`
	Organization string `json:"organization"`
	Experience   string `json:"experience"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type resetRequest struct {
	Email           string `json:"email"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	status, err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return "", err
	}
	if !resp.Success {
		return "", &APIError{StatusCode: status, Message: resp.Message}
	}
	if resp.Token == "" {
		return "", ErrEmptyToken
	}
	return resp.Token, nil
}

// Register creates an account and returns the server's message.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	return c.call(ctx, http.MethodPost, "/api/auth/register", req)
}

// RequestOTP asks the server to email a one-time password to email.
func (c *Client) RequestOTP(ctx context.Context, email string) (string, error) {
	return c.call(ctx, http.MethodPost, "/api/auth/forgot-password/request", emailRequest{Email: email})
}

// VerifyOTP checks a one-time password. An invalid or expired code is an
// *APIError wrapping ErrRejected.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	return c.call(ctx, http.MethodPost, "/api/auth/forgot-password/verify", verifyRequest{Email: email, OTP: otp})
}

// ResetPassword sets a new password after a verified OTP.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword, confirmPassword string) (string, error) {
	return c.call(ctx, http.MethodPost, "/api/auth/forgot-password/reset", resetRequest{
		Email:           email,
		NewPassword:     newPassword,
		ConfirmPassword: confirmPassword,
	})
}

// UpdateProfile changes the profile of the signed-in user. The server only
// reissues claims on the next login.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (string, error) {
	return c.call(ctx, http.MethodPatch, "/api/auth/update-profile", update)
}

func (c *Client) call(ctx context.Context, method, path string, in any) (string, error) {
	var resp apiResponse
	status, err := c.do(ctx, method, path, in, &resp)
	if err != nil {
		return "", err
	}
	return resp.check(status)
}
