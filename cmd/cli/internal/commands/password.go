package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/asknalyze/internal/navigation"
)

// PasswordCmd walks through the forgotten password flow: request an OTP,
// verify it, then set a new password.
type PasswordCmd struct {
	Request PasswordRequestCmd `cmd:"" help:"Email a one-time password"`
	Verify  PasswordVerifyCmd  `cmd:"" help:"Verify a one-time password"`
	Reset   PasswordResetCmd   `cmd:"" help:"Set a new password after verifying"`
}

type PasswordRequestCmd struct {
	API   APIFlags `embed:""`
	Email string   `help:"Account email" required:""`
}

func (c *PasswordRequestCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.API.open(ctx, globals)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	e.router.Navigate(navigation.PathForgotPassword)

	msg, err := e.client.RequestOTP(ctx, c.Email)
	if err != nil {
		return fmt.Errorf("failed to request OTP: %w", err)
	}

	fmt.Fprintln(globals.out(), msg)
	return nil
}

type PasswordVerifyCmd struct {
	API   APIFlags `embed:""`
	Email string   `help:"Account email" required:""`
	OTP   string   `name:"otp" help:"Six digit code from the email" required:""`
}

func (c *PasswordVerifyCmd) Run(ctx context.Context, globals *Globals) error {
	if !otpPattern.MatchString(c.OTP) {
		return ErrInvalidOTP
	}

	e, err := c.API.open(ctx, globals)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	e.router.Navigate(navigation.PathForgotPassword)

	msg, err := e.client.VerifyOTP(ctx, c.Email, c.OTP)
	if err != nil {
		return fmt.Errorf("failed to verify OTP: %w", err)
	}

	fmt.Fprintln(globals.out(), msg)
	return nil
}

type PasswordResetCmd struct {
	API             APIFlags `embed:""`
	Email           string   `help:"Account email" required:""`
	Password        string   `help:"New password (prompted when omitted)" env:"ASKNALYZE_PASSWORD"`
	ConfirmPassword string   `help:"New password confirmation (prompted when omitted)"`
}

func (c *PasswordResetCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.API.open(ctx, globals)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	e.router.Navigate(navigation.PathForgotPassword)

	password, confirm, err := newPassword(c.Password, c.ConfirmPassword)
	if err != nil {
		return err
	}

	msg, err := e.client.ResetPassword(ctx, c.Email, password, confirm)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	e.router.Navigate(navigation.PathSignIn)

	fmt.Fprintln(globals.out(), msg)
	return nil
}
