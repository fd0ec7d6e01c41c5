package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/asknalyze/internal/client"
	"github.com/wolfeidau/asknalyze/internal/navigation"
)

// RegisterCmd creates an account.
type RegisterCmd struct {
	API APIFlags `embed:""`

	FullName        string `help:"Full name" required:""`
	Email           string `help:"Account email" required:""`
	Role            string `help:"Role, e.g. 'Backend Developer'" required:""`
	Organization    string `help:"Current organization" required:""`
	Experience      string `help:"Years of experience" required:""`
	Password        string `help:"Password (prompted when omitted)" env:"ASKNALYZE_PASSWORD"`
	ConfirmPassword string `help:"Password confirmation (prompted when omitted)"`
}

func (c *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.API.open(ctx, globals)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	e.router.Navigate(navigation.PathRegister)

	password, confirm, err := newPassword(c.Password, c.ConfirmPassword)
	if err != nil {
		return err
	}

	msg, err := e.client.Register(ctx, client.RegisterRequest{
		FullName:        c.FullName,
		Email:           c.Email,
		Password:        password,
		ConfirmPassword: confirm,
		Role:            c.Role,
		Organization:    c.Organization,
		Experience:      c.Experience,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	e.router.Navigate(navigation.PathSignIn)

	out := globals.out()
	fmt.Fprintln(out, msg)
	fmt.Fprintf(out, "Sign in with: asknalyze-cli login --email %s\n", c.Email)
	return nil
}
