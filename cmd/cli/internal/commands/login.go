package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/asknalyze/internal/client"
	"github.com/wolfeidau/asknalyze/internal/navigation"
)

// LoginCmd signs in and stores the session token.
type LoginCmd struct {
	API APIFlags `embed:""`

	Email    string `help:"Account email" required:""`
	Password string `help:"Account password (prompted when omitted)" env:"ASKNALYZE_PASSWORD"`
}

func (c *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.API.open(ctx, globals)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	e.router.Navigate(navigation.PathSignIn)

	password, err := passwordOrPrompt(c.Password, "Password: ")
	if err != nil {
		return err
	}

	token, err := e.client.Login(ctx, c.Email, password)
	switch {
	case errors.Is(err, client.ErrNotFound):
		return fmt.Errorf("%s is not registered, run 'asknalyze-cli register': %w", c.Email, err)
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("wrong password: %w", err)
	case err != nil:
		return fmt.Errorf("login failed: %w", err)
	}

	if err := e.session.Login(token, nil); err != nil {
		return err
	}

	if d := e.router.Navigate(navigation.PathDashboard); !d.Allowed() {
		return fmt.Errorf("server issued an unusable token: %w", ErrNotSignedIn)
	}

	name := c.Email
	if user, ok := e.session.CurrentUser(); ok && user.FullName != "" {
		name = user.FullName
	}
	fmt.Fprintf(globals.out(), "Signed in as %s\n", name)
	return nil
}

// LogoutCmd removes the stored session.
type LogoutCmd struct {
	State StateFlags `embed:""`
}

func (c *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.State.open()
	if err != nil {
		return err
	}

	e.session.Logout()
	e.router.Navigate(navigation.PathSignIn)

	fmt.Fprintln(globals.out(), "Signed out")
	return nil
}
