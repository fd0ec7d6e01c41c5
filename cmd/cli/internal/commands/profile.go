package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/asknalyze/internal/client"
	"github.com/wolfeidau/asknalyze/internal/navigation"
)

type ProfileCmd struct {
	Update ProfileUpdateCmd `cmd:"" help:"Update the signed-in user's profile"`
}

// ProfileUpdateCmd changes profile fields. Omitted flags keep the values
// carried in the current session.
type ProfileUpdateCmd struct {
	API APIFlags `embed:""`

	FullName     string `help:"Full name"`
	Role         string `help:"Role"`
	Organization string `help:"Organization"`
	Experience   string `help:"Years of experience"`
}

func (c *ProfileUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.API.open(ctx, globals)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	if err := e.enter(navigation.PathUpdateProfile); err != nil {
		return err
	}

	user, ok := e.session.CurrentUser()
	if !ok {
		return ErrNotSignedIn
	}

	update := client.ProfileUpdate{
		Email:        user.Email,
		FullName:     orDefault(c.FullName, user.FullName),
		Role:         orDefault(c.Role, user.Role),
		Organization: orDefault(c.Organization, user.Organization),
		Experience:   orDefault(c.Experience, user.Experience),
	}

	msg, err := e.client.UpdateProfile(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", e.apiError(err))
	}

	e.router.Navigate(navigation.PathDashboard)

	fmt.Fprintln(globals.out(), msg)
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
