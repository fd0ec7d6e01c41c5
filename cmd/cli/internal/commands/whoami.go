package commands

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/wolfeidau/asknalyze/internal/navigation"
	"github.com/wolfeidau/asknalyze/internal/session"
)

// WhoamiCmd shows the signed-in user.
type WhoamiCmd struct {
	State StateFlags `embed:""`
}

func (c *WhoamiCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.State.open()
	if err != nil {
		return err
	}

	if err := e.enter(navigation.PathDashboard); err != nil {
		return err
	}

	user, ok := e.session.CurrentUser()
	if !ok {
		return ErrNotSignedIn
	}

	printUser(globals, user)
	return nil
}

func printUser(globals *Globals, user *session.User) {
	w := tabwriter.NewWriter(globals.out(), 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(w, "%s\t%s\n", label, value)
		}
	}

	row("Name:", user.FullName)
	row("Email:", user.Email)
	row("ID:", user.ID)
	row("Role:", user.Role)
	row("Organization:", user.Organization)
	row("Experience:", user.Experience)
	if user.ExpiresAt != nil {
		row("Expires:", user.ExpiresAt.Format(time.DateTime))
	}

	w.Flush()
}

// StatusCmd reports the state of the stored session and whether the API is
// reachable.
type StatusCmd struct {
	API APIFlags `embed:""`
}

func (c *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	e, err := c.API.open(ctx, globals)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	out := globals.out()
	fmt.Fprintf(out, "State:   %s\n", e.store.Path())

	err = e.session.Validate()
	switch {
	case err == nil:
		user, _ := e.session.CurrentUser()
		fmt.Fprintf(out, "Session: signed in as %s\n", user.Email)
	case errors.Is(err, session.ErrNoSession):
		fmt.Fprintln(out, "Session: signed out")
	case errors.Is(err, session.ErrExpiredToken):
		fmt.Fprintln(out, "Session: expired (cleared)")
	default:
		fmt.Fprintf(out, "Session: invalid token (cleared): %v\n", err)
	}

	if err := e.client.Ping(ctx); err != nil {
		fmt.Fprintf(out, "Server:  %s unreachable: %v\n", c.API.Server, err)
		return nil
	}
	fmt.Fprintf(out, "Server:  %s reachable\n", c.API.Server)
	return nil
}
