package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/asknalyze/cmd/cli/internal/commands"
	"github.com/wolfeidau/asknalyze/internal/logger"
)

var (
	version = "dev"
	cli     struct {
		Login     commands.LoginCmd     `cmd:"" help:"Sign in"`
		Logout    commands.LogoutCmd    `cmd:"" help:"Sign out and clear the stored session"`
		Whoami    commands.WhoamiCmd    `cmd:"" help:"Show the signed-in user"`
		Status    commands.StatusCmd    `cmd:"" help:"Show session and server status"`
		Register  commands.RegisterCmd  `cmd:"" help:"Create an account"`
		Password  commands.PasswordCmd  `cmd:"" help:"Reset a forgotten password"`
		Profile   commands.ProfileCmd   `cmd:"" help:"Manage your profile"`
		Interview commands.InterviewCmd `cmd:"" help:"Interview practice forms"`
		Token     commands.TokenCmd     `cmd:"" help:"Issue or decode tokens"`
		Debug     bool                  `help:"Enable debug mode."`
		Version   kong.VersionFlag
	}
)

func main() {
	// ASKNALYZE_* settings may also come from a .env file
	_ = godotenv.Load()

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("asknalyze-cli"),
		kong.Description("Command line client for Asknalyze."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))

	log.Logger = logger.Setup(cli.Debug)

	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
