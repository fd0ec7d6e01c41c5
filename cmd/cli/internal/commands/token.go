package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wolfeidau/asknalyze/internal/auth"
	"github.com/wolfeidau/asknalyze/internal/navigation"
	"github.com/wolfeidau/asknalyze/internal/session"
	"github.com/wolfeidau/asknalyze/internal/storage"
)

type TokenCmd struct {
	Issue  TokenIssueCmd  `cmd:"" help:"Generate a signed development token"`
	Decode TokenDecodeCmd `cmd:"" help:"Print the claims of a token without verifying it"`
}

type TokenIssueCmd struct {
	Subject      string        `help:"Account email, used as the subject" required:""`
	TTL          time.Duration `help:"Token lifetime" default:"1h"`
	SigningKey   string        `help:"HS256 signing key" required:"" env:"ASKNALYZE_JWT_SECRET"`
	UserID       string        `help:"User ID claim"`
	FullName     string        `help:"Full name claim"`
	Role         string        `help:"Role claim"`
	Organization string        `help:"Organization claim"`
	Experience   string        `help:"Experience claim"`
}

func (t *TokenIssueCmd) Run(ctx context.Context, globals *Globals) error {
	token, err := auth.IssueToken([]byte(t.SigningKey), t.Subject, auth.Profile{
		UserID:       t.UserID,
		FullName:     t.FullName,
		Role:         t.Role,
		Organization: t.Organization,
		Experience:   t.Experience,
	}, t.TTL)
	if err != nil {
		return err
	}

	fmt.Fprintln(globals.out(), token)
	return nil
}

type TokenDecodeCmd struct {
	Token     string `arg:"" help:"Token to decode"`
	VerifyKey string `help:"Also check the HS256 signature with this key" env:"ASKNALYZE_JWT_SECRET"`
}

type decodedToken struct {
	User     *session.User `json:"user"`
	Expired  bool          `json:"expired"`
	Verified *bool         `json:"verified,omitempty"`
}

func (t *TokenDecodeCmd) Run(ctx context.Context, globals *Globals) error {
	m := session.New(storage.NewMemory(), navigation.NewLocation(navigation.PathRoot))

	claims, err := m.DecodeToken(t.Token)
	if err != nil {
		return err
	}

	out := decodedToken{
		User:    claims.User(),
		Expired: claims.Expired(time.Now()),
	}

	if t.VerifyKey != "" {
		_, err := auth.VerifyToken([]byte(t.VerifyKey), t.Token)
		verified := err == nil
		if err != nil {
			log.Warn().Err(err).Msg("signature check failed")
		}
		out.Verified = &verified
	}

	enc := json.NewEncoder(globals.out())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
