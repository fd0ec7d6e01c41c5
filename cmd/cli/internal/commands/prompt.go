package commands

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"golang.org/x/term"
)

const minPasswordLength = 8

var (
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrInvalidOTP       = errors.New("please enter a valid 6-digit OTP")
)

var otpPattern = regexp.MustCompile(`^[0-9]{6}$`)

// readPassword is swapped out in tests to avoid touching the terminal.
var readPassword = func(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

// passwordOrPrompt returns given, or prompts for one when it is empty.
func passwordOrPrompt(given, prompt string) (string, error) {
	if given != "" {
		return given, nil
	}
	return readPassword(prompt)
}

// newPassword returns a checked new password and its confirmation,
// prompting for whichever is missing.
func newPassword(password, confirm string) (string, string, error) {
	password, err := passwordOrPrompt(password, "New password: ")
	if err != nil {
		return "", "", err
	}
	if confirm == "" {
		if confirm, err = readPassword("Confirm password: "); err != nil {
			return "", "", err
		}
	}

	if len(password) < minPasswordLength {
		return "", "", ErrPasswordTooShort
	}
	if password != confirm {
		return "", "", ErrPasswordMismatch
	}
	return password, confirm, nil
}
