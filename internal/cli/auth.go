package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnloop/learnloop-cli/internal/api"
	"github.com/learnloop/learnloop-cli/internal/models"
)

// printAPIError renders backend errors in a user-friendly form. Structured
// backend errors carry a detail message; everything else prints as-is.
func (a *App) printAPIError(err error) {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, "Error:", apiErr.Detail)
	case errors.Is(err, api.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.Is(err, api.ErrNoToken), errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintln(a.out, "You need to log in first")
	default:
		fmt.Fprintln(a.out, "Error:", err.Error())
	}
}

func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	resp, err := a.client.Register(ctx, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		a.printAPIError(err)
		return err
	}

	if resp.AccessToken != "" {
		a.session.Login(ctx, resp.AccessToken)
	}
	fmt.Fprintln(a.out, "Account created. Check your inbox for a verification email.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	resp, err := a.client.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		a.printAPIError(err)
		return err
	}

	a.session.Login(ctx, resp.AccessToken)

	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "Login failed")
		return nil
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", st.User.Username)
	if !st.User.EmailVerified {
		fmt.Fprintln(a.out, "Your email is not verified yet. Use 'verify <token>' or 'resend'.")
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout()
	a.dropListed()
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Verify(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: verify <token>")
		return nil
	}

	msg, err := a.client.VerifyEmail(ctx, args[0])
	if err != nil {
		a.printAPIError(err)
		return err
	}
	fmt.Fprintln(a.out, msg.Message)

	// Pick up the verified flag on the profile.
	a.session.Refresh(ctx)
	return nil
}

func (a *App) Resend(ctx context.Context) error {
	var email string
	if st := a.session.State(); st.User != nil {
		email = st.User.Email
	} else {
		var err error
		email, err = GetSimpleText(a.reader, "Enter email", a.out)
		if err != nil {
			return err
		}
	}

	msg, err := a.client.ResendVerification(ctx, email)
	if err != nil {
		a.printAPIError(err)
		return err
	}
	fmt.Fprintln(a.out, msg.Message)
	return nil
}
