package cli

import (
	"context"
	"fmt"

	"github.com/learnloop/learnloop-cli/internal/models"
)

func (a *App) Whoami(ctx context.Context) error {
	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	u := st.User
	fmt.Fprintf(a.out, "%s <%s>\n", u.Username, u.Email)
	if !u.EmailVerified {
		fmt.Fprintln(a.out, "Email: not verified")
	}
	if u.Bio != "" {
		fmt.Fprintln(a.out, "Bio:", u.Bio)
	}
	fmt.Fprintln(a.out, "Member since:", u.CreatedAt)
	return nil
}

func (a *App) SetBio(ctx context.Context) error {
	bio, err := GetMultiline(a.reader, "Enter your bio", a.out)
	if err != nil {
		return err
	}

	if _, err := a.client.UpdateProfile(ctx, models.UpdateUserRequest{Bio: &bio}); err != nil {
		a.printAPIError(err)
		return err
	}

	fmt.Fprintln(a.out, "Bio updated")
	a.session.Refresh(ctx)
	return nil
}

func (a *App) Passwd(ctx context.Context) error {
	current, err := GetPassword(a.out, "Current password")
	if err != nil {
		return err
	}
	next, err := GetPassword(a.out, "New password")
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.out, "Repeat new password")
	if err != nil {
		return err
	}
	if next != confirm {
		fmt.Fprintln(a.out, "Passwords do not match")
		return nil
	}

	msg, err := a.client.ChangePassword(ctx, models.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		a.printAPIError(err)
		return err
	}
	fmt.Fprintln(a.out, msg.Message)
	return nil
}
