package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped
// in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and establishes a session. On success
// the cart store switches to the gateway's cart via the subscription
// wired in NewApp.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	err = a.session.Login(ctx, models.LoginCredentials{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidCredentials) {
			printlnFn("Invalid username or password.")
			return err
		}
		printlnFn("Login failed:", err.Error())
		return err
	}

	if user, ok := a.session.User(); ok {
		printlnFn(fmt.Sprintf("Welcome back, %s!", user.Username))
	}
	return nil
}

// Register prompts for account details and creates an account. A
// successful registration also logs in.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	firstName, err := getSimpleText(a.reader, "Enter first name", os.Stdout)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Enter last name", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	data := models.RegisterData{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := a.session.Register(ctx, data); err != nil {
		if errors.Is(err, gateway.ErrRegistrationFailed) {
			printlnFn("Registration failed. Check the entered values and try again.")
			return err
		}
		printlnFn("Registration failed:", err.Error())
		return err
	}

	printlnFn("Account created.")
	return nil
}

// Logout clears the session. The cart store falls back to the locally
// stored anonymous cart via the auth subscription.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	printlnFn("Logged out.")
	return nil
}
