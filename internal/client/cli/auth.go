package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/nihongo/internal/common"
)

var errLoginRequired = errors.New("please login first")

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	apiKey, err := getPassword(a.out, "Enter Gemini API key")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(apiKey)

	id, err := a.session.Register(ctx, username, string(password), string(apiKey))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered and signed in as %s\n", id.Username)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	id, err := a.session.Login(ctx, username, string(password))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", id.Username)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	a.println("Signed out")
	return nil
}

func (a *App) WhoAmI(context.Context) error {
	id, ok := a.session.CurrentIdentity()
	if !ok {
		a.println("Not signed in")
		return nil
	}
	fmt.Fprintf(a.out, "%s (id %s)\n", id.Username, id.ID)
	return nil
}
