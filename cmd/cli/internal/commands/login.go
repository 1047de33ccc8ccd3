package commands

import (
	"context"
	"fmt"

	"github.com/vendora/vendora/internal/api"
	"github.com/vendora/vendora/internal/state"
)

// LoginCmd exchanges credentials for a token and stores the session.
type LoginCmd struct {
	clientFlags
	Email    string `arg:"" help:"Account email"`
	Password string `help:"Account password" env:"VENDORA_PASSWORD" required:""`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := l.newStore(ctx, globals)
	if err != nil {
		return err
	}

	client, err := l.newClient(globals)
	if err != nil {
		return err
	}

	token, err := client.Login(ctx, l.Email, l.Password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// The token change drives profile, membership and cart reconciliation.
	store.SetAuthToken(ctx, token)

	snap := store.Snapshot()
	if snap.User != nil {
		fmt.Printf("Logged in as %s <%s>\n", snap.User.Name, snap.User.Email)
	} else {
		fmt.Println("Logged in.")
	}

	if snap.Store != nil {
		fmt.Printf("Store membership: %s (%s)\n", snap.Store.StoreName, snap.Store.Status)
	}

	if count := store.CartCount(); count > 0 {
		fmt.Printf("Your cart has %d item(s). Run 'vendora-cli cart show' to review.\n", count)
	}

	return nil
}

// LogoutCmd destroys the session and wipes the persisted token.
type LogoutCmd struct {
	clientFlags
}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := l.newStore(ctx, globals)
	if err != nil {
		return err
	}

	store.DestroySession()
	fmt.Println("Logged out.")
	return nil
}

// ProfileCmd is the account surface: view and edit the signed-in user.
type ProfileCmd struct {
	Show   ProfileShowCmd   `cmd:"" default:"1" help:"Show the signed-in user and store membership"`
	Update ProfileUpdateCmd `cmd:"" help:"Update your name, phone or address"`
	Avatar ProfileAvatarCmd `cmd:"" help:"Upload a new profile picture"`
}

// ProfileShowCmd shows the signed-in user and store membership.
type ProfileShowCmd struct {
	clientFlags
}

func (p *ProfileShowCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := p.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() || snap.User == nil {
		fmt.Println("Not logged in.")
		fmt.Println()
		fmt.Println("To sign in:")
		fmt.Println("  vendora-cli login <email> --password=...")
		return nil
	}

	fmt.Printf("Name:   %s\n", snap.User.Name)
	fmt.Printf("Email:  %s\n", snap.User.Email)
	if snap.User.Phone != "" {
		fmt.Printf("Phone:  %s\n", snap.User.Phone)
	}

	fmt.Println()
	if snap.Store == nil {
		fmt.Println("Store membership: none")
		fmt.Println("Apply with 'vendora-cli store request'.")
	} else {
		fmt.Printf("Store membership: %s (%s)\n", snap.Store.StoreName, snap.Store.Status)
	}

	fmt.Printf("\nCart: %d item(s), %s\n", store.CartCount(), money(store.CartAmount()))
	return nil
}

// ProfileUpdateCmd edits the account's contact details.
type ProfileUpdateCmd struct {
	clientFlags
	FirstName string `help:"First name" required:""`
	LastName  string `help:"Last name" required:""`
	Phone     string `help:"Phone number"`
	Address   string `help:"Postal address"`
}

func (p *ProfileUpdateCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := p.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := p.newClient(globals)
	if err != nil {
		return err
	}

	err = client.UpdateProfile(ctx, snap.Token, api.ProfileUpdate{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Address:   p.Address,
	})
	if err != nil {
		return err
	}

	// Pull the server's updated view into the cached session.
	_ = store.FetchProfile(ctx)

	fmt.Println("Profile updated.")
	return nil
}

// ProfileAvatarCmd uploads a new profile picture.
type ProfileAvatarCmd struct {
	clientFlags
	Path string `arg:"" help:"Path to the image file" type:"existingfile"`
}

func (p *ProfileAvatarCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := p.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := p.newClient(globals)
	if err != nil {
		return err
	}

	if err := client.UpdateAvatar(ctx, snap.Token, p.Path); err != nil {
		return err
	}

	_ = store.FetchProfile(ctx)

	fmt.Println("Avatar updated.")
	return nil
}
