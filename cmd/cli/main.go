package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/vendora/vendora/cmd/cli/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login      commands.LoginCmd      `cmd:"" help:"Log in to the storefront"`
		Logout     commands.LogoutCmd     `cmd:"" help:"Log out and clear the local session"`
		Profile    commands.ProfileCmd    `cmd:"" help:"Show or edit the signed-in profile"`
		Products   commands.ProductsCmd   `cmd:"" help:"Browse the product catalog"`
		Product    commands.ProductCmd    `cmd:"" help:"Show one product"`
		Categories commands.CategoriesCmd `cmd:"" help:"List product categories"`
		Cart       commands.CartCmd       `cmd:"" help:"Manage the shopping cart"`
		Checkout   commands.CheckoutCmd   `cmd:"" help:"Place an order for the cart contents"`
		Orders     commands.OrdersCmd     `cmd:"" help:"List your orders"`
		Store      commands.StoreCmd      `cmd:"" help:"Seller storefront dashboard"`
		Follow     commands.FollowCmd     `cmd:"" help:"Follow a store"`
		Unfollow   commands.UnfollowCmd   `cmd:"" help:"Unfollow a store"`
		Following  commands.FollowingCmd  `cmd:"" help:"List followed stores"`
		Admin      commands.AdminCmd      `cmd:"" help:"Marketplace back-office"`
		Debug      bool                   `help:"Enable debug mode."`
		Version    kong.VersionFlag
	}
)

func main() {
	// Optional .env for VENDORA_SERVER and friends
	_ = godotenv.Load()

	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
