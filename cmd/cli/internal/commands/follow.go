package commands

import (
	"context"
	"fmt"

	"github.com/vendora/vendora/internal/state"
)

// FollowCmd subscribes the user to a store's updates.
type FollowCmd struct {
	clientFlags
	StoreID string `arg:"" help:"Store id to follow"`
}

func (f *FollowCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := f.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := f.newClient(globals)
	if err != nil {
		return err
	}

	following, err := client.IsFollowing(ctx, snap.Token, f.StoreID)
	if err != nil {
		return err
	}
	if following {
		fmt.Println("You are already following this store.")
		return nil
	}

	if err := client.FollowStore(ctx, snap.Token, f.StoreID); err != nil {
		return err
	}

	fmt.Println("Followed store.")
	return nil
}

// UnfollowCmd removes a store subscription.
type UnfollowCmd struct {
	clientFlags
	StoreID string `arg:"" help:"Store id to unfollow"`
}

func (u *UnfollowCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := u.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := u.newClient(globals)
	if err != nil {
		return err
	}

	if err := client.UnfollowStore(ctx, snap.Token, u.StoreID); err != nil {
		return err
	}

	fmt.Println("Unfollowed store.")
	return nil
}

// FollowingCmd lists the stores the user follows.
type FollowingCmd struct {
	clientFlags
}

func (f *FollowingCmd) Run(ctx context.Context, globals *Globals) error {
	store, err := f.newStore(ctx, globals)
	if err != nil {
		return err
	}

	snap := store.Snapshot()
	if !snap.Authenticated() {
		return state.ErrNotAuthenticated
	}

	client, err := f.newClient(globals)
	if err != nil {
		return err
	}

	storeIDs, err := client.ListFollowing(ctx, snap.Token)
	if err != nil {
		return err
	}

	if len(storeIDs) == 0 {
		fmt.Println("You are not following any stores.")
		return nil
	}

	fmt.Printf("Following %d store(s):\n", len(storeIDs))
	for _, id := range storeIDs {
		fmt.Printf("  %s\n", id)
	}

	return nil
}
