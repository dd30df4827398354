package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-hub/internal/client/api"
	"github.com/skillswap/skillswap-hub/internal/client/render"
	"github.com/skillswap/skillswap-hub/internal/client/savedcache"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List skill categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := signedInClient()
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout(cmd)
		defer cancel()

		cats, err := client.Categories(ctx)
		if err != nil {
			return fmt.Errorf("cannot load categories: %w", err)
		}
		fmt.Print(render.Categories(cats))
		return nil
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Show your saved skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		syncer, err := newSyncer()
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout(cmd)
		defer cancel()

		saved, stale, err := syncer.Saved(ctx)
		if err != nil {
			return fmt.Errorf("cannot load saved skills: %w", err)
		}
		fmt.Print(render.Saved(saved, stale))
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <skill>",
	Short: "Save a skill, or remove it if already saved",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		syncer, err := newSyncer()
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout(cmd)
		defer cancel()

		skill := strings.Join(args, " ")
		saved, err := syncer.Toggle(ctx, skill)
		if err != nil {
			return fmt.Errorf("cannot update saved skills: %w", err)
		}
		fmt.Println(render.Toggled(skill, saved))
		fmt.Print(render.Saved(saved, false))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd, savedCmd, saveCmd)
}

func newSyncer() (*savedcache.Syncer, error) {
	client, s, err := signedInClient()
	if err != nil {
		return nil, err
	}
	path, err := savedcache.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := savedcache.Open(path)
	if err != nil {
		return nil, err
	}
	return savedcache.NewSyncer(client, store, s.UserID, cliLogger()), nil
}

// loadSaved fetches the saved list for star markers. Failures only drop
// the markers.
func loadSaved(ctx context.Context, client *api.Client) []string {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	saved, err := client.SavedSkills(ctx)
	if err != nil {
		cliLogger().Debug("saved skills unavailable")
		return nil
	}
	return saved
}
