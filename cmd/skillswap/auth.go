package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-hub/internal/client/api"
	"github.com/skillswap/skillswap-hub/internal/client/session"
)

var (
	signinServer   string
	signinEmail    string
	signinPassword string
)

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in and remember the session",
	RunE:  runSignin,
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveSessionPath()
		if err != nil {
			return err
		}
		if err := session.Clear(path); err != nil {
			return err
		}
		fmt.Println("Signed out.")
		return nil
	},
}

func init() {
	signinCmd.Flags().StringVar(&signinServer, "server", session.DefaultServer, "API base URL")
	signinCmd.Flags().StringVar(&signinEmail, "email", "", "account email or mobile number")
	signinCmd.Flags().StringVar(&signinPassword, "password", "", "account password")
	_ = signinCmd.MarkFlagRequired("email")
	_ = signinCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(signinCmd, signoutCmd)
}

func runSignin(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	client := api.New(signinServer)
	user, err := client.SignIn(ctx, signinEmail, signinPassword)
	if err != nil {
		return fmt.Errorf("sign in failed: %w", err)
	}

	path, err := resolveSessionPath()
	if err != nil {
		return err
	}
	if err := session.Save(path, &session.Session{
		Server: signinServer,
		Token:  client.Token(),
		UserID: user.ID,
		Name:   user.Name,
	}); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s.\n", user.Name)
	return nil
}
