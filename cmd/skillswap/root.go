package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillswap/skillswap-hub/internal/client/api"
	"github.com/skillswap/skillswap-hub/internal/client/session"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

const requestTimeout = 15 * time.Second

var (
	sessionPath string
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:          "skillswap",
	Short:        "Browse and bookmark skills on a SkillSwap Hub server",
	SilenceUsage: true,
	Long: `skillswap talks to a SkillSwap Hub server: browse the skill board,
list categories and keep a personal list of saved skills.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "session file (default is the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log requests and retries to stderr")
}

// Execute is called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveSessionPath() (string, error) {
	if sessionPath != "" {
		return sessionPath, nil
	}
	return session.DefaultPath()
}

// signedInClient loads the session and returns a client carrying its token.
func signedInClient() (*api.Client, *session.Session, error) {
	path, err := resolveSessionPath()
	if err != nil {
		return nil, nil, err
	}
	s, err := session.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return api.New(s.Server, api.WithToken(s.Token)), s, nil
}

func cliLogger() *logger.Logger {
	if !verbose {
		return logger.Nop()
	}
	return logger.New(logger.Options{Output: os.Stderr, Level: logger.LevelDebug, Format: "text"})
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), requestTimeout)
}
