package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ai-workspace/internal/config"
	"github.com/jonathan/ai-workspace/internal/server"
)

var tokenUser string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a workspace token for local development",
	Long:  `Generate a signed bearer token for the given user id, using JWT_SECRET from the environment. Intended for curl sessions against a local server.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "User UUID to embed in the token (defaults to a random one)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(_ *cobra.Command, _ []string) error {
	userID := uuid.New()
	if tokenUser != "" {
		parsed, err := uuid.Parse(tokenUser)
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}
		userID = parsed
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(userID)
	if err != nil {
		return err
	}

	fmt.Printf("user: %s\ntoken: %s\n", userID, token)
	return nil
}
