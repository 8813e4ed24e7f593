package main

import (
	"fmt"

	"github.com/kydzoster/e-learning-dj-linux/internal/auth/service"
	"github.com/kydzoster/e-learning-dj-linux/internal/config"
	"github.com/kydzoster/e-learning-dj-linux/internal/models"
	"github.com/spf13/cobra"
)

var (
	tokenUserID int
	tokenRole   int
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an access token for a development user",
	Long: `Print a signed access token using JWT_SECRET.

Roles: 1 student, 2 instructor, 3 admin.`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().IntVar(&tokenUserID, "user", 1, "user ID carried by the token")
	tokenCmd.Flags().IntVar(&tokenRole, "role", models.RoleInstructor, "role carried by the token")
}

func runToken(cmd *cobra.Command, args []string) error {
	if tokenUserID <= 0 {
		return fmt.Errorf("user ID must be positive")
	}
	if tokenRole < models.RoleStudent || tokenRole > models.RoleAdmin {
		return fmt.Errorf("role must be between %d and %d", models.RoleStudent, models.RoleAdmin)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	token, err := service.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry).GenerateAccessToken(tokenUserID, tokenRole)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
