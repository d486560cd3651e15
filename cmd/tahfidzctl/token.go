package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/internal/service"
	"github.com/noah-isme/tahfidz-api/pkg/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Bearer tokens for local testing",
}

var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Sign an access token with JWT_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Env == config.EnvProduction {
			return fmt.Errorf("refusing to issue tokens in production")
		}
		userID, _ := cmd.Flags().GetString("user")
		rawRole, _ := cmd.Flags().GetString("role")
		name, _ := cmd.Flags().GetString("name")

		role := models.UserRole(strings.ToUpper(strings.TrimSpace(rawRole)))
		switch role {
		case models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher, models.RoleStudent:
		default:
			return fmt.Errorf("unsupported role %q", rawRole)
		}

		tokens := service.NewTokenService(service.TokenConfig{
			Secret: cfg.JWT.Secret,
			Issuer: cfg.JWT.Issuer,
			Expiry: cfg.JWT.Expiration,
		})
		token, err := tokens.Issue(userID, role, name)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenIssueCmd.Flags().String("user", "", "User ID placed in the token")
	tokenIssueCmd.Flags().String("role", "TEACHER", "SUPERADMIN, ADMIN, TEACHER or STUDENT")
	tokenIssueCmd.Flags().String("name", "", "Full name")
	_ = tokenIssueCmd.MarkFlagRequired("user")
	tokenCmd.AddCommand(tokenIssueCmd)
}
