package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openbooks-app/openbooks/internal/core/domain"
	portssvc "github.com/openbooks-app/openbooks/internal/core/ports/services"
	"github.com/openbooks-app/openbooks/internal/core/services"
	"github.com/openbooks-app/openbooks/internal/dto"
	"github.com/openbooks-app/openbooks/internal/platform/config"
	"github.com/openbooks-app/openbooks/internal/repositories/database/pgsql"
	"github.com/openbooks-app/openbooks/pkg/database"
)

// obctl is the operator CLI. It talks to the database directly, bypassing the
// HTTP authorization gate; access control is whoever holds the database URL.
func main() {
	rootCmd := &cobra.Command{
		Use:   "obctl",
		Short: "OpenBooks operator tooling",
	}

	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newSeedUserCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliServices holds the service subset the CLI commands need.
type cliServices struct {
	Audit portssvc.AuditSvcFacade
	User  portssvc.UserSvcFacade
}

func openServices(ctx context.Context) (*cliServices, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
	if err != nil {
		return nil, nil, err
	}

	repos := pgsql.NewRepositoryProvider(pool)
	svcs := &cliServices{
		Audit: services.NewAuditService(repos.LedgerRepo, repos.OrganizationRepo),
		User:  services.NewUserService(repos.UserRepo),
	}
	cleanup := func() { database.ClosePgxPool(pool) }
	return svcs, cleanup, nil
}

func newAuditCmd() *cobra.Command {
	var organizationID string
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Run the ledger integrity sweep for one organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svcs, cleanup, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			// No authorizer is attached here, so the service default-allows
			// the operator identity.
			report, err := svcs.Audit.RunIntegrityAudit(ctx, organizationID, domain.Identity{UserID: "obctl"}, limit)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			if !report.OK {
				// Nonzero exit so cron wrappers can alert on drift.
				os.Exit(2)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&organizationID, "org", "", "organization ID to audit")
	cmd.Flags().IntVar(&limit, "limit", 0, "max issues per category (0 = server default)")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}

func newSeedUserCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Create a user with a generated password",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			svcs, cleanup, err := openServices(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			password, err := generatePassword(16)
			if err != nil {
				return err
			}

			user, err := svcs.User.CreateUser(ctx, dto.CreateUserRequest{
				Name:     name,
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Printf("created user %s\n", user.UserID)
			fmt.Printf("email:    %s\n", user.Email)
			fmt.Printf("password: %s\n", password)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// generatePassword returns a hex-encoded secret of nBytes random bytes.
func generatePassword(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
