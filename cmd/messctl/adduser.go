package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
	"github.com/hostelmess/mess-service/internal/core/services"
)

// addAdmin creates the admin or, when the email is taken, resets its name and password.
func addAdmin(ctx context.Context, admins ports.AdminRepository, name, email, password string) (*domain.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, errors.New("email and password are required")
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	admin, err := admins.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if name != "" {
			admin.Name = name
		}
		admin.Password = hash
		admin.UpdatedAt = now
		return admin, admins.Update(ctx, admin)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, err
	}

	if name == "" {
		name = "Admin"
	}
	admin = &domain.Admin{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  hash,
		Role:      string(domain.RoleAdmin),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return admin, admins.Create(ctx, admin)
}

func newAddAdminCmd(c *cli) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "add-admin",
		Short: "Create or update an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			admin, err := addAdmin(cmd.Context(), c.store.Admins, name, email, password)
			if err != nil {
				return err
			}
			c.log.Info("admin saved", zap.String("admin_id", admin.ID), zap.String("email", admin.Email))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
