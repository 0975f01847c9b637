package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/ports"
	"github.com/hostelmess/mess-service/internal/core/services"
)

func resetAdminPassword(ctx context.Context, admins ports.AdminRepository, email, password string) error {
	admin, err := admins.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	admin.Password = hash
	admin.UpdatedAt = time.Now()
	return admins.Update(ctx, admin)
}

func resetStudentPassword(ctx context.Context, students ports.StudentRepository, rollNo, password string) error {
	student, err := students.FindByRollNo(ctx, strings.TrimSpace(rollNo))
	if err != nil {
		return err
	}
	hash, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	student.Password = hash
	student.UpdatedAt = time.Now()
	return students.Update(ctx, student)
}

func newResetPasswordCmd(c *cli) *cobra.Command {
	var email, rollNo, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password for an admin (--email) or a student (--roll-no)",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case email != "" && rollNo != "":
				return errors.New("use either --email or --roll-no")
			case email != "":
				if err := resetAdminPassword(cmd.Context(), c.store.Admins, email, password); err != nil {
					return err
				}
				c.log.Info("admin password reset", zap.String("email", email))
			case rollNo != "":
				if err := resetStudentPassword(cmd.Context(), c.store.Students, rollNo, password); err != nil {
					return err
				}
				c.log.Info("student password reset", zap.String("roll_no", rollNo))
			default:
				return errors.New("one of --email or --roll-no is required")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&rollNo, "roll-no", "", "student roll number")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
