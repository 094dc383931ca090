package cli

import (
	"github.com/spf13/cobra"

	"github.com/edupi-school/edupi-client/internal/api"
	"github.com/edupi-school/edupi-client/internal/session"
	"github.com/edupi-school/edupi-client/pkg/model"
)

func newRegisterCmd() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a student account",
		Long:  "Register a new student account and log in with it immediately.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if req.StudentName == "" {
				if req.StudentName, err = prompt("Full name: "); err != nil {
					return err
				}
			}
			if req.Email == "" {
				if req.Email, err = prompt("Email: "); err != nil {
					return err
				}
			}
			if req.Password == "" {
				if req.Password, err = prompt("Password: "); err != nil {
					return err
				}
			}

			token, actor, err := client.StudentRegister(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := persistLogin(session.KeyStudentToken, session.KeyStudentData, token, actor); err != nil {
				return err
			}
			sessions.Login(actor, model.KindStudent)
			printf("Welcome, %s! You are now logged in.\n", actor.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.StudentName, "name", "", "Full name (prompted if omitted)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (prompted if omitted)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (prompted if omitted)")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.Address, "address", "", "Postal address")
	cmd.Flags().StringVar(&req.Education, "education", "", "Education background")
	return cmd
}
