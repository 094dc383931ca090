package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edupi-school/edupi-client/internal/session"
	"github.com/edupi-school/edupi-client/pkg/model"
)

func newLoginCmd() *cobra.Command {
	var (
		admin    bool
		email    string
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with Edupi School",
		Long:  "Log in as a student (default) or, with --admin, as an administrator. Credentials are cached locally for later commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if admin {
				if username == "" {
					if username, err = prompt("Username: "); err != nil {
						return err
					}
				}
			} else {
				if email == "" {
					if email, err = prompt("Email: "); err != nil {
						return err
					}
				}
			}
			if password == "" {
				if password, err = prompt("Password: "); err != nil {
					return err
				}
			}

			if admin {
				token, actor, err := client.AdminLogin(cmd.Context(), username, password)
				if err != nil {
					return err
				}
				if err := persistLogin(session.KeyAdminToken, session.KeyAdminData, token, actor); err != nil {
					return err
				}
				sessions.Login(actor, model.KindAdmin)
				printf("Logged in as admin %s\n", actor.DisplayName())
				return nil
			}

			token, actor, err := client.StudentLogin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := persistLogin(session.KeyStudentToken, session.KeyStudentData, token, actor); err != nil {
				return err
			}
			sessions.Login(actor, model.KindStudent)
			printf("Logged in as %s\n", actor.DisplayName())
			return nil
		},
	}

	cmd.Flags().BoolVar(&admin, "admin", false, "Log in as an administrator")
	cmd.Flags().StringVar(&email, "email", "", "Student email (prompted if omitted)")
	cmd.Flags().StringVar(&username, "username", "", "Admin username (prompted if omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted if omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear cached credentials",
		Long:  "Remove all cached admin and student credentials. Safe to run when already logged out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions.Logout()
			printf("Logged out\n")
			return nil
		},
	}
}

// persistLogin stores the token and actor snapshot in one keystore write.
func persistLogin(tokenKey, dataKey, token string, actor *model.Actor) error {
	snapshot, err := actor.Snapshot()
	if err != nil {
		return fmt.Errorf("encode actor snapshot: %w", err)
	}
	if err := keystore.SetAll(map[string]string{
		tokenKey: token,
		dataKey:  snapshot,
	}); err != nil {
		return fmt.Errorf("persist credentials: %w", err)
	}
	return nil
}

func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", fmt.Errorf("value cannot be empty")
	}
	return value, nil
}
