package cli

import (
	"github.com/spf13/cobra"
)

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Long:  "Restore the session from cached credentials and report who is logged in. Admin credentials are re-verified against the backend; a failed verification logs the session out.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions.Verify(cmd.Context())
			snap := sessions.Snapshot()

			if !snap.Authenticated {
				printf("Not logged in\n")
				return nil
			}
			printf("Logged in as %s (%s)\n", snap.Actor.DisplayName(), snap.Kind)
			if snap.Actor.Email != "" {
				printf("  email: %s\n", snap.Actor.Email)
			}
			if id := snap.Actor.ID(); id != "" {
				printf("  id:    %s\n", id)
			}
			return nil
		},
	}
}
