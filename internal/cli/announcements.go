package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/edupi-school/edupi-client/internal/history"
	"github.com/edupi-school/edupi-client/internal/notify"
	"github.com/edupi-school/edupi-client/pkg/model"
)

const historyFileName = "history.db"

func newAnnouncementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "announcements",
		Aliases: []string{"ann"},
		Short:   "School announcements",
	}
	cmd.AddCommand(
		newAnnouncementsListCmd(),
		newAnnouncementsHistoryCmd(),
		newAnnouncementsReadCmd(),
		newAnnouncementsPostCmd(),
	)
	return cmd
}

func newAnnouncementsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List announcements from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken()
			if err != nil {
				return err
			}
			announcements, err := client.ListAnnouncements(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("list announcements: %w", err)
			}
			if len(announcements) == 0 {
				printf("No announcements.\n")
				return nil
			}

			for _, a := range announcements {
				marker := " "
				if !a.Read {
					marker = "*"
				}
				printf("%s %s %s  [%s/%s]  %s — %s\n",
					marker, notify.TypeIcon(a.Type), a.Title, a.Type, a.Priority.Normalize(),
					a.CreatedBy, humanize.Time(a.CreatedAt))
			}
			return nil
		},
	}
}

func newAnnouncementsHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show locally received announcements",
		Long:  "List announcements that arrived over the realtime channel on this machine, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			if len(entries) == 0 {
				printf("No announcements received yet.\n")
				return nil
			}

			for _, e := range entries {
				marker := " "
				if !e.Read {
					marker = "*"
				}
				printf("%s %s %s  [%s]  %s — received %s\n",
					marker, notify.TypeIcon(e.Event.Type), e.Event.Title,
					e.Event.Priority.Normalize(), e.Event.CreatedBy, humanize.Time(e.ReceivedAt))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show (0 = all)")
	return cmd
}

func newAnnouncementsReadCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "read [announcement-id]",
		Short: "Mark announcements as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("provide an announcement ID or --all")
			}

			token, err := requireToken()
			if err != nil {
				return err
			}

			store, err := openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			if all {
				if err := client.MarkAllNotificationsRead(cmd.Context(), token); err != nil {
					return fmt.Errorf("mark all read: %w", err)
				}
				if err := store.MarkAllRead(cmd.Context()); err != nil {
					return err
				}
				printf("All announcements marked as read.\n")
				return nil
			}

			if err := client.MarkAnnouncementRead(cmd.Context(), args[0], token); err != nil {
				return fmt.Errorf("mark read: %w", err)
			}
			if err := store.MarkRead(cmd.Context(), args[0]); err != nil {
				return err
			}
			printf("Marked as read.\n")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Mark every announcement as read")
	return cmd
}

func newAnnouncementsPostCmd() *cobra.Command {
	var (
		title    string
		content  string
		typ      string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Broadcast an announcement (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions.Verify(cmd.Context())
			snap := sessions.Snapshot()
			if !snap.Authenticated || snap.Kind != model.KindAdmin {
				return fmt.Errorf("broadcasting requires an admin login")
			}

			a, err := client.CreateAnnouncement(cmd.Context(), bearerToken(), title, content,
				model.NotificationType(typ), model.Priority(priority))
			if err != nil {
				return fmt.Errorf("create announcement: %w", err)
			}
			printf("Announcement broadcast: %s\n", a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Announcement title (required)")
	cmd.Flags().StringVar(&content, "content", "", "Announcement body (required)")
	cmd.Flags().StringVar(&typ, "type", "general", "Type (urgent, academic, event, system, general)")
	cmd.Flags().StringVar(&priority, "priority", "normal", "Priority (urgent, high, normal, low)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")
	return cmd
}

func openHistory() (*history.Store, error) {
	return history.Open(filepath.Join(cfg.DataDir, historyFileName), logger)
}
