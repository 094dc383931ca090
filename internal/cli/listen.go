package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edupi-school/edupi-client/internal/notify"
	"github.com/edupi-school/edupi-client/internal/realtime"
)

func newListenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Receive live announcements",
		Long: "Open the realtime channel and show announcements as they arrive. " +
			"Requires a student login: admins and anonymous users have no channel. " +
			"Press Enter to dismiss the current announcement, 'o' to open its link, Ctrl-C to quit.",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions.Verify(cmd.Context())
			if !sessions.Snapshot().IsStudent() {
				return fmt.Errorf("listening requires a student login")
			}

			store, err := openHistory()
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			popup := notify.NewPopup(os.Stdout, logger)
			popup.Navigate = func(url string) {
				printf("Open in browser: %s%s\n", client.BaseURL(), url)
			}
			defer popup.Stop()

			var notifier notify.Notifier = notify.NoopNotifier{}
			if cfg.DesktopNotifications {
				notifier = notify.NewDesktopNotifier(cfg.DataDir, true, cfg.NotificationSound, logger)
			}

			dial := func(ctx context.Context, setup func(realtime.Transport)) (realtime.Transport, error) {
				return realtime.Dial(ctx, cfg.SocketURL, logger, setup)
			}

			// NewChannel subscribes to the session store and connects
			// immediately, since the session is already a student.
			channel := realtime.NewChannel(sessions, store, popup, notifier, dial, logger)
			defer channel.Close()

			if !channel.Connected() {
				return fmt.Errorf("could not reach the announcement server")
			}
			printf("Listening for announcements (Ctrl-C to quit)...\n")

			go readKeys(popup)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig

			printf("\nStopped listening.\n")
			return nil
		},
	}
}

// readKeys maps stdin lines onto popup interactions: a blank line
// dismisses, "o" opens the announcement's link.
func readKeys(popup *notify.Popup) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "":
			popup.Dismiss()
		case "o":
			popup.Act()
		}
	}
}
