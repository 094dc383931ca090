// Package cli implements the edupi command-line client.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/edupi-school/edupi-client/internal/api"
	"github.com/edupi-school/edupi-client/internal/config"
	"github.com/edupi-school/edupi-client/internal/logging"
	"github.com/edupi-school/edupi-client/internal/session"
)

var (
	flagAPIURL    string
	flagDataDir   string
	flagDebug     bool
	flagLogLevel  string
	flagLogFormat string

	cfg      config.Config
	logger   *slog.Logger
	client   *api.Client
	keystore *session.Keystore
	sessions *session.Store
)

// NewRootCmd creates the root cobra command for the edupi CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "edupi",
		Short: "Edupi School — e-learning client",
		Long:  "Edupi browses courses, manages enrollment, and receives live school announcements from the Edupi School platform.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if flagAPIURL != "" {
				cfg.APIURL = flagAPIURL
				cfg.SocketURL = flagAPIURL
			}
			if flagDataDir != "" {
				cfg.DataDir = flagDataDir
			}
			if flagLogLevel != "" {
				cfg.LogLevel = flagLogLevel
			}
			if flagDebug {
				cfg.LogLevel = "debug"
			}
			if flagLogFormat != "" {
				cfg.LogFormat = flagLogFormat
			}

			logger = logging.NewLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			client = api.NewClient(cfg.APIURL, logger)
			keystore = session.NewKeystore(cfg.DataDir)
			sessions = session.NewStore(keystore, client, logger)
			return nil
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Backend API URL (or EDUPI_API_URL env)")
	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory (default ~/.edupi; use EDUPI_DATA_DIR to also relocate config.yaml)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format (text, json)")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newRegisterCmd(),
		newWhoamiCmd(),
		newCoursesCmd(),
		newEnrollCmd(),
		newQuizCmd(),
		newForumsCmd(),
		newAnnouncementsCmd(),
		newListenCmd(),
	)

	return root
}

// bearerToken returns the credential to send with API calls, preferring
// the admin token when both identities are cached.
func bearerToken() string {
	if t := keystore.Get(session.KeyAdminToken); t != "" {
		return t
	}
	return keystore.Get(session.KeyStudentToken)
}

// requireToken fails with a login hint when no credential is cached.
func requireToken() (string, error) {
	token := bearerToken()
	if token == "" {
		return "", fmt.Errorf("not logged in (run 'edupi login' first)")
	}
	return token, nil
}

func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}
