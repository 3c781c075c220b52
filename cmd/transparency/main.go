package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/altibbe/transparency/internal/client"
	"github.com/altibbe/transparency/internal/config"
	"github.com/altibbe/transparency/internal/events"
	"github.com/altibbe/transparency/internal/session"
	"github.com/altibbe/transparency/internal/store"
)

// app bundles the shared dependencies built once per invocation.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	bus     *events.Bus
	store   *store.SQLiteStore
	session *session.Store
	api     *client.Client
	notify  *toastNotifier
}

var (
	verbose bool
	theApp  = &app{}
)

var rootCmd = &cobra.Command{
	Use:   "transparency",
	Short: "Product transparency reporting client",
	Long: `transparency is the command-line client for the Altibbe product
transparency service: submit product data, answer the AI-generated
follow-up questions, browse scored reports, and export them as PDF.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logCfg := zap.NewProductionConfig()
		if verbose {
			logCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err := logCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		theApp.log = logger

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		theApp.cfg = cfg

		dbPath, err := cfg.StatePath("state.db")
		if err != nil {
			return err
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open state store: %w", err)
		}
		theApp.store = st

		theApp.bus = events.NewBus()
		sess, err := session.NewStore(st, theApp.bus)
		if err != nil {
			return err
		}
		theApp.session = sess
		theApp.api = client.New(cfg.APIBaseURL, sess, logger, cfg.RequestTimeout)
		theApp.notify = newToastNotifier(cmd.OutOrStdout())

		// Keep the dashboard cache fresh whenever a submission completes.
		theApp.bus.Subscribe(cacheReportCreated(theApp))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if theApp.store != nil {
			_ = theApp.store.Close()
		}
		if theApp.log != nil {
			_ = theApp.log.Sync()
		}
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		if client.IsUnauthorized(err) {
			fmt.Fprintln(os.Stderr, "Session expired. Run `transparency login` and try again.")
		} else {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
