package cmd

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/nfrund/webauth/internal/app"
	"github.com/nfrund/webauth/internal/authflow"
	"github.com/nfrund/webauth/internal/config"
	"github.com/nfrund/webauth/internal/logging"
	"github.com/nfrund/webauth/internal/preflight"
	"github.com/nfrund/webauth/internal/pubsub"
	"github.com/nfrund/webauth/internal/server"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

var (
	demoUserID int64
	demoPhone  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web login server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := preflight.CheckRuntime(); err != nil {
			return err
		}

		cfg, err := config.New()
		if err != nil {
			return err
		}
		logging.New(cfg.GetLogFormat(), cfg.GetLogLevel())
		if cfg.UsesDefaultSessionSecret() {
			slog.Warn("WEB_AUTH_SESSION_SECRET is not set, using the built-in default. Set it before exposing the server")
		}

		ctx, stop := server.ShutdownContext(cmd.Context())
		defer stop()

		injector := app.NewContainer(cfg)
		flows := do.MustInvoke[*authflow.Manager](injector)
		bus := do.MustInvoke[*pubsub.WatermillBridge](injector)
		defer bus.Close()

		go flows.RunJanitor(ctx, time.Minute)

		if demoUserID != 0 {
			if err := startDemo(ctx, cfg, flows, bus); err != nil {
				return err
			}
		}

		s, err := do.Invoke[*server.Server](injector)
		if err != nil {
			return err
		}
		return s.Start(ctx)
	},
}

// startDemo registers a login for a fake chat user and logs what a bot would
// see, so the page can be tried without the bot running.
func startDemo(ctx context.Context, cfg *config.Config, flows *authflow.Manager, bus pubsub.Subscriber) error {
	err := bus.Subscribe(ctx, authflow.TopicCredentialsSubmitted, func(ctx context.Context, msg pubsub.Message) error {
		var ev authflow.SubmittedEvent
		if err := pubsub.DecodeJSON(msg, &ev); err != nil {
			return err
		}
		_, status := flows.ConfirmWeb(ev.UserID)
		slog.Info("Demo login received credentials",
			"user_id", ev.UserID, "status", status, "has_password", ev.HasPassword)
		return nil
	})
	if err != nil {
		return err
	}

	token, err := flows.StartWeb(ctx, demoUserID, demoPhone)
	if err != nil {
		return err
	}
	slog.Info("Demo login ready", "user_id", strconv.FormatInt(demoUserID, 10), "url", cfg.LoginURL(token))
	return nil
}

func init() {
	serveCmd.Flags().Int64Var(&demoUserID, "demo-user", 0, "register a demo login for this chat user id and log its link")
	serveCmd.Flags().StringVar(&demoPhone, "demo-phone", "+10000000000", "phone number attached to the demo login")
	rootCmd.AddCommand(serveCmd)
}
