// Copyright 2026 The akumabot Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command akumabot
//
// This is a chat bot that answers commands addressed to it, such as
// "akumabot: calc 1 + 2" or "!help" when a trigger is configured.
//
// To run this you need to set the AKUMABOT_SLACK_TOKEN and AKUMABOT_NICKNAME
// environment variables, either directly or in a .env file.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"cloud.google.com/go/datastore"
	"cloud.google.com/go/trace"
	"github.com/gobridge/akumabot/audit"
	"github.com/gobridge/akumabot/bot"
	"github.com/gobridge/akumabot/calc"
	"github.com/gobridge/akumabot/config"
	"github.com/gobridge/akumabot/handlers"
	"github.com/gobridge/akumabot/slackrtm"
	"github.com/gobridge/akumabot/status"
	"github.com/nlopes/slack"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var botVersion = "HEAD"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "akumabot",
		Short:         "Run the chat bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}
			if cfg.Version == "" {
				cfg.Version = botVersion
			}

			logger := newLogger(cfg, cmd.ErrOrStderr())
			if err := run(cmd.Context(), cfg, logger); err != nil {
				logger.Error().Err(err).Msg("bot stopped")
				return err
			}
			return nil
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "calc <expression>",
			Short: "Evaluate an arithmetic expression",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				result, err := calc.Evaluate(strings.Join(args, " "))
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), handlers.FormatResult(result))
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), botVersion)
			},
		},
	)
	return root
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	if cfg.DevMode {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("version", cfg.Version).Logger()
}

func logfFor(logger zerolog.Logger, component string) bot.Logger {
	l := logger.With().Str("component", component).Logger()
	return func(message string, args ...interface{}) {
		l.Info().Msgf(strings.TrimSuffix(message, "\n"), args...)
	}
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		store       audit.Store = audit.NewMemoryStore()
		traceClient *trace.Client
	)
	if cfg.GCPProject != "" {
		dsClient, err := datastore.NewClient(ctx, cfg.GCPProject)
		if err != nil {
			return errors.Wrap(err, "creating datastore client")
		}
		store = audit.NewGCPStore(dsClient)

		traceClient, err = trace.NewClient(ctx, cfg.GCPProject)
		if err != nil {
			return errors.Wrap(err, "creating trace client")
		}
	}

	chat := slackrtm.New(slack.New(cfg.SlackToken), slackrtm.Options{
		DevMode: cfg.DevMode,
		Debug:   cfg.Debug,
	}, logfFor(logger, "slack"))

	commands := bot.NewRegistry()
	handlers.Register(commands, handlers.Deps{
		Logf:    logfFor(logger, "handlers"),
		Counter: store,
	})

	trigger := bot.NewTrigger(cfg.Trigger, cfg.Nickname)
	b := bot.NewBot(
		chat,
		commands,
		trigger,
		cfg.Admins(),
		logfFor(logger, "bot"),
		bot.WithRecorder(store),
		bot.WithTracing(traceClient),
		bot.WithRateLimit(cfg.RatePerMinute),
	)

	srv := status.NewServer(cfg.HTTPAddr, commands, status.Stats{Counter: store, Token: cfg.StatsToken}, cfg.Version, logfFor(logger, "status"))

	logger.Info().
		Str("nickname", cfg.Nickname).
		Str("trigger", trigger.String()).
		Str("addr", cfg.HTTPAddr).
		Msg("starting akumabot")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// the bot disconnecting on request ends the process
		defer cancel()
		return chat.Run(ctx, b)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return errors.Wrap(err, "serving status")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Cause(err) == context.Canceled {
		return nil
	}
	return err
}
