package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/stealthlearn/internal/engine"
	"github.com/verte-zerg/stealthlearn/internal/logger"
	"github.com/verte-zerg/stealthlearn/internal/model"
	"github.com/verte-zerg/stealthlearn/internal/stats"
)

const defaultTermWidth = 80

var (
	reportSubject string

	sessionsSubject  string
	sessionsGame     string
	sessionsLast     int
	sessionsAllUsers bool
)

// withServices loads config, puts a stderr logger into the command context,
// opens storage and runs fn.
func withServices(cmd *cobra.Command, fn func(cfg model.Config, svc *services, log *logger.Logger) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := logger.NewContext(commandContext(cmd), logger.New(logger.WithLevel(logger.ParseLevel(cfg.LogLevel))))
	cmd.SetContext(ctx)
	svc, err := openServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := svc.Close(); cerr != nil {
			logErrf("failed to close storage: %v\n", cerr)
		}
	}()
	return fn(cfg, svc, logger.FromContext(ctx))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func parseSubjectFlag(value string) (model.Subject, error) {
	subject, ok := model.ParseSubject(value)
	if !ok {
		return "", fmt.Errorf("--subject must be one of math, english, science, all")
	}
	return subject, nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show the progress report of this device's player",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportSubject, "subject", "", "subject filter")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	subject, err := parseSubjectFlag(reportSubject)
	if err != nil {
		return err
	}
	return withServices(cmd, func(cfg model.Config, svc *services, log *logger.Logger) error {
		out := cmd.OutOrStdout()
		userID := engine.LoadOrCreateUserID(svc.userSlot, log)
		sessions := svc.ledger.Sessions(model.SessionFilter{UserID: userID, Subject: subject})
		if _, err := fmt.Fprintf(out, "Report for %s (%s)\n\n", userID, subject.Title()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		report, ok := stats.BuildReport(sessions)
		if !ok {
			if _, err := fmt.Fprintln(out, "No sessions yet."); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		}
		if err := stats.RenderSummary(out, report); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderGameAverages(out, stats.GameAverages(sessions, ""), barWidth()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := stats.RenderTrend(out, sessions, cfg.Window); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	})
}

// barWidth sizes report bars to the terminal.
func barWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = defaultTermWidth
	}
	w := width - 40
	if w < 5 {
		w = 5
	}
	if w > stats.DefaultBarWidth {
		w = stats.DefaultBarWidth
	}
	return w
}

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List recorded sessions",
		Args:  cobra.NoArgs,
		RunE:  runSessionsCmd,
	}
	cmd.Flags().StringVar(&sessionsSubject, "subject", "", "subject filter")
	cmd.Flags().StringVar(&sessionsGame, "game", "", "game id filter")
	cmd.Flags().IntVar(&sessionsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().BoolVar(&sessionsAllUsers, "all-users", false, "include sessions of every player")
	return cmd
}

func runSessionsCmd(cmd *cobra.Command, _ []string) error {
	subject, err := parseSubjectFlag(sessionsSubject)
	if err != nil {
		return err
	}
	if sessionsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if sessionsGame != "" {
		if _, ok := model.LookupGame(sessionsGame); !ok {
			return fmt.Errorf("unknown game %q (run: stealthlearn games)", sessionsGame)
		}
	}
	return withServices(cmd, func(_ model.Config, svc *services, log *logger.Logger) error {
		filter := model.SessionFilter{Subject: subject}
		if !sessionsAllUsers {
			filter.UserID = engine.LoadOrCreateUserID(svc.userSlot, log)
		}
		sessions := filterGame(svc.ledger.Sessions(filter), sessionsGame)
		if sessionsLast > 0 && len(sessions) > sessionsLast {
			sessions = sessions[len(sessions)-sessionsLast:]
		}
		if err := stats.RenderSessionLog(cmd.OutOrStdout(), sessions); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	})
}

func filterGame(sessions []model.SessionRecord, gameID string) []model.SessionRecord {
	if gameID == "" {
		return sessions
	}
	out := make([]model.SessionRecord, 0, len(sessions))
	for _, s := range sessions {
		if s.GameID == gameID {
			out = append(out, s)
		}
	}
	return out
}

func newGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games",
		Short: "List available games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := stats.RenderCatalog(cmd.OutOrStdout(), model.Catalog()); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print this device's player id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, func(_ model.Config, svc *services, log *logger.Logger) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), engine.LoadOrCreateUserID(svc.userSlot, log))
				return err
			})
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write every stored session as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, func(_ model.Config, svc *services, _ *logger.Logger) error {
				return exportTo(cmd.OutOrStdout(), svc)
			})
		},
	}
}

func exportTo(w io.Writer, svc *services) error {
	if err := svc.ledger.Export(w); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	return nil
}
