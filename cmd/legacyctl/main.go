package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oksasatya/digital-legacy/config"
	"github.com/oksasatya/digital-legacy/internal/application"
	"github.com/oksasatya/digital-legacy/internal/bootstrap"
	"github.com/oksasatya/digital-legacy/internal/domain/entity"
	"github.com/oksasatya/digital-legacy/internal/domain/repository"
	"github.com/oksasatya/digital-legacy/pkg/helpers"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	store  repository.UnitOfWork
	close  func()
}

// newApp loads the environment and opens the store. The caller must defer a.close().
func newApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-ctl", cfg.Env, cfg.LogLevel)
	logger.SetOutput(os.Stderr)

	store, closeFn, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return &app{cfg: cfg, logger: logger, store: store, close: closeFn}, nil
}

var rootCmd = &cobra.Command{
	Use:   "legacyctl",
	Short: "Operate digital legacy plans from the command line",
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		fmt.Println("Migrations applied")
		return nil
	},
}

var executorCmd = &cobra.Command{
	Use:   "executor",
	Short: "Execute a deceased user's plan on behalf of a trusted contact",
	RunE: func(cmd *cobra.Command, args []string) error {
		contact, _ := cmd.Flags().GetString("contact")
		deceased, _ := cmd.Flags().GetString("deceased")
		message, _ := cmd.Flags().GetString("message")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		plan := application.NewPlanService(a.store, bootstrap.NewLocker(a.cfg, nil), application.RealClock{}, a.logger)
		plan.LockTimeout = a.cfg.ExecutionLockTimeout
		executor := application.NewExecutorService(a.store, plan, a.logger)

		res, err := executor.AuthorizeAndExecute(cmd.Context(), application.ExecutorRequest{
			ContactEmail:  contact,
			DeceasedEmail: deceased,
			Message:       message,
		})
		if err != nil {
			return describe(err)
		}

		fmt.Printf("Plan of %s executed by %s\n\n", res.Deceased.Email, res.Contact.Email)
		for _, acc := range res.Accounts {
			fmt.Printf("  %-24s %-12s %s\n", acc.ServiceName, acc.Action, acc.Status)
		}
		fmt.Println()
		printLogs(res.Logs)
		return nil
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show a user's execution log, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		r := a.store.Repos()
		u, err := r.Users.GetByEmail(cmd.Context(), strings.TrimSpace(email))
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("no user with email %s", email)
		}
		if err != nil {
			return err
		}
		logs, err := r.Logs.ListByUser(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		if limit > 0 && len(logs) > limit {
			logs = logs[:limit]
		}
		if len(logs) == 0 {
			fmt.Println("No executions recorded")
			return nil
		}
		printLogs(logs)
		return nil
	},
}

func printLogs(logs []entity.ExecutionLog) {
	for _, l := range logs {
		fmt.Printf("%s  %s\n", l.Timestamp.Local().Format(time.DateTime), l.ActionTaken)
	}
}

// describe turns executor rejections into messages fit for a terminal.
func describe(err error) error {
	switch {
	case errors.Is(err, application.ErrMissingInput):
		return errors.New("both --contact and --deceased are required")
	case errors.Is(err, application.ErrUnknownDeceasedUser):
		return errors.New("no user registered with that email")
	case errors.Is(err, application.ErrNotTrustedContact):
		return errors.New("that email is not a trusted contact of the user")
	default:
		return err
	}
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(migrateCmd)

	rootCmd.AddCommand(executorCmd)
	executorCmd.Flags().StringP("contact", "c", "", "Trusted contact email")
	executorCmd.Flags().StringP("deceased", "d", "", "Email of the deceased user")
	executorCmd.Flags().StringP("message", "m", "", "Optional message recorded with the request")

	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringP("email", "e", "", "User email")
	logsCmd.Flags().IntP("limit", "n", 50, "Maximum number of entries to show")
	_ = logsCmd.MarkFlagRequired("email")
}
