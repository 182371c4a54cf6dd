package migrate

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/duscraft/garry/internal/database"
	"github.com/duscraft/garry/internal/domain"
	"github.com/duscraft/garry/internal/tools/common"
	"github.com/duscraft/garry/internal/tools/ui"
)

type options struct {
	ci      bool
	timeout time.Duration
	envFile string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the warranty database schema",
	}
	root.PersistentFlags().BoolVar(&opts.ci, "ci", false, "machine-readable JSON output")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "operation timeout")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "env file to load before connecting")
	root.AddCommand(newUpCommand(opts), newStatusCommand(opts), newPlanCommand(opts))
	return root
}

func newUpCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending schema changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "migrate", "up", func(ctx context.Context) ([]string, error) {
				db, err := common.OpenDatabase()
				if err != nil {
					return nil, err
				}
				if err := database.Migrate(db); err != nil {
					return nil, err
				}
				return []string{"schema is up to date"}, nil
			})
			return err
		},
	}
}

func newStatusCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report which managed tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "migrate", "status", func(ctx context.Context) ([]string, error) {
				db, err := common.OpenDatabase()
				if err != nil {
					return nil, err
				}
				return tableStatus(db), nil
			})
			return err
		},
	}
}

func newPlanCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "List the models the schema is derived from",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := run(opts, "migrate", "plan", func(ctx context.Context) ([]string, error) {
				return []string{"warranties (domain.Warranty)"}, nil
			})
			return err
		},
	}
}

func tableStatus(db *gorm.DB) []string {
	models := []struct {
		name  string
		model interface{}
	}{
		{"warranties", &domain.Warranty{}},
	}
	details := make([]string, 0, len(models))
	for _, m := range models {
		state := "missing"
		if db.Migrator().HasTable(m.model) {
			state = "present"
		}
		details = append(details, fmt.Sprintf("%s: %s", m.name, state))
	}
	return details
}

func run(opts *options, tool, action string, fn ui.Action) ([]string, error) {
	if err := common.LoadEnvFile(opts.envFile); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	title := tool + " " + action
	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()
	if opts.ci {
		details, err := fn(ctx)
		common.PrintCIResult(err == nil, title, details, err)
		return details, err
	}
	return nil, ui.Run(title, fn)
}
