package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/civicpulse/complaint-service/internal/api/dto"
	"github.com/civicpulse/complaint-service/internal/app"
	"github.com/civicpulse/complaint-service/internal/config"
	"github.com/civicpulse/complaint-service/internal/domain"
	"github.com/civicpulse/complaint-service/internal/observability"
	"github.com/civicpulse/complaint-service/internal/persistence"
)

var rootCmd = &cobra.Command{
	Use:   "civicctl",
	Short: "Operator CLI for the civic complaint service",
	Long: `civicctl talks directly to the complaint database configured through the same
environment as the API server (POSTGRES_DSN, LOG_LEVEL, ...). Commands run as a
built-in operator with admin rights.`,
	SilenceUsage: true,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CIVICCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().String("operator-id", "civicctl-operator", "principal id used for admin checks")
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("operator-id", rootCmd.PersistentFlags().Lookup("operator-id"))
}

func registerCommands() {
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(complaintsCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(usersCmd())
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadEnv()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			pg, err := persistence.NewPostgres(cmd.Context(), cfg.Postgres, logger)
			if err != nil {
				return err
			}
			defer pg.Close()
			if !pg.Enabled() {
				return fmt.Errorf("POSTGRES_DSN is required for migrate")
			}
			if err := persistence.RunMigrations(cmd.Context(), pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func complaintsCmd() *cobra.Command {
	grp := &cobra.Command{Use: "complaints", Short: "Inspect complaints"}
	grp.AddCommand(complaintsListCmd())
	return grp
}

func complaintsListCmd() *cobra.Command {
	var view, userID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List complaints in ranked order",
		Long: `Views:
  all       every complaint, most urgent first (default)
  mine      complaints filed by --user, newest first
  assigned  work queue of volunteer --user`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				var (
					complaints []domain.Complaint
					err        error
				)
				switch view {
				case "all":
					complaints, err = c.Query.ListAll(ctx, operator())
				case "mine":
					complaints, err = c.Query.ListOwn(ctx, &domain.Principal{UserID: userID, Role: domain.RoleCitizen})
				case "assigned":
					complaints, err = c.Query.ListAssigned(ctx, &domain.Principal{UserID: userID, Role: domain.RoleVolunteer})
				default:
					return fmt.Errorf("unknown view %q", view)
				}
				if err != nil {
					return err
				}
				items := dto.NewComplaintList(complaints)
				return render(cmd.OutOrStdout(), items, func(tw table.Writer) {
					tw.AppendHeader(table.Row{"ID", "Title", "Priority", "Status", "Assignee", "Created"})
					for _, item := range items {
						assignee := ""
						if item.AssignedVolunteerID != nil {
							assignee = *item.AssignedVolunteerID
						}
						tw.AppendRow(table.Row{item.ID, item.Title, item.Priority, item.Status, assignee, item.CreatedAt.Format("2006-01-02 15:04")})
					}
				})
			})
		},
	}
	cmd.Flags().StringVar(&view, "view", "all", "view: all, mine, assigned")
	cmd.Flags().StringVar(&userID, "user", "", "user id for the mine and assigned views")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show complaint counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				stats, err := c.Query.Stats(ctx, operator())
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), stats, func(tw table.Writer) {
					tw.AppendHeader(table.Row{"Total", "Pending", "In progress", "Resolved"})
					tw.AppendRow(table.Row{stats.Total, stats.Pending, stats.InProgress, stats.Resolved})
				})
			})
		},
	}
}

func usersCmd() *cobra.Command {
	grp := &cobra.Command{Use: "users", Short: "Manage user accounts"}
	grp.AddCommand(usersListCmd())
	grp.AddCommand(usersSetRoleCmd())
	return grp
}

func usersListCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				users, err := c.UserAdmin.ListUsers(ctx, operator(), role)
				if err != nil {
					return err
				}
				items := dto.NewUserList(users)
				return render(cmd.OutOrStdout(), items, userTable(items))
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "role filter (citizen, volunteer, admin)")
	return cmd
}

func usersSetRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-role <user-id> <role>",
		Short: "Change a user's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd.Context(), func(ctx context.Context, c *app.Container) error {
				user, err := c.UserAdmin.ChangeRole(ctx, operator(), args[0], args[1])
				if err != nil {
					return err
				}
				item := dto.NewUserResponse(user)
				return render(cmd.OutOrStdout(), item, userTable([]dto.UserResponse{item}))
			})
		},
	}
	return cmd
}

func userTable(items []dto.UserResponse) func(table.Writer) {
	return func(tw table.Writer) {
		tw.AppendHeader(table.Row{"ID", "Name", "Email", "Role"})
		for _, u := range items {
			tw.AppendRow(table.Row{u.ID, u.Name, u.Email, u.Role})
		}
	}
}

func operator() *domain.Principal {
	return &domain.Principal{UserID: viper.GetString("operator-id"), Role: domain.RoleAdmin}
}

func loadEnv() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func withContainer(ctx context.Context, fn func(context.Context, *app.Container) error) error {
	cfg, logger, err := loadEnv()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	if cfg.Postgres.DSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required")
	}
	c, err := app.New(ctx, cfg, logger, app.Options{SkipMigrations: true})
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func render(w io.Writer, v any, fill func(table.Writer)) error {
	switch viper.GetString("output") {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(v)
	case "table", "":
		tw := table.NewWriter()
		tw.SetOutputMirror(w)
		fill(tw)
		tw.Render()
		return nil
	default:
		return fmt.Errorf("unknown output format %q", viper.GetString("output"))
	}
}
