package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/NutthakitPatike/Project-Fitness-app/internal/config"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/db"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/export"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/goals"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/users"
	"github.com/NutthakitPatike/Project-Fitness-app/internal/workouts"
	"github.com/NutthakitPatike/Project-Fitness-app/pkg"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	env        string
	configPath string
	envFile    string
	logLevel   string
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(o.env, o.configPath)
}

func (o *rootOptions) dbParams(cfg *config.Config) db.NewDBPoolParams {
	return db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("FITNESS_POSTGRES_PASSWORD"),
		DBName:     cfg.PostgresDBName,
		SSLMode:    cfg.PostgresSSLMode,
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "fitnessctl",
		Short:         "Admin tasks for the fitness backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load env file %s: %w", opts.envFile, err)
			}
			level, err := log.ParseLevel(opts.logLevel)
			if err != nil {
				return err
			}
			log.SetLevel(level)
			log.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", "development", "environment [prod | production | dev | development]")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.toml", "path for the TOML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "optional .env file with secrets")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level")

	cmd.AddCommand(newMigrateCommand(opts))
	cmd.AddCommand(newHashPasswordCommand())
	cmd.AddCommand(newExportCommand(opts))

	return cmd
}

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			return db.MigrateUp(opts.dbParams(cfg))
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if err := db.MigrateDown(opts.dbParams(cfg), steps); err != nil {
				return err
			}
			log.Infof("rolled back %d migration(s)", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash of a password, e.g. to reset a user's password by hand",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args[0]) < 8 {
				return errors.New("password must be at least 8 characters")
			}
			hash, err := pkg.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		email   string
		format  string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data of one user as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != export.FormatJSON && format != export.FormatCSV {
				return fmt.Errorf("invalid format %q: must be json or csv", format)
			}
			if strings.TrimSpace(email) == "" {
				return errors.New("--email is required")
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()

			dbPool, err := db.NewDBPool(ctx, opts.dbParams(cfg))
			if err != nil {
				return err
			}
			defer dbPool.Close()

			usersRepo := users.NewRepo(dbPool)
			user, err := usersRepo.GetByEmail(ctx, users.NormalizeEmail(email))
			if err != nil {
				return fmt.Errorf("find user %s: %w", email, err)
			}

			workoutsRepo := workouts.NewRepo(dbPool)
			goalsService := goals.NewService(goals.NewRepo(dbPool), workoutsRepo, time.Now)
			exporter := export.NewExporter(usersRepo, workoutsRepo, goalsService, time.Now)
			data, err := exporter.Collect(ctx, user.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer func() {
					if err := f.Close(); err != nil {
						log.Errorf("close %s: %s", outPath, err)
					}
				}()
				out = f
			}

			if err := writeExport(out, data, format, loc); err != nil {
				return err
			}
			log.Infof("exported %d workouts and %d goals of %s", data.TotalWorkouts, data.TotalGoals, email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the user to export")
	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "output format (json|csv)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}

func writeExport(w io.Writer, data *export.Data, format string, loc *time.Location) error {
	if format == export.FormatCSV {
		return export.WriteCSV(w, data.Workouts, loc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
