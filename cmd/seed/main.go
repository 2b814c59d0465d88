package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"userapi/internal/auth"
	"userapi/internal/config"
	"userapi/internal/db"
	"userapi/internal/logging"
	"userapi/internal/model"
	"userapi/internal/repository"
	"userapi/internal/validation"
)

var (
	sourceFile string
	sourceURL  string
	fakeCount  int

	rootCmd = &cobra.Command{
		Use:          "seed",
		Short:        "Seed users through the repository rule set",
		SilenceUsage: true,
		RunE:         run,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&sourceFile, "file", "f", "", "JSON file with an array of users")
	rootCmd.Flags().StringVarP(&sourceURL, "url", "u", "", "URL serving a JSON array of users")
	rootCmd.Flags().IntVarP(&fakeCount, "fake", "n", 0, "number of generated users to add")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if sourceFile == "" && sourceURL == "" && fakeCount <= 0 {
		return fmt.Errorf("one of --file, --url or --fake is required")
	}

	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	log.Info("database ready", zap.String("driver", cfg.DBDriver))

	ctx := cmd.Context()
	var users []model.CreateUserInput
	switch {
	case sourceFile != "":
		users, err = loadFile(sourceFile)
	case sourceURL != "":
		log.Info("fetching users", zap.String("url", sourceURL))
		users, err = fetchURL(ctx, sourceURL)
	}
	if err != nil {
		return err
	}
	if fakeCount > 0 {
		users = append(users, fakeUsers(fakeCount)...)
	}

	repo := repository.NewUserRepository(gormDB, auth.NewBcryptHasher(cfg.BcryptCost), validation.New())

	created, rejected, err := seedUsers(ctx, repository.NewRecorder(repo), users, log)
	if err != nil {
		return err
	}

	log.Info("seed completed",
		zap.Int("created", created),
		zap.Int("rejected", rejected),
		zap.Int("total", len(users)))
	return nil
}
