package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/kydzoster/e-learning-dj-linux/internal/cache"
	"github.com/kydzoster/e-learning-dj-linux/internal/config"
	"github.com/kydzoster/e-learning-dj-linux/internal/fixtures"
	"github.com/kydzoster/e-learning-dj-linux/internal/logger"
	"github.com/kydzoster/e-learning-dj-linux/internal/metrics"
	"github.com/kydzoster/e-learning-dj-linux/internal/repositories"
	"github.com/kydzoster/e-learning-dj-linux/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var subjectsFile string

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Create the subjects listed in a fixtures file",
	Long: `Create every subject of a YAML fixtures file.

Subjects whose slug already exists are left untouched, so the command
can be run repeatedly. Cached subject listings are invalidated.`,
	RunE: runSubjects,
}

func init() {
	rootCmd.AddCommand(subjectsCmd)

	subjectsCmd.Flags().StringVarP(&subjectsFile, "file", "f", "fixtures/subjects.yaml", "fixtures file path")
}

func runSubjects(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	file, err := fixtures.Load(subjectsFile)
	if err != nil {
		return err
	}

	db, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// An unreachable Redis only makes invalidation log a warning
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	catalogCache := cache.NewCatalog(cache.New(rdb, cfg.Cache.SubjectsTTL, m, logger.Logger))
	subjectService := services.NewSubjectService(repositories.NewSubjectRepository(db), catalogCache, logger.Logger)

	result, err := fixtures.SeedSubjects(cmd.Context(), subjectService, file, logger.Logger)
	if err != nil {
		return err
	}

	logger.Logger.Info("Subjects seeded", zap.Int("created", result.Created), zap.Int("existed", result.Existed))
	fmt.Fprintf(cmd.OutOrStdout(), "subjects: %d created, %d already present\n", result.Created, result.Existed)
	return nil
}
