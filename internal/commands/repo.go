package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/app"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/diag"
)

// envFile holds BOOKS_* overrides, typically secrets such as a postgres dsn.
const envFile = ".env"

func addRepoFlag(cmd *cobra.Command, repoDir *string) {
	cmd.Flags().StringVar(repoDir, "repo", ".", "repository directory")
}

// openRepo loads the repo's config and logger. tweak, when set, may adjust
// the config before services are wired.
func openRepo(cmd *cobra.Command, repoDir string, tweak func(*config.Config)) (*app.Services, app.Repo, logrus.FieldLogger, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, app.Repo{}, nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, app.Repo{}, nil, err
	}
	if err := config.ApplyEnv(cfg, filepath.Join(root, envFile)); err != nil {
		return nil, app.Repo{}, nil, err
	}
	if tweak != nil {
		tweak(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, app.Repo{}, nil, fmt.Errorf("invalid %s: %w", config.FileName, err)
	}

	logger, err := diag.New(diag.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, app.Repo{}, nil, err
	}
	log := logger.WithField("repo", root)

	repo := app.Repo{Root: root, Config: cfg}
	return app.Bootstrap(repo, log), repo, log, nil
}
