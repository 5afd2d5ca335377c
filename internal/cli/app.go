// filepath: internal/cli/app.go
package cli

import (
	"fmt"

	"archivehub/internal/audit"
	"archivehub/internal/config"
	"archivehub/internal/repository"
	"archivehub/internal/services"
	"archivehub/internal/store"
)

// app bundles the components the commands work with.
type app struct {
	cfg     *config.Config
	engine  *store.Engine
	repo    *repository.Repository
	userSvc services.UserService
}

func newApp(options *GlobalOptions) (*app, error) {
	cfg := options.Conf
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	rotator := store.NewRotator(cfg.Store.BackupDir, cfg.Store.BackupRetention)
	engine := store.NewEngine(cfg.Store.Path, rotator)
	repo := repository.New(engine)
	auditor := audit.NewLoggerAuditor(cfg.Logging.AuditEnabled)

	return &app{
		cfg:     cfg,
		engine:  engine,
		repo:    repo,
		userSvc: services.NewUserService(repo, auditor),
	}, nil
}
