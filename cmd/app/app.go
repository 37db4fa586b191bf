package app

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/campushub/campus-events-api/internal/api"
	"github.com/campushub/campus-events-api/internal/config"
	"github.com/campushub/campus-events-api/internal/db"
	"github.com/campushub/campus-events-api/internal/logger"
	"github.com/campushub/campus-events-api/internal/notify"
	"github.com/campushub/campus-events-api/internal/repository"
	"github.com/campushub/campus-events-api/internal/repository/dao"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	store, err := openStore(conf.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	mailer := notify.NewWorker(notify.LogSender{}, conf.Notify.QueueSize)
	mailer.Start()
	defer mailer.Stop()

	s := api.NewServer(conf, store, mailer)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func openStore(conf *config.DatabaseConfig) (*repository.Store, error) {
	switch conf.Driver {
	case "postgres":
		dbURL := os.Getenv("DATABASE_URL")
		var postgresDB *gorm.DB
		var err error
		if dbURL != "" {
			postgresDB, err = db.OpenPostgresWithURL(dbURL)
		} else {
			postgresDB, err = db.OpenPostgres(conf)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres -> %w", err)
		}

		if err = dao.InitTables(postgresDB); err != nil {
			return nil, fmt.Errorf("dao.InitTables -> %w", err)
		}

		return repository.NewPostgresStore(postgresDB), nil
	case "memory":
		zap.L().Warn("using in-memory storage, data will not survive a restart")

		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", conf.Driver)
	}
}
