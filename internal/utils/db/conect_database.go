package db

import (
	"context"
	"fmt"

	"github.com/Leiritrix/api-vendas/internal/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDataBase abre a ligação ao PostgreSQL. As credenciais vêm do ambiente
// ou, na falta delas, do AWS Secrets Manager (cfg.SecretID).
func ConnectDataBase(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	var sslMode string
	if cfg.SSLDisable {
		sslMode = " sslmode=disable"
	}
	username, password, err := retrieveCredentials(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("credenciais da base de dados: %w", err)
	}
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s", cfg.Host, username, password, cfg.Nome, cfg.Port, sslMode)
	database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	log.Info("ligado à base de dados", zap.String("host", cfg.Host), zap.String("db", cfg.Nome))
	return database, nil
}

// ComContexto associa ctx à sessão gorm; tolera db nil (repositórios em memória nos testes).
func ComContexto(db *gorm.DB, ctx context.Context) *gorm.DB {
	if db == nil {
		return nil
	}
	return db.WithContext(ctx)
}
