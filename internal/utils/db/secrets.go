package db

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Leiritrix/api-vendas/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func retrieveCredentials(ctx context.Context, cfg config.DatabaseConfig) (string, string, error) {
	if cfg.Utilizador != "" && cfg.Password != "" {
		return cfg.Utilizador, cfg.Password, nil
	}
	if cfg.SecretID == "" {
		return "", "", errors.New("defina DB_USERNAME/DB_PASSWORD ou DB_SECRET_ID")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return "", "", err
	}
	secrets := secretsmanager.NewFromConfig(awsCfg)

	result, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(cfg.SecretID),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", "", err
	}
	if result.SecretString == nil {
		return "", "", errors.New("segredo sem conteúdo")
	}
	return parseCredentials([]byte(*result.SecretString))
}

func parseCredentials(raw []byte) (string, string, error) {
	var secret Credentials
	if err := json.Unmarshal(raw, &secret); err != nil {
		return "", "", err
	}
	if secret.Username == "" || secret.Password == "" {
		return "", "", errors.New("segredo incompleto")
	}
	return secret.Username, secret.Password, nil
}
