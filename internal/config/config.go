package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config reúne a configuração da API, lida do ambiente (e de um .env opcional).
type Config struct {
	Porta    string
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig

	JWTSecret   string
	JWTValidade time.Duration

	WebhookURL     string
	WebhookTimeout time.Duration

	CORSOrigens []string

	// IntakeTTL é o tempo de vida de uma sessão de registo de venda no Redis.
	IntakeTTL time.Duration
}

type DatabaseConfig struct {
	Host       string
	Port       uint
	Nome       string
	Utilizador string
	Password   string
	SecretID   string
	SSLDisable bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Canal    string
}

type LogConfig struct {
	Nivel   string
	Formato string
}

// Load carrega o .env (se existir) e devolve a configuração com os valores por omissão aplicados.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv lê apenas variáveis de ambiente, sem tocar no .env.
func FromEnv() Config {
	return Config{
		Porta: getEnv("HTTP_PORT", "8080"),
		Database: DatabaseConfig{
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       uint(getUint("DB_PORT", 5432)),
			Nome:       getEnv("DB_NAME", "vendas"),
			Utilizador: os.Getenv("DB_USERNAME"),
			Password:   os.Getenv("DB_PASSWORD"),
			SecretID:   os.Getenv("DB_SECRET_ID"),
			SSLDisable: os.Getenv("DB_SSL_MODE_DISABLE") == "true",
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       int(getUint("REDIS_DB", 0)),
			Canal:    getEnv("REDIS_CANAL_EVENTOS", "vendas:eventos"),
		},
		Log: LogConfig{
			Nivel:   getEnv("LOG_LEVEL", "info"),
			Formato: getEnv("LOG_FORMAT", "json"),
		},
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTValidade:    getDuration("JWT_VALIDADE", 24*time.Hour),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		WebhookTimeout: getDuration("WEBHOOK_TIMEOUT", 10*time.Second),
		CORSOrigens:    getList("CORS_ORIGINS", []string{"*"}),
		IntakeTTL:      getDuration("INTAKE_TTL", 2*time.Hour),
	}
}

func getEnv(chave, omissao string) string {
	if v := strings.TrimSpace(os.Getenv(chave)); v != "" {
		return v
	}
	return omissao
}

func getUint(chave string, omissao uint64) uint64 {
	v, err := strconv.ParseUint(os.Getenv(chave), 10, 32)
	if err != nil {
		return omissao
	}
	return v
}

func getDuration(chave string, omissao time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(chave))
	if err != nil || d <= 0 {
		return omissao
	}
	return d
}

func getList(chave string, omissao []string) []string {
	raw := strings.TrimSpace(os.Getenv(chave))
	if raw == "" {
		return omissao
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
