package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config contém as configurações da aplicação.
type Config struct {
	Port      string
	PublicURL string
	Database  DatabaseConfig
	JWTSecret string
	Log       LogConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Game      GameConfig
}

type DatabaseConfig struct {
	Driver string
	DSN    string // Data Source Name (caminho do arquivo SQLite ou URL do Postgres)
}

type LogConfig struct {
	Format string
	Level  string
}

// RedisConfig configura o cache de perguntas. Addr vazio desativa o cache.
type RedisConfig struct {
	Addr     string
	CacheTTL time.Duration
}

// NATSConfig configura a fonte externa de eventos. URL vazia desativa.
type NATSConfig struct {
	URL     string
	Subject string
}

// GameConfig agrupa os tempos e limites de uma partida.
type GameConfig struct {
	EmptyRoomGrace   time.Duration
	ResultLinger     time.Duration
	QuickStartDelay  time.Duration
	CountdownTick    time.Duration
	StoreRetry       time.Duration
	QuestionsPerGame int
}

// Load carrega as configurações das variáveis de ambiente ou usa padrões.
// Um arquivo .env, se existir, é lido antes.
func Load() *Config {
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	return &Config{
		Port:      port,
		PublicURL: getEnv("PUBLIC_URL", "http://localhost:"+port),
		Database: DatabaseConfig{
			Driver: getEnv("DB_DRIVER", "sqlite3"), // ncruces usa "sqlite3"
			DSN:    getEnv("DB_DSN", "./quizsalon.db"),
		},
		JWTSecret: getEnv("JWT_SECRET", "segredo_padrao_para_desenvolvimento"),
		Log: LogConfig{
			Format: getEnv("LOG_FORMAT", "json"),
			Level:  getEnv("LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			CacheTTL: getEnvDuration("QUESTION_CACHE_TTL", 5*time.Minute),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_SUBJECT", "salons.changed"),
		},
		Game: GameConfig{
			EmptyRoomGrace:   getEnvDuration("EMPTY_ROOM_GRACE", 10*time.Second),
			ResultLinger:     getEnvDuration("RESULT_LINGER", 60*time.Second),
			QuickStartDelay:  getEnvDuration("QUICK_START_DELAY", time.Second),
			CountdownTick:    getEnvDuration("COUNTDOWN_TICK", time.Second),
			StoreRetry:       getEnvDuration("STORE_RETRY", time.Second),
			QuestionsPerGame: getEnvInt("QUESTIONS_PER_GAME", 20),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
