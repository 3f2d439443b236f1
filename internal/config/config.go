package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageS3       = "s3"

	DefaultAddr           = ":8080"
	DefaultDataDir        = "./data"
	DefaultMaxUploadBytes = 32 << 20
	DefaultRateLimit      = 30
)

// Config agrupa todo lo configurable del servicio.
// Prioridad: flags > env (ACTAS_*) > archivo (--config) > defaults.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MaxUploadBytes limita el cuerpo de POST /actas (firma + 3 fotos).
	MaxUploadBytes int64

	// RateLimit es el máximo de altas y exportes PDF por minuto y por IP; 0 = sin límite.
	RateLimit      int
	AllowedOrigins []string

	LogLevel  string
	LogFormat string
	AppName   string

	Storage Storage
	NATS    NATS
}

type Storage struct {
	Driver string // memory|file|postgres|sqlite|s3

	DataDir     string // file
	DatabaseDSN string // postgres
	SQLitePath  string // sqlite

	S3Endpoint       string
	S3Region         string
	S3Bucket         string
	S3Prefix         string
	S3AccessKey      string
	S3SecretKey      string
	S3ForcePathStyle bool
}

type NATS struct {
	URL     string // vacío = sin notificaciones
	Subject string
}

func defaults(v *viper.Viper) {
	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("read-timeout", 15*time.Second)
	v.SetDefault("write-timeout", 60*time.Second)
	v.SetDefault("max-upload-bytes", DefaultMaxUploadBytes)
	v.SetDefault("rate-limit", DefaultRateLimit)
	v.SetDefault("cors-allowed-origins", []string{"*"})
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "text")
	v.SetDefault("app-name", "actas-mantenimiento")
	v.SetDefault("storage", StorageFile)
	v.SetDefault("data-dir", DefaultDataDir)
	v.SetDefault("db-dsn", "")
	v.SetDefault("sqlite-path", "./data/actas.db")
	v.SetDefault("s3-endpoint", "")
	v.SetDefault("s3-region", "us-east-1")
	v.SetDefault("s3-bucket", "")
	v.SetDefault("s3-prefix", "")
	v.SetDefault("s3-access-key", "")
	v.SetDefault("s3-secret-key", "")
	v.SetDefault("s3-force-path-style", true)
	v.SetDefault("nats-url", "")
	v.SetDefault("nats-subject", "actas")
}

// Flags registra los flags sobre fs (los valores por defecto vienen de viper).
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "Archivo de configuración (yaml/json/toml)")
	fs.String("addr", DefaultAddr, "Dirección HTTP de escucha")
	fs.Duration("read-timeout", 15*time.Second, "Timeout de lectura HTTP")
	fs.Duration("write-timeout", 60*time.Second, "Timeout de escritura HTTP (exportes PDF grandes)")
	fs.Int64("max-upload-bytes", DefaultMaxUploadBytes, "Tamaño máximo del formulario de alta")
	fs.Int("rate-limit", DefaultRateLimit, "Altas y exportes PDF por minuto y por IP (0 = sin límite)")
	fs.StringSlice("cors-allowed-origins", []string{"*"}, "Orígenes permitidos para CORS")
	fs.String("log-level", "info", "Nivel de log (debug, info, warn, error)")
	fs.String("log-format", "text", "Formato de log (text, json)")
	fs.String("storage", StorageFile, "Almacenamiento del slot de actas: memory, file, postgres, sqlite, s3")
	fs.String("data-dir", DefaultDataDir, "Directorio para storage=file")
	fs.String("db-dsn", "", "DSN de Postgres para storage=postgres")
	fs.String("sqlite-path", "./data/actas.db", "Archivo SQLite para storage=sqlite")
	fs.String("s3-endpoint", "", "Endpoint S3 compatible (vacío = AWS)")
	fs.String("s3-region", "us-east-1", "Región S3")
	fs.String("s3-bucket", "", "Bucket S3 para storage=s3")
	fs.String("s3-prefix", "", "Prefijo de la key S3")
	fs.String("nats-url", "", "URL de NATS para publicar eventos (vacío = deshabilitado)")
	fs.String("nats-subject", "actas", "Prefijo de subject NATS")
}

// LoadEnvFile carga variables desde un archivo .env. Las variables ya
// definidas en el entorno no se pisan; si el archivo no existe no hace nada.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Load construye la configuración a partir de args (sin el nombre del binario).
func Load(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("actas", pflag.ContinueOnError)
	Flags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("ACTAS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{
		Addr:           v.GetString("addr"),
		ReadTimeout:    v.GetDuration("read-timeout"),
		WriteTimeout:   v.GetDuration("write-timeout"),
		MaxUploadBytes: v.GetInt64("max-upload-bytes"),
		RateLimit:      v.GetInt("rate-limit"),
		AllowedOrigins: v.GetStringSlice("cors-allowed-origins"),
		LogLevel:       v.GetString("log-level"),
		LogFormat:      v.GetString("log-format"),
		AppName:        v.GetString("app-name"),
		Storage: Storage{
			Driver:           strings.ToLower(strings.TrimSpace(v.GetString("storage"))),
			DataDir:          v.GetString("data-dir"),
			DatabaseDSN:      v.GetString("db-dsn"),
			SQLitePath:       v.GetString("sqlite-path"),
			S3Endpoint:       v.GetString("s3-endpoint"),
			S3Region:         v.GetString("s3-region"),
			S3Bucket:         v.GetString("s3-bucket"),
			S3Prefix:         v.GetString("s3-prefix"),
			S3AccessKey:      v.GetString("s3-access-key"),
			S3SecretKey:      v.GetString("s3-secret-key"),
			S3ForcePathStyle: v.GetBool("s3-force-path-style"),
		},
		NATS: NATS{
			URL:     v.GetString("nats-url"),
			Subject: v.GetString("nats-subject"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return errors.New("addr is required")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max-upload-bytes must be positive")
	}
	if c.RateLimit < 0 {
		return errors.New("rate-limit must not be negative")
	}

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFile:
		if strings.TrimSpace(c.Storage.DataDir) == "" {
			return errors.New("data-dir is required for storage=file")
		}
	case StoragePostgres:
		if strings.TrimSpace(c.Storage.DatabaseDSN) == "" {
			return errors.New("db-dsn is required for storage=postgres")
		}
	case StorageSQLite:
		if strings.TrimSpace(c.Storage.SQLitePath) == "" {
			return errors.New("sqlite-path is required for storage=sqlite")
		}
	case StorageS3:
		if strings.TrimSpace(c.Storage.S3Bucket) == "" {
			return errors.New("s3-bucket is required for storage=s3")
		}
	default:
		return fmt.Errorf("unknown storage %q", c.Storage.Driver)
	}
	return nil
}
