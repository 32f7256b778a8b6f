package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	BGG       BGGConfig       `mapstructure:"bgg"`
	Bidding   BiddingConfig   `mapstructure:"bidding"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Sessions  SessionsConfig  `mapstructure:"sessions"`
	Slug      SlugConfig      `mapstructure:"slug"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// StoreConfig selects the document store backend: memory, mysql or firestore.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	// SeedFile, when set, is loaded into the store at startup.
	SeedFile string `mapstructure:"seed_file"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MySQLConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

type BGGConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// Timeout of zero leaves the transport default in place.
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchDelay time.Duration `mapstructure:"search_delay"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
}

type BiddingConfig struct {
	DefaultIncrement string        `mapstructure:"default_increment"`
	Lock             string        `mapstructure:"lock"`
	LockTTL          time.Duration `mapstructure:"lock_ttl"`
}

type SchedulerConfig struct {
	CloseSpec string `mapstructure:"close_spec"`
}

type SessionsConfig struct {
	DefaultZip         string `mapstructure:"default_zip"`
	DefaultMaxDistance int    `mapstructure:"default_max_distance"`
}

type SlugConfig struct {
	WordsFile string `mapstructure:"words_file"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("log.level", "info")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.seed_file", "")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("mysql.dsn", "bg_user:bg_pass@tcp(localhost:3306)/bg_broadcast?parseTime=true")
	v.SetDefault("mysql.max_open_conns", 25)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.credentials_file", "")
	v.SetDefault("bgg.base_url", "https://boardgamegeek.com/xmlapi")
	v.SetDefault("bgg.timeout", 0)
	v.SetDefault("bgg.search_delay", time.Second)
	v.SetDefault("bgg.cache_ttl", 0)
	v.SetDefault("bidding.default_increment", "10")
	v.SetDefault("bidding.lock", "none")
	v.SetDefault("bidding.lock_ttl", 5*time.Second)
	v.SetDefault("scheduler.close_spec", "@every 1m")
	v.SetDefault("sessions.default_zip", "90210")
	v.SetDefault("sessions.default_max_distance", 50)
	v.SetDefault("slug.words_file", "")
}

var envBindings = map[string]string{
	"server.port":                   "SERVER_PORT",
	"server.host":                   "SERVER_HOST",
	"log.level":                     "LOG_LEVEL",
	"store.driver":                  "STORE_DRIVER",
	"store.seed_file":               "STORE_SEED_FILE",
	"redis.enabled":                 "REDIS_ENABLED",
	"redis.address":                 "REDIS_ADDRESS",
	"redis.password":                "REDIS_PASSWORD",
	"redis.db":                      "REDIS_DB",
	"mysql.dsn":                     "MYSQL_DSN",
	"mysql.max_open_conns":          "MYSQL_MAX_OPEN_CONNS",
	"mysql.max_idle_conns":          "MYSQL_MAX_IDLE_CONNS",
	"mysql.conn_max_lifetime":       "MYSQL_CONN_MAX_LIFETIME",
	"firestore.project_id":          "FIREBASE_PROJECT_ID",
	"firestore.credentials_file":    "GOOGLE_APPLICATION_CREDENTIALS",
	"bgg.base_url":                  "BGG_BASE_URL",
	"bgg.timeout":                   "BGG_TIMEOUT",
	"bgg.search_delay":              "BGG_SEARCH_DELAY",
	"bgg.cache_ttl":                 "BGG_CACHE_TTL",
	"bidding.default_increment":     "BIDDING_DEFAULT_INCREMENT",
	"bidding.lock":                  "BIDDING_LOCK",
	"bidding.lock_ttl":              "BIDDING_LOCK_TTL",
	"scheduler.close_spec":          "SCHEDULER_CLOSE_SPEC",
	"sessions.default_zip":          "SESSIONS_DEFAULT_ZIP",
	"sessions.default_max_distance": "SESSIONS_DEFAULT_MAX_DISTANCE",
	"slug.words_file":               "SLUG_WORDS_FILE",
}

func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/bg-broadcast/")

	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return unmarshal(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// GetConfigString returns a formatted string representation of the config
func (c *Config) GetConfigString() string {
	return fmt.Sprintf(
		"Server: %s:%d, Store: %s, Redis: %t (%s), BGG: %s, Lock: %s",
		c.Server.Host,
		c.Server.Port,
		c.Store.Driver,
		c.Redis.Enabled,
		c.Redis.Address,
		c.BGG.BaseURL,
		c.Bidding.Lock,
	)
}
