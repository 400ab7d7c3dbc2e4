package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"review-enhancer/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Cafe24      Cafe24      `json:"cafe24"`
	Review      Review      `json:"review"`
	Storage     Storage     `json:"storage"`
	Database    Database    `json:"database"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	RedisClient RedisClient `json:"redisClient"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Env          string   `json:"env"`
	Port         int      `json:"port"`
	SecretKey    string   `json:"secretKey"`
	Version      string   `json:"version"`
	TLSEnabled   bool     `json:"tlsEnabled"`
	TLSCertFile  string   `json:"tlsCertFile"`
	TLSKeyFile   string   `json:"tlsKeyFile"`
	AllowOrigins []string `json:"allowOrigins"`
	PublicDir    string   `json:"publicDir"`
}

// Review tunes the review listing pipeline. CacheTTL is in seconds.
type Review struct {
	CacheTTL int `json:"cacheTTL"`
	PerPage  int `json:"perPage"`
}

// Storage selects backends: memory | postgres | mssql | redis | mongo, and
// log | pubsub | servicebus for events.
type Storage struct {
	TokenStore     string `json:"tokenStore"`
	CacheDriver    string `json:"cacheDriver"`
	SettingsStore  string `json:"settingsStore"`
	EventPublisher string `json:"eventPublisher"`
}

type Database struct {
	Psql  Db `json:"psql"`
	Mongo Db `json:"mongo"`
	Mssql Db `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace        string `json:"namespace"`
	ConnectionString string `json:"connectionString"`
	Queue            string `json:"queue"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	DB       int    `json:"db"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

var C Config

func init() {
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initCafe24(&C)
	initStorage(&C)
	if C.App.TLSEnabled && C.Cafe24.RedirectURI != "" && !hasHTTPS(C.Cafe24.RedirectURI) {
		C.Cafe24.RedirectURI = toHTTPSCallback(C.Cafe24.RedirectURI)
	}
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	C.Database.Psql.Name = getConfigValue(C.Database.Psql.Name, "DB_NAME", "review_enhancer")
	C.Database.Psql.Host = getConfigValue(C.Database.Psql.Host, "DB_HOST", "localhost")
	C.Database.Psql.Port = getConfigValue(C.Database.Psql.Port, "DB_PORT", "5432")
	C.Database.Psql.User = getConfigValue(C.Database.Psql.User, "DB_USER", "postgres")
	C.Database.Psql.Password = getConfigValue(C.Database.Psql.Password, "DB_PASSWORD", "")
	C.Database.Psql.SSLMode = getConfigValue(C.Database.Psql.SSLMode, "DB_SSLMODE", "disable")

	// Azure SQL in production
	C.Database.Mssql.Name = getConfigValue(C.Database.Mssql.Name, "MSSQL_DB_NAME", "")
	C.Database.Mssql.Host = getConfigValue(C.Database.Mssql.Host, "MSSQL_HOST", "localhost")
	C.Database.Mssql.Port = getConfigValue(C.Database.Mssql.Port, "MSSQL_PORT", "1433")
	C.Database.Mssql.User = getConfigValue(C.Database.Mssql.User, "MSSQL_USER", "sa")
	C.Database.Mssql.Password = getConfigValue(C.Database.Mssql.Password, "MSSQL_PASSWORD", "")

	C.Database.Mongo.Name = getConfigValue(C.Database.Mongo.Name, "MONGO_DB_NAME", "review_enhancer")
	C.Database.Mongo.Host = getConfigValue(C.Database.Mongo.Host, "MONGO_HOST", "localhost")
	C.Database.Mongo.Port = getConfigValue(C.Database.Mongo.Port, "MONGO_PORT", "27017")
	C.Database.Mongo.User = getConfigValue(C.Database.Mongo.User, "MONGO_USER", "")
	C.Database.Mongo.Password = getConfigValue(C.Database.Mongo.Password, "MONGO_PASSWORD", "")

	C.RedisClient.Host = getConfigValue(C.RedisClient.Host, "REDIS_HOST", "localhost")
	C.RedisClient.Port = getConfigValue(C.RedisClient.Port, "REDIS_PORT", "6379")
	C.RedisClient.Username = getConfigValue(C.RedisClient.Username, "REDIS_USERNAME", "")
	C.RedisClient.Password = getConfigValue(C.RedisClient.Password, "REDIS_PASSWORD", "")

	C.Pubsub.ProjectID = getConfigValue(C.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
	C.Pubsub.Topic = getConfigValue(C.Pubsub.Topic, "PUBSUB_TOPIC", "review-enhancer-events")
	C.ServiceBus.Namespace = getConfigValue(C.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE", "")
	C.ServiceBus.ConnectionString = getConfigValue(C.ServiceBus.ConnectionString, "SERVICEBUS_CONNECTION_STRING", "")
	C.ServiceBus.Queue = getConfigValue(C.ServiceBus.Queue, "SERVICEBUS_QUEUE", "review-enhancer-events")
}

func initApp(C *Config) {
	C.App.Env = getConfigValue(C.App.Env, "NODE_ENV", os.Getenv("ENV"))
	if C.App.Env == "" {
		C.App.Env = "development"
	}
	// Prefer SECRET_KEY from environment for JWT verification
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// APP_PORT -> PORT -> config -> 3000
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 3000
	}
	C.App.Version = getConfigValue(C.App.Version, "APP_VERSION", "1.0.0")
	C.App.PublicDir = getConfigValue(C.App.PublicDir, "PUBLIC_DIR", "public")
	if v := os.Getenv("ALLOW_ORIGINS"); v != "" {
		C.App.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	C.App.TLSCertFile = getConfigValue(C.App.TLSCertFile, "TLS_CERT_FILE", "")
	C.App.TLSKeyFile = getConfigValue(C.App.TLSKeyFile, "TLS_KEY_FILE", "")
	if C.App.TLSEnabled {
		logger.GetLogger().WithFields(map[string]interface{}{"cert": C.App.TLSCertFile, "key": C.App.TLSKeyFile}).Info("TLS enabled via configuration")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; admin JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
	C.Logger.Format = getConfigValue(C.Logger.Format, "LOGGER_FORMAT", "json")
	C.Logger.Level = getConfigValue(C.Logger.Level, "LOG_LEVEL", "debug")
}

func initCafe24(C *Config) {
	C.Cafe24.MallID = getConfigValue(C.Cafe24.MallID, "CAFE24_MALL_ID", "")
	C.Cafe24.ClientID = getConfigValue(C.Cafe24.ClientID, "CAFE24_CLIENT_ID", "")
	C.Cafe24.ClientSecret = getConfigValue(C.Cafe24.ClientSecret, "CAFE24_CLIENT_SECRET", "")
	C.Cafe24.RedirectURI = getConfigValue(C.Cafe24.RedirectURI, "CAFE24_REDIRECT_URI", fmt.Sprintf("http://localhost:%d/auth/callback", C.App.Port))
	C.Cafe24.APIVersion = getConfigValue(C.Cafe24.APIVersion, "CAFE24_API_VERSION", DefaultAPIVersion)
	C.Cafe24.APIBaseURL = getConfigValue(C.Cafe24.APIBaseURL, "CAFE24_API_BASE_URL", "")
	C.Cafe24.ScriptBaseURL = getConfigValue(C.Cafe24.ScriptBaseURL, "SCRIPT_BASE_URL", "")
	if v := os.Getenv("CAFE24_SCOPES"); v != "" {
		C.Cafe24.Scopes = splitList(v)
	}
	if len(C.Cafe24.Scopes) == 0 {
		C.Cafe24.Scopes = DefaultScopes
	}

	C.Review.CacheTTL = getIntValue(C.Review.CacheTTL, "REVIEW_CACHE_TTL", 300)
	C.Review.PerPage = getIntValue(C.Review.PerPage, "REVIEWS_PER_PAGE", 20)

	if C.Cafe24.MallID == "" || C.Cafe24.ClientID == "" || C.Cafe24.ClientSecret == "" {
		logger.GetLogger().Warn("Cafe24 credentials incomplete; set CAFE24_MALL_ID, CAFE24_CLIENT_ID and CAFE24_CLIENT_SECRET")
	}
}

func initStorage(C *Config) {
	C.Storage.TokenStore = strings.ToLower(getConfigValue(C.Storage.TokenStore, "TOKEN_STORE", "memory"))
	C.Storage.CacheDriver = strings.ToLower(getConfigValue(C.Storage.CacheDriver, "CACHE_DRIVER", "memory"))
	C.Storage.SettingsStore = strings.ToLower(getConfigValue(C.Storage.SettingsStore, "SETTINGS_STORE", "memory"))
	C.Storage.EventPublisher = strings.ToLower(getConfigValue(C.Storage.EventPublisher, "EVENT_PUBLISHER", "log"))
}

// helpers to coerce local callback to https
func hasHTTPS(u string) bool { return strings.HasPrefix(u, "https://") }
func toHTTPSCallback(u string) string {
	if strings.HasPrefix(u, "http://") {
		return "https://" + u[7:]
	}
	return u
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
