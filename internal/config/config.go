package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Data      DataConfig      `mapstructure:"data"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Admin     AdminConfig     `mapstructure:"admin"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	// 分析结果缓存有效期（秒），0 表示不缓存
	CacheTTL int `mapstructure:"cache_ttl"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	// bcrypt 哈希，不是明文
	PasswordHash string `mapstructure:"password_hash"`
}

// DataConfig 描述数据集来源：本地目录或 MinIO 桶中的 CSV 文件。
type DataConfig struct {
	Source         string `mapstructure:"source"` // local / minio
	Dir            string `mapstructure:"dir"`
	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessID  string `mapstructure:"minio_access_key"`
	MinioSecret    string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`
	ImportBatchLen int    `mapstructure:"import_batch_len"`
}

// AnalysisConfig 集中所有分析阈值，支持热更新。
type AnalysisConfig struct {
	// mastery：以预计算的 Mastery 列为准；score_ratio：以得分占比为准
	MasterySource string `mapstructure:"mastery_source"`

	// 行为分析的时区偏移（小时），默认东八区
	TimezoneOffsetHours int `mapstructure:"timezone_offset_hours"`

	// 知识点/从属知识点薄弱阈值
	WeakKnowledgeThreshold    float64 `mapstructure:"weak_knowledge_threshold"`
	WeakSubKnowledgeThreshold float64 `mapstructure:"weak_sub_knowledge_threshold"`

	// 题目难度异常阈值对：正确率低于 low 且群体掌握度高于 high 才标记
	Difficulty DifficultyThresholds `mapstructure:"difficulty"`

	// 趋势状态阈值与进步/退步阈值
	Trend TrendThresholds `mapstructure:"trend"`

	// 练习曲线中 Partially_Correct 的固定满分约定
	CurveMaxScore float64 `mapstructure:"curve_max_score"`
}

type DifficultyThresholds struct {
	Low  float64 `mapstructure:"low"`
	High float64 `mapstructure:"high"`
}

type TrendThresholds struct {
	Excellent float64 `mapstructure:"excellent"`
	Good      float64 `mapstructure:"good"`
	Fair      float64 `mapstructure:"fair"`
	Progress  float64 `mapstructure:"progress"`
	Decline   float64 `mapstructure:"decline"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// Timezone 返回行为分析使用的固定时区。
func (a *AnalysisConfig) Timezone() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", a.TimezoneOffsetHours), a.TimezoneOffsetHours*3600)
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("EDU_ASSIST")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// JWT / Admin
	viper.BindEnv("jwt.secret", "JWT_SECRET")
	viper.BindEnv("admin.username", "ADMIN_USERNAME")
	viper.BindEnv("admin.password_hash", "ADMIN_PASSWORD_HASH")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Data source / MinIO
	viper.BindEnv("data.source", "DATA_SOURCE")
	viper.BindEnv("data.dir", "DATA_DIR")
	viper.BindEnv("data.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("data.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("data.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("data.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	if err := cfg.Analysis.Validate(); err != nil {
		return nil, err
	}

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	if cfg.Data.Source == "local" {
		if _, err := os.Stat(cfg.Data.Dir); os.IsNotExist(err) {
			os.MkdirAll(cfg.Data.Dir, 0755)
		}
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("analysis.mastery_source", "mastery")
	viper.SetDefault("analysis.timezone_offset_hours", 8)
	viper.SetDefault("analysis.weak_knowledge_threshold", 0.6)
	viper.SetDefault("analysis.weak_sub_knowledge_threshold", 0.5)
	viper.SetDefault("analysis.difficulty.low", 0.3)
	viper.SetDefault("analysis.difficulty.high", 0.7)
	viper.SetDefault("analysis.trend.excellent", 0.85)
	viper.SetDefault("analysis.trend.good", 0.7)
	viper.SetDefault("analysis.trend.fair", 0.5)
	viper.SetDefault("analysis.trend.progress", 0.15)
	viper.SetDefault("analysis.trend.decline", 0.1)
	viper.SetDefault("analysis.curve_max_score", 3.0)
	viper.SetDefault("data.source", "local")
	viper.SetDefault("data.import_batch_len", 1000)
	viper.SetDefault("redis.cache_ttl", 300)
}

// Validate 检查阈值的基本一致性，热更新时同样调用。
func (a *AnalysisConfig) Validate() error {
	switch a.MasterySource {
	case "mastery", "score_ratio":
	default:
		return fmt.Errorf("unsupported analysis.mastery_source: %q", a.MasterySource)
	}
	if a.Difficulty.Low <= 0 || a.Difficulty.Low >= a.Difficulty.High {
		return fmt.Errorf("invalid difficulty thresholds: low=%v high=%v", a.Difficulty.Low, a.Difficulty.High)
	}
	if !(a.Trend.Excellent > a.Trend.Good && a.Trend.Good > a.Trend.Fair) {
		return fmt.Errorf("trend status thresholds must be descending: %v/%v/%v", a.Trend.Excellent, a.Trend.Good, a.Trend.Fair)
	}
	if a.CurveMaxScore <= 0 {
		return fmt.Errorf("analysis.curve_max_score must be positive")
	}
	return nil
}
