package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/parkjunho/labor-settlement/internal/model"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type SettlementConfig struct {
	// SaveBatchSize caps how many entries go into one upsert transaction.
	// Batches are submitted sequentially; a failure leaves earlier batches
	// committed.
	SaveBatchSize int
}

type PDFConfig struct {
	FontPath string // TTF with Hangul coverage, required for payslip export
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Settlement  SettlementConfig
	PDF         PDFConfig
	// RoleMap resolves free-text position labels ("관리자", "팀장", ...) to
	// internal roles. Labels missing from the map are a hard input error at
	// the point of use; unknown role values are a hard config error here.
	RoleMap map[string]model.Role
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Settlement: SettlementConfig{
			SaveBatchSize: v.GetInt("SETTLEMENT_SAVE_BATCH_SIZE"),
		},
		PDF: PDFConfig{
			FontPath: v.GetString("PDF_FONT_PATH"),
		},
	}

	roleMap, err := parseRoleMap(v.GetString("ROLE_MAP"))
	if err != nil {
		return nil, err
	}
	cfg.RoleMap = roleMap

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if cfg.Settlement.SaveBatchSize == 0 {
		cfg.Settlement.SaveBatchSize = 450
	}
	if len(cfg.RoleMap) == 0 {
		cfg.RoleMap = defaultRoleMap()
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Settlement.SaveBatchSize < 1 {
		return fmt.Errorf("SETTLEMENT_SAVE_BATCH_SIZE must be positive")
	}
	return nil
}

// parseRoleMap parses "label=role" pairs separated by commas. Every role value
// must name a known internal role; anything else fails the load rather than
// defaulting silently.
func parseRoleMap(raw string) (map[string]model.Role, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	result := make(map[string]model.Role)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		label, value, found := strings.Cut(pair, "=")
		label = strings.TrimSpace(label)
		value = strings.TrimSpace(value)
		if !found || label == "" || value == "" {
			return nil, fmt.Errorf("ROLE_MAP: malformed pair %q", pair)
		}
		role, ok := model.ParseRole(strings.ToUpper(value))
		if !ok {
			return nil, fmt.Errorf("ROLE_MAP: unknown role %q for label %q", value, label)
		}
		if existing, dup := result[label]; dup && existing != role {
			return nil, fmt.Errorf("ROLE_MAP: conflicting entries for label %q", label)
		}
		result[label] = role
	}
	return result, nil
}

func defaultRoleMap() map[string]model.Role {
	return map[string]model.Role{
		"관리자": model.RoleAdmin,
		"사장":  model.RoleAdmin,
		"대표":  model.RoleAdmin,
		"팀장":  model.RoleManager,
		"반장":  model.RoleManager,
		"기사":  model.RoleWorker,
		"작업자": model.RoleWorker,
	}
}
