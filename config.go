package chatguard

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// Config holds the runtime configuration of the authorization layer.
// User lists are comma separated ids.
type Config struct {
	BotToken string `envconfig:"BOT_TOKEN"`

	DeleteCommands bool `envconfig:"DEL_CMDS" default:"false"`

	AdminCacheTTL  time.Duration `envconfig:"ADMIN_CACHE_TTL" default:"10m" validate:"min=1s"`
	AdminCacheSize int           `envconfig:"ADMIN_CACHE_SIZE" default:"512" validate:"gt=0"`

	AnonymousAdminID int64 `envconfig:"ANONYMOUS_ADMIN_ID" default:"1640741180" validate:"gte=0"`

	OwnerID  int64   `envconfig:"OWNER_ID" validate:"gte=0"`
	DevUsers []int64 `envconfig:"DEV_USERS" validate:"dive,gt=0"`
	Dragons  []int64 `envconfig:"DRAGONS" validate:"dive,gt=0"`
	Demons   []int64 `envconfig:"DEMONS" validate:"dive,gt=0"`
	Tigers   []int64 `envconfig:"TIGERS" validate:"dive,gt=0"`
	Wolves   []int64 `envconfig:"WOLVES" validate:"dive,gt=0"`

	SupportChat string `envconfig:"SUPPORT_CHAT" validate:"omitempty,max=64,excludes=@"`

	DatabaseURL string `envconfig:"DATABASE_URL" validate:"omitempty,url"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	MetricsAddr string `envconfig:"METRICS_ADDR" validate:"omitempty,hostname_port"`
}

// LoadConfig reads configuration from environment variables and validates it.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Registry builds the privilege registry from the configured user lists.
func (c *Config) Registry() (*Registry, error) {
	return c.RegistryBuilder().Build()
}

// RegistryBuilder returns a builder seeded with the configured user lists,
// for callers that merge further grants before building.
func (c *Config) RegistryBuilder() *RegistryBuilder {
	return NewRegistryBuilder().
		Grant(TierOwner, UserID(c.OwnerID)).
		Grant(TierDev, userIDs(c.DevUsers)...).
		Grant(TierSudo, userIDs(c.Dragons)...).
		Grant(TierSupport, userIDs(c.Demons)...).
		Grant(TierTiger, userIDs(c.Tigers)...).
		Grant(TierWolf, userIDs(c.Wolves)...)
}

// Messages returns the denial copy for this configuration.
func (c *Config) Messages() Messages {
	return DefaultMessages().WithSupportChat(c.SupportChat)
}

// CacheOptions returns the roster cache options for this configuration.
func (c *Config) CacheOptions() []CacheOption {
	return []CacheOption{
		WithTTL(c.AdminCacheTTL),
		WithCapacity(c.AdminCacheSize),
	}
}

// ResolverOptions returns the resolver options for this configuration.
func (c *Config) ResolverOptions() []ResolverOption {
	return []ResolverOption{
		WithAnonymousAdminID(UserID(c.AnonymousAdminID)),
	}
}

// NewLogger returns a configured slog.Logger based on configuration.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true, Level: slog.LevelInfo}
	if cfg != nil {
		opts.Level = parseLevel(cfg.LogLevel)
		if cfg.LogFormat == "json" {
			return slog.New(slog.NewJSONHandler(os.Stdout, opts))
		}
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func userIDs(ids []int64) []UserID {
	out := make([]UserID, 0, len(ids))
	for _, id := range ids {
		out = append(out, UserID(id))
	}
	return out
}
