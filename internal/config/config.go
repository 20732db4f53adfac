package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
// The API only verifies bearer tokens; it never issues them.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// EngineConfig contains the reward-engine tunables. Rarity weights live with
// the booster params (see internal/domain/booster); these are the knobs an
// operator actually changes per environment.
type EngineConfig struct {
	// PaidBoosterCost is the currency debited per paid booster open.
	PaidBoosterCost int64 `mapstructure:"paid_booster_cost" validate:"required,gt=0"`

	// FreeWindowHours is the eligibility window for time-gated boosters.
	FreeWindowHours int `mapstructure:"free_window_hours" validate:"required,gt=0"`

	// LuckBonusCap caps the streak-earned luck bonus, in percent.
	LuckBonusCap int `mapstructure:"luck_bonus_cap" validate:"gte=0,lte=100"`
}
