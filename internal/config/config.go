package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the UserStore implementation: "postgres" or "memory".
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres memory"`

	// URL is the PostgreSQL connection string. Required when Driver is "postgres".
	URL string `mapstructure:"url" validate:"required_if=Driver postgres"`

	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains the bearer token settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"           validate:"required,min=32"`
	Issuer             string `mapstructure:"issuer"               validate:"required"`
	TokenLifetimeHours int    `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`
	ClockSkewSeconds   int    `mapstructure:"clock_skew_seconds"   validate:"gte=0"`

	// IssueTokenOnRead makes GET /users/{id} mint a token for the fetched user
	// regardless of who is asking. When false, a token is only returned to a
	// caller already authenticated as that user.
	IssueTokenOnRead bool `mapstructure:"issue_token_on_read"`

	// RequireAuthForDelete puts DELETE /users/{id} behind the required policy.
	RequireAuthForDelete bool `mapstructure:"require_auth_for_delete"`
}
