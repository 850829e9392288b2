// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for Dissyboard.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: discord_client_id, session_name, etc.
//   - Environment variables: DISSYBOARD_DISCORD_CLIENT_ID, DISSYBOARD_SESSION_NAME, etc.
//   - Command-line flags: --discord_client_id, --session_name, etc.
var appConfigKeys = []config.AppKey{
	// Discord OAuth configuration
	{Name: "discord_client_id", Default: "", Desc: "Discord OAuth2 client ID"},
	{Name: "discord_client_secret", Default: "", Desc: "Discord OAuth2 client secret"},

	// Moderation
	{Name: "admin_id", Default: "", Desc: "Discord user ID of the administrator"},

	// Base URL for OAuth callbacks
	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for OAuth callbacks"},

	// Session configuration
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "dissyboard-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Listings store configuration
	{Name: "data_file", Default: "./data/servers.json", Desc: "Path of the JSON file holding the listings"},
	{Name: "store_serialize_writes", Default: true, Desc: "Serialize read-modify-write cycles on the listings file"},

	// Image upload configuration
	{Name: "upload_path", Default: "./uploads/servers", Desc: "Local directory for uploaded listing images"},
	{Name: "upload_url", Default: "/files/servers", Desc: "URL prefix for serving uploaded images"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, DISSYBOARD_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DISSYBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DiscordClientID:     appValues.String("discord_client_id"),
		DiscordClientSecret: appValues.String("discord_client_secret"),

		AdminID: appValues.String("admin_id"),

		BaseURL: appValues.String("base_url"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		DataFile:             appValues.String("data_file"),
		StoreSerializeWrites: appValues.Bool("store_serialize_writes"),

		UploadPath: appValues.String("upload_path"),
		UploadURL:  appValues.String("upload_url"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Dissyboard requires an admin and a data file: without an admin nobody
// could ever moderate submissions, and without a data file there is
// nowhere to keep them.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if appCfg.AdminID == "" {
		return fmt.Errorf("admin_id must be set to the administrator's Discord user ID")
	}
	if appCfg.DataFile == "" {
		return fmt.Errorf("data_file must not be empty")
	}

	if appCfg.DiscordClientID == "" || appCfg.DiscordClientSecret == "" {
		// Not fatal: the app still serves the public list, but nobody can
		// sign in until OAuth is configured.
		logger.Warn("Discord OAuth not configured; sign-in will be unavailable")
	}

	return nil
}
