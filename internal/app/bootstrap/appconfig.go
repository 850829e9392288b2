// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level and format, and request limits. AppConfig is
// where everything specific to Dissyboard lives.
type AppConfig struct {
	// Discord OAuth configuration
	DiscordClientID     string // Discord application client ID
	DiscordClientSecret string // Discord application client secret

	// The Discord user ID of the one administrator who moderates listings
	AdminID string

	// Base URL for OAuth callbacks (e.g., "https://dissyboard.example")
	BaseURL string

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: dissyboard-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Listings store configuration
	DataFile             string // Path of the JSON file holding the listings
	StoreSerializeWrites bool   // Serialize read-modify-write cycles on the listings file

	// Image upload configuration
	UploadPath string // Local directory for uploaded listing images
	UploadURL  string // URL prefix for serving uploaded images
}
