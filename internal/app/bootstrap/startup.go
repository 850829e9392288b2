// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dissyboard/dissyboard/internal/app/resources"
)

// Startup runs one-time application initialization after the stores are
// ready, but before the HTTP handler is built. The shared template set must
// be registered here: the engine refuses to boot without it.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	return nil
}
