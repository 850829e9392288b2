// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/dissyboard/dissyboard/internal/app/store/listings"
	"github.com/dissyboard/dissyboard/internal/app/store/oauthstate"
	"github.com/dissyboard/dissyboard/internal/app/store/uploads"
)

// ConnectDB builds the app's storage backends. Dissyboard keeps its data in
// a flat JSON file rather than a database server, so "connecting" just means
// constructing the stores.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (Deps, error) {
	var opts []listings.Option
	if !appCfg.StoreSerializeWrites {
		opts = append(opts, listings.WithoutWriteSerialization())
	}

	deps := Deps{
		Listings:   listings.New(appCfg.DataFile, opts...),
		OAuthState: oauthstate.New(),
		Uploads:    uploads.New(appCfg.UploadPath, appCfg.UploadURL),
	}

	logger.Info("storage configured",
		zap.String("data_file", appCfg.DataFile),
		zap.Bool("serialize_writes", appCfg.StoreSerializeWrites),
		zap.String("upload_path", appCfg.UploadPath))

	return deps, nil
}

// EnsureSchema makes sure the listings file exists and is readable. The
// first load bootstraps an empty file, so a fresh deployment starts with an
// empty list instead of failing on the first request.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps Deps, logger *zap.Logger) error {
	if _, err := deps.Listings.LoadAll(ctx); err != nil {
		return fmt.Errorf("listings store unusable at %s: %w", deps.Listings.Path(), err)
	}
	return nil
}
