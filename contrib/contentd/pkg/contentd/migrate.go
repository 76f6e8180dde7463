package contentd

import (
	"context"
	"fmt"
)

// Migrate creates or updates the storage schema.
func (a *App) Migrate(ctx context.Context, cmd *MigrateCommand) error {
	a.logger.Info().Str("backend", a.config.Backend).Msg("Running database migrations...")
	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.logger.Info().Msg("Migrations completed successfully")
	return nil
}
