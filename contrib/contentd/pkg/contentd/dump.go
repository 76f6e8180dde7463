package contentd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store"
	"github.com/lumenworks/contentkit/pkg/constants"
)

// Dump writes all records of the backend in the contentd dump format.
func (a *App) Dump(ctx context.Context, cmd *DumpCommand, stdout io.Writer) error {
	w := stdout
	if cmd.Path != "" && cmd.Path != "-" {
		f, err := os.Create(cmd.Path)
		if err != nil {
			return fmt.Errorf("failed to create dump file: %w", err)
		}
		defer f.Close()
		w = f
	}

	n, err := store.Dump(ctx, a.backend, w)
	if err != nil {
		return err
	}
	a.logger.Info().Int("records", n).Str("backend", a.config.Backend).Msg("Dump completed")
	return nil
}

// Restore loads a dump into the backend. Ids and timestamps are kept.
func (a *App) Restore(ctx context.Context, cmd *RestoreCommand, stdin io.Reader) error {
	if a.IsReadOnly() {
		return constants.ErrReadOnly
	}
	r := stdin
	if cmd.Path != "-" {
		f, err := os.Open(cmd.Path)
		if err != nil {
			return fmt.Errorf("failed to open dump file: %w", err)
		}
		defer f.Close()
		r = f
	}

	if err := a.backend.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to prepare schema: %w", err)
	}
	n, err := store.Restore(ctx, a.backend, r, store.RestoreOptions{SkipExisting: cmd.SkipExisting})
	if err != nil {
		return fmt.Errorf("restore stopped after %d records: %w", n, err)
	}
	a.logger.Info().Int("records", n).Str("backend", a.config.Backend).Msg("Restore completed")
	return nil
}
