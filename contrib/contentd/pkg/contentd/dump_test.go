package contentd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/logger"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.UploadDir = t.TempDir()
	app, err := newApp(cfg, &logger.LogData{Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestDumpRestoreCommands(t *testing.T) {
	ctx := context.Background()
	src := newTestApp(t)
	_, err := src.Store().CreateProduct(ctx, &models.Product{ID: "acme", Title: "Acme"})
	require.NoError(t, err)
	_, _, err = src.Store().SaveProject(ctx, &models.Project{Slug: "alpha", Title: "Alpha"})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, src.Dump(ctx, &DumpCommand{}, &out))

	path := filepath.Join(t.TempDir(), "site.dump")
	require.NoError(t, src.Dump(ctx, &DumpCommand{Path: path}, nil))
	fromFile, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(fromFile))

	dst := newTestApp(t)
	require.NoError(t, dst.Restore(ctx, &RestoreCommand{Path: "-"}, bytes.NewReader(out.Bytes())))
	p, err := dst.Store().GetProduct(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Title)
	_, err = dst.Store().GetProjectBySlug(ctx, "alpha")
	require.NoError(t, err)

	err = dst.Restore(ctx, &RestoreCommand{Path: path}, nil)
	assert.ErrorIs(t, err, constants.ErrConflict)
	require.NoError(t, dst.Restore(ctx, &RestoreCommand{Path: path, SkipExisting: true}, nil))

	dst.SetReadOnly(true)
	assert.ErrorIs(t, dst.Restore(ctx, &RestoreCommand{Path: path}, nil), constants.ErrReadOnly)
}

func TestParseDumpRestore(t *testing.T) {
	cmd, _, err := Parse([]string{"dump"})
	require.NoError(t, err)
	assert.Equal(t, &DumpCommand{}, cmd)

	cmd, _, err = Parse([]string{"dump", "site.dump"})
	require.NoError(t, err)
	assert.Equal(t, &DumpCommand{Path: "site.dump"}, cmd)

	cmd, _, err = Parse([]string{"restore", "-skip-existing", "site.dump"})
	require.NoError(t, err)
	assert.Equal(t, &RestoreCommand{Path: "site.dump", SkipExisting: true}, cmd)

	_, _, err = Parse([]string{"restore"})
	assert.ErrorContains(t, err, "exactly one dump file")
}
