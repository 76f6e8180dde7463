package store_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store"
	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store/memory"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDumpRestore(t *testing.T) {
	ctx := context.Background()
	src := memory.New()
	docs := store.New(src)

	_, err := docs.CreateProduct(ctx, &models.Product{ID: "acme", Title: "Acme"})
	require.NoError(t, err)
	project, _, err := docs.SaveProject(ctx, &models.Project{Slug: "alpha", Title: "Alpha"})
	require.NoError(t, err)
	_, err = docs.CreateBlogPost(ctx, &models.BlogPost{Title: "Hello"})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := store.Dump(ctx, src, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.True(t, strings.HasPrefix(buf.String(), store.DumpFormat+"\n"))

	dst := memory.New()
	dump := buf.String()
	n, err = store.Restore(ctx, dst, strings.NewReader(dump), store.RestoreOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	restored := store.New(dst)
	got, err := restored.GetProjectBySlug(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, project.ID, got.ID)
	assert.True(t, project.CreatedAt.Equal(*got.CreatedAt))

	_, err = store.Restore(ctx, dst, strings.NewReader(dump), store.RestoreOptions{})
	assert.ErrorIs(t, err, constants.ErrConflict)

	n, err = store.Restore(ctx, dst, strings.NewReader(dump), store.RestoreOptions{SkipExisting: true})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRestoreRejectsBadInput(t *testing.T) {
	ctx := context.Background()

	_, err := store.Restore(ctx, memory.New(), strings.NewReader("SURDUMP01\n"), store.RestoreOptions{})
	assert.ErrorContains(t, err, "unsupported dump format")

	bad := store.DumpFormat + "\n" + `{"kind":"page","id":"x","data":{},"createdAt":"` + time.Now().Format(time.RFC3339) + `"}` + "\n"
	_, err = store.Restore(ctx, memory.New(), strings.NewReader(bad), store.RestoreOptions{})
	assert.ErrorContains(t, err, "record 1: invalid kind")

	n, err := store.Restore(ctx, memory.New(), strings.NewReader(store.DumpFormat+"\n"), store.RestoreOptions{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRestoreRejectsTakenSlug(t *testing.T) {
	ctx := context.Background()
	src := memory.New()
	_, _, err := store.New(src).SaveProject(ctx, &models.Project{Slug: "alpha", Title: "From dump"})
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = store.Dump(ctx, src, &buf)
	require.NoError(t, err)

	dst := memory.New()
	local, _, err := store.New(dst).SaveProject(ctx, &models.Project{Slug: "alpha", Title: "Local"})
	require.NoError(t, err)

	_, err = store.Restore(ctx, dst, bytes.NewReader(buf.Bytes()), store.RestoreOptions{})
	assert.ErrorIs(t, err, constants.ErrConflict)

	got, err := store.New(dst).GetProjectBySlug(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, local.ID, got.ID)
	assert.Equal(t, "Local", got.Title)
}
