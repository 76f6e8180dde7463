package models

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaRef_states(t *testing.T) {
	var empty MediaRef
	assert.Equal(t, MediaEmpty, empty.State())
	assert.True(t, empty.IsZero())

	stored := StoredMedia("/uploads/a.png")
	assert.Equal(t, MediaStored, stored.State())
	assert.Equal(t, "/uploads/a.png", stored.Path())

	pending := stored.WithPending(FileFromBytes("b.png", []byte("png")))
	assert.Equal(t, MediaPending, pending.State())
	assert.Equal(t, "/uploads/a.png", pending.Path(), "pending slot keeps its previous path")
	assert.Equal(t, "pending:b.png", pending.String())

	f, ok := pending.Pending()
	require.True(t, ok)
	rc, err := f.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestMediaRef_json(t *testing.T) {
	data, err := json.Marshal(StoredMedia("/uploads/a.png"))
	require.NoError(t, err)
	assert.JSONEq(t, `"/uploads/a.png"`, string(data))

	data, err = json.Marshal(MediaRef{})
	require.NoError(t, err)
	assert.JSONEq(t, `""`, string(data))

	_, err = json.Marshal(MediaRef{}.WithPending(FileFromBytes("x.png", nil)))
	require.ErrorIs(t, err, constants.ErrPendingMedia)

	var m MediaRef
	require.NoError(t, json.Unmarshal([]byte(`"/uploads/c.mp4"`), &m))
	assert.Equal(t, StoredMedia("/uploads/c.mp4"), m)

	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.True(t, m.IsZero())

	require.Error(t, json.Unmarshal([]byte(`42`), &m))
}

func TestUnresolved(t *testing.T) {
	p := NewProduct()
	assert.Empty(t, Unresolved(p))

	p.HeroImageURL = p.HeroImageURL.WithPending(FileFromBytes("hero.png", nil))
	p.PlatformExamples[3].Image = MediaRef{}.WithPending(FileFromBytes("ex.png", nil))
	p.Features = append(p.Features, Feature{Image: StoredMedia("/uploads/f.png")})

	refs := Unresolved(p)
	require.Len(t, refs, 2)
	assert.Same(t, &p.HeroImageURL, refs[0])
	assert.Same(t, &p.PlatformExamples[3].Image, refs[1])
}
