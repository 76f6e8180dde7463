package media

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/lumenworks/contentkit/internal/metrics"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyUploader struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (s *spyUploader) Upload(_ context.Context, f models.File) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, f.Name)
	s.mu.Unlock()
	if err := s.fail[f.Name]; err != nil {
		return "", err
	}
	return "/" + f.Name, nil
}

func pending(name string) models.MediaRef {
	return models.MediaRef{}.WithPending(models.FileFromBytes(name, []byte(name)))
}

func TestResolve_replacesPending(t *testing.T) {
	doc := models.NewProduct()
	doc.HeroImageURL = models.StoredMedia("/old.png").WithPending(models.FileFromBytes("new.png", nil))
	doc.Features = []models.Feature{
		{Title: "a", Image: pending("f1.png")},
		{Title: "b", Image: models.StoredMedia("/kept.png")},
	}

	up := &spyUploader{}
	out, err := Resolve(context.Background(), NewResolver(up), doc)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"new.png", "f1.png"}, up.calls)
	assert.Equal(t, models.StoredMedia("/new.png"), out.HeroImageURL)
	assert.Equal(t, models.StoredMedia("/f1.png"), out.Features[0].Image)
	assert.Equal(t, models.StoredMedia("/kept.png"), out.Features[1].Image)
	assert.Empty(t, models.Unresolved(out))

	assert.Equal(t, models.MediaPending, doc.HeroImageURL.State(), "input document is not modified")

	body, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"heroImageUrl":"/new.png"`)
	assert.NotContains(t, string(body), "/old.png")
}

func TestResolve_allOrNothing(t *testing.T) {
	doc := models.NewProduct()
	doc.HeroImageURL = pending("one.png")
	doc.PlatformExamples[0].Image = pending("two.png")
	doc.PlatformExamples[1].Image = pending("three.png")

	boom := errors.New("storage rejected the file")
	up := &spyUploader{fail: map[string]error{"two.png": boom}}
	m := metrics.New(nil)

	out, err := Resolve(context.Background(), NewResolver(up, WithMetrics(m)), doc)
	require.Error(t, err)
	assert.Nil(t, out)
	require.ErrorIs(t, err, constants.ErrUploadFailed)
	require.ErrorIs(t, err, boom)

	var rerr *ResolveError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "two.png", rerr.File)
	assert.NotContains(t, rerr.Stored, "/two.png")

	assert.Len(t, models.Unresolved(doc), 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UploadsTotal.WithLabelValues("error")))
}

func TestResolve_idempotent(t *testing.T) {
	doc := models.NewProduct()
	doc.ID = "acme-crm"
	doc.HeroImageURL = models.StoredMedia("/hero.png")
	doc.Features = []models.Feature{{Title: "x"}}

	up := &spyUploader{}
	r := NewResolver(up)

	once, err := Resolve(context.Background(), r, doc)
	require.NoError(t, err)
	twice, err := Resolve(context.Background(), r, once)
	require.NoError(t, err)

	a, err := json.Marshal(once)
	require.NoError(t, err)
	b, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Empty(t, up.calls)
}

func TestResolve_finalizes(t *testing.T) {
	doc := models.NewProduct()
	doc.Features = []models.Feature{{Title: "a"}, {Title: "c"}}
	doc.PlatformExamples[2].Label = "reports"

	out, err := Resolve(context.Background(), NewResolver(&spyUploader{}), doc)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Features[0].Number)
	assert.Equal(t, 2, out.Features[1].Number)
	assert.Equal(t, "block-1", out.PlatformExamples[0].Label)
	assert.Equal(t, "reports", out.PlatformExamples[2].Label)
	assert.Empty(t, doc.PlatformExamples[0].Label)
}

func TestResolve_concurrent(t *testing.T) {
	const n = 4
	doc := models.NewProject()
	for i := 0; i < n; i++ {
		doc.ProblemImages = append(doc.ProblemImages, pending(string(rune('a'+i))+".png"))
	}

	var running, peak int32
	release := make(chan struct{})
	up := UploaderFunc(func(ctx context.Context, f models.File) (string, error) {
		cur := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		if cur == n {
			close(release)
		}
		<-release
		atomic.AddInt32(&running, -1)
		return "/" + f.Name, nil
	})

	out, err := Resolve(context.Background(), NewResolver(up), doc)
	require.NoError(t, err)
	assert.Equal(t, int32(n), atomic.LoadInt32(&peak))
	assert.Equal(t, "/a.png", out.PrimaryImage().Path())
}

func TestResolve_emptyPath(t *testing.T) {
	doc := models.NewBlogPost()
	doc.Image = pending("cover.png")
	up := UploaderFunc(func(context.Context, models.File) (string, error) { return "", nil })

	_, err := Resolve(context.Background(), NewResolver(up, WithLimit(1)), doc)
	require.ErrorIs(t, err, constants.ErrUploadFailed)
}
