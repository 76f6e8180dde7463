package contentd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lumenworks/contentkit"
	"github.com/lumenworks/contentkit/pkg/client"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/form"
	"github.com/lumenworks/contentkit/pkg/logger"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type ServerTestSuite struct {
	suite.Suite
	app    *App
	server *httptest.Server
	client *client.Client
	ctx    context.Context
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	s.ctx = context.Background()
	cfg := DefaultConfig()
	cfg.UploadDir = s.T().TempDir()
	cfg.AdminToken = "secret"

	app, err := newApp(cfg, &logger.LogData{Logger: zerolog.Nop()})
	s.Require().NoError(err)
	s.app = app
	s.server = httptest.NewServer(app.Handler())
	s.client = client.NewClient(s.server.URL)
	s.client.SetAuthToken("secret")
}

func (s *ServerTestSuite) TearDownTest() {
	s.server.Close()
	s.NoError(s.app.Close())
}

func (s *ServerTestSuite) TestHealth() {
	health, err := s.client.Health(s.ctx)
	s.Require().NoError(err)
	s.Equal("healthy", health["status"])
	s.Equal(BackendMemory, health["backend"])
}

func (s *ServerTestSuite) TestProductEditorRoundTrip() {
	ed := contentkit.NewProductEditor(s.client)
	s.Require().NoError(ed.Load(s.ctx))
	s.Empty(ed.Items())

	f := ed.Form()
	form.SetScalar(f, models.ProductID, "acme")
	form.SetScalar(f, models.ProductTitle, "Acme CRM")
	s.Require().True(f.SetPendingMedia(models.ProductHeroImage, models.FileFromBytes("hero.png", pngBytes)))

	created, err := ed.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal("acme", created.ID)
	s.NotNil(created.CreatedAt)
	s.True(strings.HasPrefix(created.HeroImageURL.Path(), "/uploads/"))
	s.True(strings.HasSuffix(created.HeroImageURL.Path(), ".png"))
	s.Len(created.PlatformExamples, constants.PlatformExampleSlots)

	resp, err := http.Get(s.server.URL + created.HeroImageURL.Path())
	s.Require().NoError(err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal(pngBytes, body)

	s.Require().NoError(ed.Open(s.ctx, "acme"))
	form.SetScalar(ed.Form(), models.ProductTitle, "Acme CRM 2")
	updated, err := ed.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal("Acme CRM 2", updated.Title)
	s.Equal(created.HeroImageURL.Path(), updated.HeroImageURL.Path())

	fresh := contentkit.NewProductEditor(s.client)
	s.Require().NoError(fresh.Load(s.ctx))
	s.Require().Len(fresh.Items(), 1)
	s.Equal("Acme CRM 2", fresh.Items()[0].Title)

	form.SetScalar(fresh.Form(), models.ProductID, "acme")
	_, err = fresh.Submit(s.ctx)
	s.ErrorIs(err, constants.ErrSaveFailed)
	s.ErrorIs(err, constants.ErrConflict)
	s.Equal("acme", fresh.Form().Document().ID, "a failed save keeps the form")

	s.Require().NoError(ed.Delete(s.ctx, "acme"))
	_, err = s.client.GetProduct(s.ctx, "acme")
	s.ErrorIs(err, constants.ErrNotFound)
}

func (s *ServerTestSuite) TestProjectsBySlug() {
	ed := contentkit.NewProjectEditor(s.client)
	form.SetScalar(ed.Form(), models.ProjectSlug, "alpha")
	form.SetScalar(ed.Form(), models.ProjectTitle, "Alpha")
	created, err := ed.Submit(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(created.ID)

	got, err := s.client.GetProject(s.ctx, "alpha")
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)

	s.Require().NoError(ed.Open(s.ctx, created.ID))
	form.SetScalar(ed.Form(), models.ProjectSlug, "alpha-2")
	updated, err := ed.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(created.ID, updated.ID)
	s.Require().Len(ed.Items(), 1)

	s.Require().NoError(ed.Delete(s.ctx, created.ID))
	list, err := s.client.ListProjects(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServerTestSuite) TestBlogPosts() {
	ed := contentkit.NewBlogEditor(s.client)
	form.SetScalar(ed.Form(), models.BlogTitle, "Hello")
	created, err := ed.Submit(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(created.ID)

	s.Require().NoError(ed.Open(s.ctx, created.ID))
	form.SetScalar(ed.Form(), models.BlogTitle, "Hello again")
	_, err = ed.Submit(s.ctx)
	s.Require().NoError(err)

	got, err := s.client.GetBlogPost(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Hello again", got.Title)

	err = ed.Delete(s.ctx, created.ID)
	s.ErrorIs(err, constants.ErrMethodNotAvailable)

	req, _ := http.NewRequest(http.MethodDelete, s.server.URL+constants.BlogPath+"/"+created.ID, nil)
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
}

func (s *ServerTestSuite) TestUploadRejectsUnsupportedMedia() {
	_, err := s.client.Upload(s.ctx, models.FileFromBytes("notes.txt", []byte("plain text")))
	s.ErrorIs(err, constants.ErrUnsupportedMedia)
}

func (s *ServerTestSuite) TestAdminToken() {
	anon := client.NewClient(s.server.URL)
	_, err := anon.CreateProduct(s.ctx, &models.Product{ID: "x"})
	var apiErr *client.APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusUnauthorized, apiErr.StatusCode)

	list, err := anon.ListProducts(s.ctx)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServerTestSuite) TestReadOnlyMode() {
	s.setReadOnly(true)
	_, err := s.client.CreateProduct(s.ctx, &models.Product{ID: "x"})
	s.ErrorIs(err, constants.ErrReadOnly)
	_, err = s.client.Upload(s.ctx, models.FileFromBytes("a.png", pngBytes))
	s.ErrorIs(err, constants.ErrReadOnly)

	s.setReadOnly(false)
	_, err = s.client.CreateProduct(s.ctx, &models.Product{ID: "x"})
	s.NoError(err)
}

func (s *ServerTestSuite) setReadOnly(on bool) {
	body, _ := json.Marshal(readOnlyState{ReadOnly: on})
	req, _ := http.NewRequest(http.MethodPut, s.server.URL+"/api/admin/read-only", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Equal(on, s.app.IsReadOnly())
}

func (s *ServerTestSuite) TestChangeFeed() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	events, err := s.client.Watch(ctx)
	s.Require().NoError(err)
	s.Eventually(func() bool { return s.app.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = s.client.CreateProduct(s.ctx, &models.Product{ID: "acme"})
	s.Require().NoError(err)
	s.Require().NoError(s.client.DeleteProduct(s.ctx, "acme"))

	var got []models.ChangeEvent
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-ctx.Done():
			s.FailNow("timed out waiting for events")
		}
	}
	s.Equal(models.OpCreated, got[0].Op)
	s.Equal(models.OpDeleted, got[1].Op)
	s.Equal(models.KindProduct, got[1].Kind)
	s.Equal("acme", got[1].Key)

	ed := contentkit.NewProductEditor(s.client)
	followCtx, stop := context.WithCancel(s.ctx)
	defer stop()
	feed := make(chan models.ChangeEvent, 1)
	done := make(chan error, 1)
	go func() { done <- ed.Follow(followCtx, feed) }()

	_, err = s.client.CreateProduct(s.ctx, &models.Product{ID: "beta"})
	s.Require().NoError(err)
	feed <- models.ChangeEvent{Kind: models.KindProduct, Op: models.OpCreated, Key: "beta"}
	s.Eventually(func() bool { return len(ed.Items()) == 1 }, 2*time.Second, 10*time.Millisecond)
	stop()
	s.ErrorIs(<-done, context.Canceled)
}

func (s *ServerTestSuite) TestMetrics() {
	_, err := s.client.ListProducts(s.ctx)
	s.Require().NoError(err)

	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	s.Contains(string(body), `contentkit_http_requests_total{code="200",method="GET",route="/api/product"}`)
	s.Contains(string(body), "contentkit_store_operations_total")
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		constants.ErrNotFound:         http.StatusNotFound,
		constants.ErrConflict:         http.StatusConflict,
		constants.ErrReadOnly:         http.StatusServiceUnavailable,
		constants.ErrMissingID:        http.StatusBadRequest,
		constants.ErrUnsupportedMedia: http.StatusUnsupportedMediaType,
		io.ErrUnexpectedEOF:           http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Errorf("statusFor(%v) = %d, want %d", err, got, want)
		}
	}
}
