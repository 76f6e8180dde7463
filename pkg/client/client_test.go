package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewTestClient returns *http.Client with Transport replaced to avoid making real calls
func NewTestClient(fn RoundTripFunc) *http.Client {
	return &http.Client{
		Transport: fn,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

type ClientTestSuite struct {
	suite.Suite
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) newClient(fn RoundTripFunc) *Client {
	c := NewClient("http://cms.test/")
	c.SetHTTPClient(NewTestClient(fn))
	return c
}

func (s *ClientTestSuite) TestCreateProduct() {
	c := s.newClient(func(req *http.Request) *http.Response {
		s.Equal(http.MethodPost, req.Method)
		s.Equal("http://cms.test/api/product", req.URL.String())
		s.Equal("application/json", req.Header.Get("Content-Type"))

		var body map[string]any
		s.Require().NoError(json.NewDecoder(req.Body).Decode(&body))
		s.Equal("acme-crm", body["id"])
		s.Equal("Acme CRM", body["title"])
		return jsonResponse(http.StatusCreated, `{"id":"acme-crm","title":"Acme CRM","createdAt":"2024-03-01T10:00:00Z"}`)
	})

	p := models.NewProduct()
	p.ID, p.Title = "acme-crm", "Acme CRM"
	created, err := c.Products().Create(context.Background(), p)
	s.Require().NoError(err)
	s.Equal("acme-crm", created.ID)
	s.Require().NotNil(created.CreatedAt)
}

func (s *ClientTestSuite) TestUpdateAndDeleteProduct() {
	var seen []string
	c := s.newClient(func(req *http.Request) *http.Response {
		seen = append(seen, req.Method+" "+req.URL.Path)
		if req.Method == http.MethodDelete {
			return jsonResponse(http.StatusNoContent, "")
		}
		return jsonResponse(http.StatusOK, `{"id":"a b"}`)
	})

	_, err := c.UpdateProduct(context.Background(), "a b", &models.Product{ID: "a b"})
	s.Require().NoError(err)
	s.Require().NoError(c.Products().Remove(context.Background(), &models.Product{ID: "a b"}))
	s.Equal([]string{"PUT /api/product/a b", "DELETE /api/product/a b"}, seen)
}

func (s *ClientTestSuite) TestProjectGateway() {
	var bodies []map[string]any
	c := s.newClient(func(req *http.Request) *http.Response {
		switch req.Method {
		case http.MethodPost:
			var body map[string]any
			s.Require().NoError(json.NewDecoder(req.Body).Decode(&body))
			bodies = append(bodies, body)
			return jsonResponse(http.StatusOK, `{"id":"p-1","slug":"acme"}`)
		case http.MethodDelete:
			s.Equal("/api/projects/acme", req.URL.Path)
			return jsonResponse(http.StatusOK, `{"success":true}`)
		}
		s.Fail("unexpected request", req.Method)
		return jsonResponse(http.StatusMethodNotAllowed, "")
	})
	g := c.Projects()
	ctx := context.Background()

	p := &models.Project{ID: "stale", Slug: "acme"}
	_, err := g.Create(ctx, p)
	s.Require().NoError(err)
	_, err = g.Update(ctx, "p-1", p)
	s.Require().NoError(err)
	s.Require().NoError(g.Remove(ctx, &models.Project{ID: "p-1", Slug: "acme"}))

	s.Require().Len(bodies, 2)
	s.NotContains(bodies[0], "id", "create sends no id")
	s.Equal("p-1", bodies[1]["id"])
	s.Equal("stale", p.ID, "caller document is not modified")

	_, err = g.Update(ctx, "", p)
	s.ErrorIs(err, constants.ErrMissingID)
}

func (s *ClientTestSuite) TestBlogGateway() {
	c := s.newClient(func(req *http.Request) *http.Response {
		s.Equal(http.MethodPut, req.Method)
		s.Equal("/api/blog", req.URL.Path)
		return jsonResponse(http.StatusOK, `{"id":"b1","title":"Hello"}`)
	})
	b, err := c.BlogPosts().Update(context.Background(), "b1", &models.BlogPost{Title: "Hello"})
	s.Require().NoError(err)
	s.Equal("b1", b.ID)

	s.ErrorIs(c.BlogPosts().Remove(context.Background(), b), constants.ErrMethodNotAvailable)
}

func (s *ClientTestSuite) TestAPIError() {
	c := s.newClient(func(req *http.Request) *http.Response {
		switch req.URL.Path {
		case "/api/product/missing":
			return jsonResponse(http.StatusNotFound, `{"error":"record not found"}`)
		default:
			return jsonResponse(http.StatusConflict, "taken")
		}
	})

	_, err := c.GetProduct(context.Background(), "missing")
	var apiErr *APIError
	s.Require().ErrorAs(err, &apiErr)
	s.Equal(http.StatusNotFound, apiErr.StatusCode)
	s.Equal("record not found", apiErr.Message)
	s.ErrorIs(err, constants.ErrNotFound)

	_, err = c.CreateProduct(context.Background(), &models.Product{ID: "x"})
	s.ErrorIs(err, constants.ErrConflict)
	s.Contains(err.Error(), "taken")
}

func (s *ClientTestSuite) TestPendingMediaIsNeverSent() {
	c := s.newClient(func(req *http.Request) *http.Response {
		s.Fail("request must not be sent")
		return jsonResponse(http.StatusOK, "{}")
	})
	p := models.NewProduct()
	p.HeroImageURL = p.HeroImageURL.WithPending(models.FileFromBytes("hero.png", nil))

	_, err := c.CreateProduct(context.Background(), p)
	s.ErrorIs(err, constants.ErrPendingMedia)
}

func (s *ClientTestSuite) TestUpload() {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	c := s.newClient(func(req *http.Request) *http.Response {
		s.Equal("/api/upload", req.URL.Path)
		s.Require().NoError(req.ParseMultipartForm(1 << 20))
		file, header, err := req.FormFile(constants.UploadFormField)
		s.Require().NoError(err)
		defer file.Close()
		s.Equal("hero.png", header.Filename)
		s.Equal("image/png", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		s.Equal(png, data)
		return jsonResponse(http.StatusOK, `{"path":"/uploads/hero.png"}`)
	})

	path, err := c.Upload(context.Background(), models.FileFromBytes("hero.png", png))
	s.Require().NoError(err)
	s.Equal("/uploads/hero.png", path)
}

func (s *ClientTestSuite) TestUploadRejected() {
	c := s.newClient(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusUnsupportedMediaType, `{"error":"unsupported media type"}`)
	})
	_, err := c.Upload(context.Background(), models.FileFromBytes("notes.txt", []byte("hello")))
	s.ErrorIs(err, constants.ErrUnsupportedMedia)
}

func (s *ClientTestSuite) TestNoBaseURL() {
	_, err := NewClient("").ListProducts(context.Background())
	s.ErrorIs(err, constants.ErrNoBaseURL)
}

func TestWatch(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, constants.EventsPath, r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		_ = conn.WriteJSON(models.ChangeEvent{Kind: models.KindProject, Op: models.OpCreated, Key: "p-1"})
		time.Sleep(50 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	c.SetAuthToken("secret")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := c.Watch(ctx)
	require.NoError(t, err)

	select {
	case ev := <-events:
		require.Equal(t, models.KindProject, ev.Kind)
		require.Equal(t, "p-1", ev.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	for range events {
	}
}

func TestWatchReconnecting(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var dials atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := dials.Add(1)
		if n == 1 {
			http.Error(w, "not yet", http.StatusServiceUnavailable)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		_ = conn.WriteJSON(models.ChangeEvent{Kind: models.KindProduct, Op: models.OpUpdated, Key: fmt.Sprint(n)})
		time.Sleep(20 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := NewClient(srv.URL).WatchReconnecting(ctx, &FixedDelay{Delay: 10 * time.Millisecond})

	var got []models.ChangeEvent
	for len(got) < 5 {
		select {
		case ev := <-events:
			got = append(got, ev)
		case <-ctx.Done():
			t.Fatalf("timed out after %v", got)
		}
	}
	require.Equal(t, models.OpResync, got[0].Op, "the failed first dial counts as a gap")
	require.Equal(t, models.KindProduct, got[0].Kind)
	require.Equal(t, models.KindProject, got[1].Kind)
	require.Equal(t, models.KindBlog, got[2].Kind)
	require.Equal(t, "2", got[3].Key)
	require.Equal(t, models.OpResync, got[4].Op)

	cancel()
	for range events {
	}
}

func TestWatchReconnectingGivesUp(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	events := NewClient(srv.URL).WatchReconnecting(context.Background(), &FixedDelay{Delay: time.Millisecond, MaxRetries: 2})
	select {
	case _, ok := <-events:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed not closed")
	}
}

func TestBackoff(t *testing.T) {
	b := &Backoff{InitialDelay: 100 * time.Millisecond, MaxDelay: time.Second, Multiplier: 2, MaxRetries: 5}
	for attempt, want := range []time.Duration{100, 200, 400, 800, 1000} {
		d, ok := b.NextDelay(attempt, nil)
		require.True(t, ok)
		require.Equal(t, want*time.Millisecond, d)
	}
	_, ok := b.NextDelay(5, nil)
	require.False(t, ok)

	j := NewBackoff()
	for i := 0; i < 20; i++ {
		d, _ := j.NextDelay(0, nil)
		require.InDelta(t, float64(time.Second), float64(d), float64(200*time.Millisecond))
	}
}
