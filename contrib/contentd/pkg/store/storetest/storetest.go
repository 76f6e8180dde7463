// Package storetest holds the behavior every store.Backend must show, as a
// test suite backend packages run against their own implementation.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lumenworks/contentkit/contrib/contentd/pkg/store"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
	"github.com/stretchr/testify/suite"
)

// BackendSuite exercises a Backend. NewBackend is called once per test and
// must return an empty backend.
type BackendSuite struct {
	suite.Suite
	NewBackend func(t *testing.T) store.Backend

	backend store.Backend
	ctx     context.Context
	seq     int
}

// Run runs the suite against the backends newBackend returns.
func Run(t *testing.T, newBackend func(t *testing.T) store.Backend) {
	suite.Run(t, &BackendSuite{NewBackend: newBackend})
}

func (s *BackendSuite) SetupTest() {
	s.ctx = context.Background()
	s.backend = s.NewBackend(s.T())
	s.Require().NoError(s.backend.Migrate(s.ctx))
}

func (s *BackendSuite) TearDownTest() {
	s.NoError(s.backend.Close())
}

func (s *BackendSuite) record(kind models.Kind, id, slug string) store.Record {
	s.seq++
	at := time.Date(2024, 1, 1, 0, 0, s.seq, 0, time.UTC)
	return store.Record{
		Kind:      kind,
		ID:        id,
		Slug:      slug,
		Data:      []byte(fmt.Sprintf(`{"id":%q}`, id)),
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func (s *BackendSuite) TestInsertGet() {
	rec := s.record(models.KindProduct, "acme", "")
	s.Require().NoError(s.backend.Insert(s.ctx, rec))

	got, err := s.backend.Get(s.ctx, models.KindProduct, "acme")
	s.Require().NoError(err)
	s.Equal(rec.ID, got.ID)
	s.Equal(rec.Kind, got.Kind)
	s.JSONEq(string(rec.Data), string(got.Data))
	s.True(rec.CreatedAt.Equal(got.CreatedAt))

	_, err = s.backend.Get(s.ctx, models.KindProject, "acme")
	s.ErrorIs(err, constants.ErrNotFound)
}

func (s *BackendSuite) TestInsertConflict() {
	s.Require().NoError(s.backend.Insert(s.ctx, s.record(models.KindProduct, "acme", "")))
	err := s.backend.Insert(s.ctx, s.record(models.KindProduct, "acme", ""))
	s.ErrorIs(err, constants.ErrConflict)
	s.NoError(s.backend.Insert(s.ctx, s.record(models.KindBlog, "acme", "")))
}

func (s *BackendSuite) TestListOrder() {
	for _, id := range []string{"m", "a", "z"} {
		s.Require().NoError(s.backend.Insert(s.ctx, s.record(models.KindProject, id, "slug-"+id)))
	}
	recs, err := s.backend.List(s.ctx, models.KindProject)
	s.Require().NoError(err)
	var ids []string
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	s.Equal([]string{"m", "a", "z"}, ids)

	recs, err = s.backend.List(s.ctx, models.KindBlog)
	s.Require().NoError(err)
	s.Empty(recs)
}

func (s *BackendSuite) TestFindBySlug() {
	s.Require().NoError(s.backend.Insert(s.ctx, s.record(models.KindProject, "p1", "alpha")))
	got, err := s.backend.FindBySlug(s.ctx, models.KindProject, "alpha")
	s.Require().NoError(err)
	s.Equal("p1", got.ID)

	_, err = s.backend.FindBySlug(s.ctx, models.KindProject, "beta")
	s.ErrorIs(err, constants.ErrNotFound)
	_, err = s.backend.FindBySlug(s.ctx, models.KindBlog, "alpha")
	s.ErrorIs(err, constants.ErrNotFound)
}

func (s *BackendSuite) TestSlugConflict() {
	s.Require().NoError(s.backend.Insert(s.ctx, s.record(models.KindProject, "p1", "alpha")))

	err := s.backend.Insert(s.ctx, s.record(models.KindProject, "p2", "alpha"))
	s.ErrorIs(err, constants.ErrConflict)
	_, err = s.backend.Get(s.ctx, models.KindProject, "p2")
	s.ErrorIs(err, constants.ErrNotFound)

	s.NoError(s.backend.Insert(s.ctx, s.record(models.KindBlog, "b1", "alpha")), "slugs are unique per kind")
	s.NoError(s.backend.Insert(s.ctx, s.record(models.KindProduct, "x", "")))
	s.NoError(s.backend.Insert(s.ctx, s.record(models.KindProduct, "y", "")), "empty slugs never clash")

	s.Require().NoError(s.backend.Insert(s.ctx, s.record(models.KindProject, "p2", "beta")))
	err = s.backend.Replace(s.ctx, s.record(models.KindProject, "p2", "alpha"))
	s.ErrorIs(err, constants.ErrConflict)
	got, err := s.backend.Get(s.ctx, models.KindProject, "p2")
	s.Require().NoError(err)
	s.Equal("beta", got.Slug)

	s.NoError(s.backend.Replace(s.ctx, s.record(models.KindProject, "p1", "alpha")), "a record keeps its own slug")
}

func (s *BackendSuite) TestReplace() {
	rec := s.record(models.KindProject, "p1", "alpha")
	s.Require().NoError(s.backend.Insert(s.ctx, rec))

	next := s.record(models.KindProject, "p1", "beta")
	next.Data = []byte(`{"title":"new"}`)
	s.Require().NoError(s.backend.Replace(s.ctx, next))

	got, err := s.backend.Get(s.ctx, models.KindProject, "p1")
	s.Require().NoError(err)
	s.Equal("beta", got.Slug)
	s.JSONEq(`{"title":"new"}`, string(got.Data))
	s.True(rec.CreatedAt.Equal(got.CreatedAt), "creation time is kept")
	s.True(next.UpdatedAt.Equal(got.UpdatedAt))

	err = s.backend.Replace(s.ctx, s.record(models.KindProject, "missing", ""))
	s.ErrorIs(err, constants.ErrNotFound)
}

func (s *BackendSuite) TestDelete() {
	s.Require().NoError(s.backend.Insert(s.ctx, s.record(models.KindBlog, "b1", "")))
	s.Require().NoError(s.backend.Delete(s.ctx, models.KindBlog, "b1"))
	s.ErrorIs(s.backend.Delete(s.ctx, models.KindBlog, "b1"), constants.ErrNotFound)
	_, err := s.backend.Get(s.ctx, models.KindBlog, "b1")
	s.ErrorIs(err, constants.ErrNotFound)
}
