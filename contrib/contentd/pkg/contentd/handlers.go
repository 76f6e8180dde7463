package contentd

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lumenworks/contentkit/contrib/contentd/pkg/upload"
	"github.com/lumenworks/contentkit/pkg/constants"
	"github.com/lumenworks/contentkit/pkg/models"
)

const maxBodyBytes = 10 << 20

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondError(w, http.StatusRequestEntityTooLarge, err.Error())
			return false
		}
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && !errors.Is(err, constants.ErrReadOnly) {
		a.logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	respondError(w, status, err.Error())
}

func (a *App) announce(kind models.Kind, op models.ChangeOp, key string) {
	a.hub.Publish(models.ChangeEvent{Kind: kind, Op: op, Key: key, At: time.Now().UTC()})
}

// Products

func (a *App) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.store.ListProducts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (a *App) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := a.store.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

func (a *App) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !a.decode(w, r, &product) {
		return
	}
	created, err := a.store.CreateProduct(r.Context(), &product)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.announce(models.KindProduct, models.OpCreated, created.ID)
	respondJSON(w, http.StatusCreated, created)
}

func (a *App) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !a.decode(w, r, &product) {
		return
	}
	updated, err := a.store.UpdateProduct(r.Context(), mux.Vars(r)["id"], &product)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.announce(models.KindProduct, models.OpUpdated, updated.ID)
	respondJSON(w, http.StatusOK, updated)
}

func (a *App) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.store.DeleteProduct(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.announce(models.KindProduct, models.OpDeleted, id)
	respondJSON(w, http.StatusNoContent, nil)
}

// Projects

func (a *App) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.store.ListProjects(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func (a *App) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := a.store.GetProjectBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// handleSaveProject creates the project when the body carries no id and
// updates it otherwise.
func (a *App) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if !a.decode(w, r, &project) {
		return
	}
	saved, created, err := a.store.SaveProject(r.Context(), &project)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if created {
		a.announce(models.KindProject, models.OpCreated, saved.ID)
		respondJSON(w, http.StatusCreated, saved)
		return
	}
	a.announce(models.KindProject, models.OpUpdated, saved.ID)
	respondJSON(w, http.StatusOK, saved)
}

func (a *App) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	deleted, err := a.store.DeleteProjectBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.announce(models.KindProject, models.OpDeleted, deleted.ID)
	respondJSON(w, http.StatusNoContent, nil)
}

// Blog posts

func (a *App) handleListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := a.store.ListBlogPosts(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (a *App) handleGetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := a.store.GetBlogPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (a *App) handleCreateBlogPost(w http.ResponseWriter, r *http.Request) {
	var post models.BlogPost
	if !a.decode(w, r, &post) {
		return
	}
	created, err := a.store.CreateBlogPost(r.Context(), &post)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.announce(models.KindBlog, models.OpCreated, created.ID)
	respondJSON(w, http.StatusCreated, created)
}

func (a *App) handleUpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	var post models.BlogPost
	if !a.decode(w, r, &post) {
		return
	}
	updated, err := a.store.UpdateBlogPost(r.Context(), &post)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.announce(models.KindBlog, models.OpUpdated, updated.ID)
	respondJSON(w, http.StatusOK, updated)
}

// Uploads

func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	if a.IsReadOnly() {
		a.fail(w, r, constants.ErrReadOnly)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.uploads.MaxBytes()+1<<20)
	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, http.StatusBadRequest, "Expected a multipart/form-data body")
		return
	}
	for {
		part, err := mr.NextPart()
		if err != nil {
			respondError(w, http.StatusBadRequest, "Missing form field "+constants.UploadFormField)
			return
		}
		if part.FormName() != constants.UploadFormField {
			part.Close()
			continue
		}
		path, err := a.uploads.Save(r.Context(), part.FileName(), part)
		part.Close()
		if err != nil {
			a.fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]string{"path": path})
		return
	}
}

// Admin

type readOnlyState struct {
	ReadOnly bool `json:"readOnly"`
}

func (a *App) handleGetReadOnly(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, readOnlyState{ReadOnly: a.IsReadOnly()})
}

func (a *App) handleSetReadOnly(w http.ResponseWriter, r *http.Request) {
	var state readOnlyState
	if !a.decode(w, r, &state) {
		return
	}
	a.SetReadOnly(state.ReadOnly)
	respondJSON(w, http.StatusOK, state)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"backend":  a.config.Backend,
		"readOnly": a.IsReadOnly(),
		"clients":  a.hub.Clients(),
	})
}

// statusFor maps store and upload errors onto HTTP statuses.
func statusFor(err error) int {
	var tooLarge *upload.TooLargeError
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, constants.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, constants.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, constants.ErrReadOnly):
		return http.StatusServiceUnavailable
	case errors.Is(err, constants.ErrMissingID), errors.Is(err, constants.ErrImmutableID):
		return http.StatusBadRequest
	case errors.Is(err, constants.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &tooLarge), errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_, _ = w.Write(response)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
