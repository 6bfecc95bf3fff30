// api/controller/post_controller_test.go
package controller_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/postly/api/controller"
	postly_errors "github.com/postly/api/errors"
	"github.com/postly/api/model"
	"github.com/postly/api/util"
)

const (
	testUserID = "662fbb3dfd353f1a946a8a2e"
	testPostID = "662fbb3dfd353f1a946a8a2f"
)

type stubPostService struct {
	list          func(userID string, opts model.ListOptions) (*model.PaginationData, error)
	create        func(userID string, input model.PostInput) (string, error)
	get           func(userID, postID string) (*model.PostView, error)
	toggleLike    func(userID, postID string) (int, bool, error)
	registerView  func(userID, postID string) error
	toggleArchive func(userID, postID string) (bool, error)
}

func (s *stubPostService) ListPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error) {
	return s.list(userID, opts)
}

func (s *stubPostService) ListCreatedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error) {
	return s.list(userID, opts)
}

func (s *stubPostService) ListLikedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error) {
	return s.list(userID, opts)
}

func (s *stubPostService) ListArchivedPosts(ctx context.Context, userID string, opts model.ListOptions) (*model.PaginationData, error) {
	return s.list(userID, opts)
}

func (s *stubPostService) CreatePost(ctx context.Context, userID string, input model.PostInput) (string, error) {
	return s.create(userID, input)
}

func (s *stubPostService) GetPost(ctx context.Context, userID, postID string) (*model.PostView, error) {
	return s.get(userID, postID)
}

func (s *stubPostService) ToggleLike(ctx context.Context, userID, postID string) (int, bool, error) {
	return s.toggleLike(userID, postID)
}

func (s *stubPostService) RegisterView(ctx context.Context, userID, postID string) error {
	return s.registerView(userID, postID)
}

func (s *stubPostService) ToggleArchive(ctx context.Context, userID, postID string) (bool, error) {
	return s.toggleArchive(userID, postID)
}

func setupPostRouter(stub *stubPostService) *gin.Engine {
	router := gin.New()
	api := router.Group("/api", identity(testUserID))
	postController := controller.NewPostController(stub, util.NewValidationUtil())
	postController.RegisterRoutes(api)
	return router
}

func TestListPostsEndpoint(t *testing.T) {
	stub := &stubPostService{
		list: func(userID string, opts model.ListOptions) (*model.PaginationData, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, 3, opts.Page)
			assert.Equal(t, "golang", opts.SearchQuery)
			return &model.PaginationData{Page: 3, Limit: 16, TotalPages: 5, Data: []model.PostView{}}, nil
		},
	}
	router := setupPostRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/posts?page=3&searchQuery=golang", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp util.APIResponse
	assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Success)
}

func TestCreatePostEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		stub := &stubPostService{
			create: func(userID string, input model.PostInput) (string, error) {
				assert.Equal(t, "engineering", input.Category)
				return testPostID, nil
			},
		}
		router := setupPostRouter(stub)

		payload := map[string]string{
			"category": "engineering",
			"title":    "A valid title",
			"content":  strings.Repeat("c", 150),
		}
		raw, _ := json.Marshal(payload)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/posts", strings.NewReader(string(raw)))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), testPostID)
	})

	t.Run("ContentTooShort", func(t *testing.T) {
		router := setupPostRouter(&stubPostService{})

		payload := map[string]string{
			"category": "engineering",
			"title":    "A valid title",
			"content":  "too short",
		}
		raw, _ := json.Marshal(payload)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/posts", strings.NewReader(string(raw)))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetPostEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		stub := &stubPostService{
			get: func(userID, postID string) (*model.PostView, error) {
				assert.Equal(t, testPostID, postID)
				return &model.PostView{ID: postID, Title: "A valid title"}, nil
			},
		}
		router := setupPostRouter(stub)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/posts/"+testPostID, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MalformedID", func(t *testing.T) {
		router := setupPostRouter(&stubPostService{})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/posts/not-an-id", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Archived", func(t *testing.T) {
		stub := &stubPostService{
			get: func(userID, postID string) (*model.PostView, error) {
				return nil, postly_errors.ErrPostArchived
			},
		}
		router := setupPostRouter(stub)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/posts/"+testPostID, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestToggleLikeEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		stub := &stubPostService{
			toggleLike: func(userID, postID string) (int, bool, error) {
				return 4, true, nil
			},
		}
		router := setupPostRouter(stub)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/posts/"+testPostID+"/like", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"likes":4`)
	})

	t.Run("OwnPost", func(t *testing.T) {
		stub := &stubPostService{
			toggleLike: func(userID, postID string) (int, bool, error) {
				return 0, false, postly_errors.ErrOwnPost
			},
		}
		router := setupPostRouter(stub)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/posts/"+testPostID+"/like", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRegisterViewEndpoint(t *testing.T) {
	t.Run("AlreadyViewed", func(t *testing.T) {
		stub := &stubPostService{
			registerView: func(userID, postID string) error {
				return postly_errors.ErrAlreadyViewed
			},
		}
		router := setupPostRouter(stub)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/posts/"+testPostID+"/view", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestToggleArchiveEndpoint(t *testing.T) {
	t.Run("NotOwner", func(t *testing.T) {
		stub := &stubPostService{
			toggleArchive: func(userID, postID string) (bool, error) {
				return false, postly_errors.ErrNotPostOwner
			},
		}
		router := setupPostRouter(stub)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/posts/"+testPostID+"/archive", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
