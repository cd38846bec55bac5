package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/accountability-buddy/api/internal/models"
	"github.com/accountability-buddy/api/internal/services"
	"github.com/gorilla/mux"
)

// FeedHandler handles HTTP requests for the blog and book feed.
type FeedHandler struct {
	Service *services.FeedService
}

// NewFeedHandler creates a new instance of FeedHandler.
func NewFeedHandler(service *services.FeedService) *FeedHandler {
	return &FeedHandler{Service: service}
}

// CreatePostHandler publishes a blog post.
func (h *FeedHandler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var post models.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.CreatePost(r.Context(), userID, &post)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetFeedHandler lists the latest blog posts.
func (h *FeedHandler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	feed, err := h.Service.GetFeed(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, feed)
}

// GetPostHandler fetches a single blog post.
func (h *FeedHandler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	post, err := h.Service.GetPost(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, post)
}

// LikePostHandler records a like on a post.
func (h *FeedHandler) LikePostHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.Service.LikePost(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Post liked"})
}

// RecommendBookHandler publishes a book recommendation.
func (h *FeedHandler) RecommendBookHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var book models.BookRecommendation
	if err := json.NewDecoder(r.Body).Decode(&book); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	created, err := h.Service.RecommendBook(r.Context(), userID, &book)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetBooksHandler lists the latest book recommendations.
func (h *FeedHandler) GetBooksHandler(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)

	books, err := h.Service.GetBooks(r.Context(), limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, books)
}
