package post

import (
	"net/http"
	"strconv"

	"Posterr/internal/api/handlers"
	"Posterr/internal/core/posts"
)

// ListHandler handles post listing requests
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{
		service: service,
	}
}

// HandleList handles GET /posts
// Query: page (default 1), limit, filterByAuthor, startDate, endDate
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp, err := h.service.ListPosts(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}

func parseListRequest(r *http.Request) (posts.ListPostsRequest, error) {
	query := r.URL.Query()

	req := posts.ListPostsRequest{
		Page:           1,
		FilterByAuthor: query.Get("filterByAuthor"),
		StartDate:      query.Get("startDate"),
		EndDate:        query.Get("endDate"),
	}

	if pageStr := query.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil {
			return req, posts.NewValidationError("page", "page must be an integer")
		}
		req.Page = page
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return req, posts.NewValidationError("limit", "limit must be an integer")
		}
		req.Limit = limit
	}

	return req, nil
}
