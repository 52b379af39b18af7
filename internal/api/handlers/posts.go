// posts.go — обработчики /posts endpoints.
// Создание, список, получение и удаление постов.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bigkaa/postgram/internal/api/contract"
	apierrors "github.com/bigkaa/postgram/internal/api/errors"
	"github.com/bigkaa/postgram/internal/domain/model"
)

// ListPosts — GET /posts.
// С параметром user — посты владельца, без него — все посты.
func (h *APIHandler) ListPosts(w http.ResponseWriter, r *http.Request, params contract.ListPostsParams) {
	ownerID := ""
	if params.User != nil {
		ownerID = *params.User
	}

	posts, err := h.posts.List(r.Context(), ownerID)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка получения списка постов", slog.String("owner_id", ownerID))
		return
	}

	items := make([]contract.Post, 0, len(posts))
	for _, p := range posts {
		items = append(items, h.toContract(r.Context(), p))
	}
	writeJSON(w, http.StatusOK, items)
}

// CreatePost — POST /posts.
func (h *APIHandler) CreatePost(w http.ResponseWriter, r *http.Request, params contract.CreatePostParams) {
	ownerID, ok := ownerFrom(params.Authorization)
	if !ok {
		apierrors.Unauthorized(w, "Не передан заголовок authorization")
		return
	}

	var req contract.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.ValidationError(w, "Некорректный JSON: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		apierrors.ValidationError(w, "Некорректный запрос: "+err.Error())
		return
	}

	post, err := h.posts.Create(r.Context(), ownerID, req.Title, req.Body)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка создания поста", slog.String("owner_id", ownerID))
		return
	}

	writeJSON(w, http.StatusCreated, h.toContract(r.Context(), post))
}

// GetPost — GET /posts/{post_id}.
func (h *APIHandler) GetPost(w http.ResponseWriter, r *http.Request, postID string, params contract.GetPostParams) {
	ownerID, ok := ownerFrom(params.Authorization)
	if !ok {
		apierrors.Unauthorized(w, "Не передан заголовок authorization")
		return
	}

	post, err := h.posts.Get(r.Context(), ownerID, postID)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка получения поста", slog.String("post_id", postID))
		return
	}

	writeJSON(w, http.StatusOK, h.toContract(r.Context(), post))
}

// DeletePost — DELETE /posts/{post_id}.
// Возвращает пост в состоянии до удаления.
func (h *APIHandler) DeletePost(w http.ResponseWriter, r *http.Request, postID string, params contract.DeletePostParams) {
	ownerID, ok := ownerFrom(params.Authorization)
	if !ok {
		apierrors.Unauthorized(w, "Не передан заголовок authorization")
		return
	}

	post, err := h.posts.Delete(r.Context(), ownerID, postID)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка удаления поста", slog.String("post_id", postID))
		return
	}

	// Объект изображения уже удалён, URL чтения не выдаётся
	writeJSON(w, http.StatusOK, toContractPost(post))
}

// toContract преобразует доменную модель в формат API с URL чтения изображения.
func (h *APIHandler) toContract(ctx context.Context, p *model.Post) contract.Post {
	out := toContractPost(p)
	if out.ImageS3Key != nil {
		out.ImageUrl = h.readURLs.ReadURL(ctx, *out.ImageS3Key)
	}
	return out
}

// toContractPost преобразует доменную модель в формат API без image_url.
func toContractPost(p *model.Post) contract.Post {
	labels := p.Labels
	if labels == nil {
		labels = []string{}
	}

	out := contract.Post{
		User:   p.OwnerID,
		Id:     p.PostID,
		Title:  p.Title,
		Body:   p.Body,
		Labels: labels,
	}
	if p.HasImage() {
		out.ImageS3Key = p.Image
	}
	return out
}
