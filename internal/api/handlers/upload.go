// upload.go — обработчик GET /signedUrlPut.
// Выдаёт клиенту presigned URL для прямой загрузки изображения поста.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/bigkaa/postgram/internal/api/contract"
	apierrors "github.com/bigkaa/postgram/internal/api/errors"
)

// GetSignedUrlPut — GET /signedUrlPut.
// Владелец берётся из заголовка authorization, при его отсутствии — из query.
func (h *APIHandler) GetSignedUrlPut(w http.ResponseWriter, r *http.Request, params contract.GetSignedUrlPutParams) {
	ownerID, ok := ownerFrom(params.Authorization)
	if !ok {
		ownerID, ok = ownerFrom(params.AuthorizationQuery)
	}
	if !ok {
		apierrors.Unauthorized(w, "Не передан идентификатор владельца (authorization)")
		return
	}

	cred, err := h.uploads.IssueUploadCredential(r.Context(), params.Filename, params.Filetype, params.PostId, ownerID)
	if err != nil {
		h.writeServiceError(w, err, "Ошибка выдачи URL загрузки",
			slog.String("owner_id", ownerID),
			slog.String("post_id", params.PostId),
		)
		return
	}

	writeJSON(w, http.StatusOK, contract.UploadCredential{
		UploadURL:  cred.UploadURL,
		ObjectName: cred.ObjectPath,
	})
}
