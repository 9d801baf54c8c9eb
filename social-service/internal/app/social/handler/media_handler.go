package handler

import (
	"errors"
	"net/http"

	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/service"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	media service.MediaServiceInterface
}

func NewMediaHandler(media service.MediaServiceInterface) *MediaHandler {
	return &MediaHandler{media: media}
}

// Upload принимает multipart форму: file и kind (avatar | idea)
func (h *MediaHandler) Upload(c *gin.Context) {
	// запас на поля формы сверх самого файла
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.media.MaxFileBytes()+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, service.ErrFileTooLarge, "Failed to upload media")
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	kind := entity.MediaKind(c.DefaultPostForm("kind", string(entity.MediaIdea)))

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer file.Close()

	result, err := h.media.Upload(
		c.Request.Context(),
		currentUserID(c),
		kind,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		respondError(c, err, "Failed to upload media")
		return
	}

	c.JSON(http.StatusCreated, result)
}
