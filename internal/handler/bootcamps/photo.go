package bootcamps

import (
	"net/http"
	"path/filepath"
	"strings"

	"devcamper/internal/apperr"
	"devcamper/internal/database"
	"devcamper/internal/handler"
	"devcamper/internal/service"
	"devcamper/internal/storage"

	"github.com/labstack/echo/v4"
)

// PhotoResponse 上傳結果
// swagger:model bootcamps.PhotoResponse
type PhotoResponse struct {
	Success bool   `json:"success" example:"true"`
	Data    string `json:"data" example:"photo_5d725a1b7b292f5f8ceff788.jpg"`
	URL     string `json:"url" example:"https://cdn.example.com/photo_5d725a1b7b292f5f8ceff788.jpg"`
}

// @Summary     Upload bootcamp photo
// @Tags        bootcamps
// @Accept      multipart/form-data
// @Produce     json
// @Param       id   path     string true "Bootcamp ID"
// @Param       file formData file   true "圖片檔"
// @Success     200  {object} PhotoResponse
// @Failure     400  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Failure     502  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /bootcamps/{id}/photo [put]
func UploadPhotoHandler(db database.DB, files storage.FileStore, maxSize int64) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ObjectIDParam(c, "id", "Bootcamp")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()

		b, err := getBootcampByID(ctx, db, id)
		if err != nil {
			return handler.StoreError(err, "Bootcamp", id)
		}
		if err := service.Authorize(b.User, p, b.ID); err != nil {
			return err
		}

		fh, err := c.FormFile("file")
		if err != nil {
			return apperr.BadRequest("Please upload a file")
		}
		contentType := fh.Header.Get(echo.HeaderContentType)
		if !strings.HasPrefix(contentType, "image") {
			return apperr.BadRequest("Please upload an image file")
		}
		if fh.Size > maxSize {
			return apperr.BadRequest("Please upload an image less than %d bytes", maxSize)
		}

		src, err := fh.Open()
		if err != nil {
			return apperr.Internal(err)
		}
		defer src.Close()

		name := "photo_" + b.ID.Hex() + filepath.Ext(fh.Filename)
		url, err := files.Put(ctx, name, src, contentType)
		if err != nil {
			return apperr.Upstream(err, "Problem with file upload")
		}
		if err := updateBootcampPhoto(ctx, db, id, name); err != nil {
			return handler.StoreError(err, "Bootcamp", id)
		}
		return c.JSON(http.StatusOK, PhotoResponse{Success: true, Data: name, URL: url})
	}
}
