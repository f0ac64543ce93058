package bootcamps

import (
	"context"
	"errors"
	"net/http"

	"devcamper/internal/api"
	"devcamper/internal/apperr"
	"devcamper/internal/database"
	"devcamper/internal/dto"
	"devcamper/internal/geocode"
	"devcamper/internal/handler"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/service"
	"devcamper/internal/store"
	"devcamper/internal/storage"
	"devcamper/internal/worker"

	"github.com/labstack/echo/v4"
)

var (
	listBootcamps           = store.ListBootcamps
	getBootcampByID         = store.GetBootcampByID
	countBootcampsByUser    = store.CountBootcampsByUser
	createBootcamp          = store.CreateBootcamp
	updateBootcamp          = store.UpdateBootcamp
	deleteBootcamp          = store.DeleteBootcamp
	deleteCoursesByBootcamp = store.DeleteCoursesByBootcamp
	updateBootcampPhoto     = store.UpdateBootcampPhoto
	findWithinRadius        = store.FindBootcampsWithinRadius
)

func geocodeAddress(ctx context.Context, geo geocode.Geocoder, address string) (*model.Location, error) {
	loc, err := geo.Geocode(ctx, address)
	if errors.Is(err, geocode.ErrNoResult) {
		return nil, apperr.BadRequest("Could not geocode address %q", address)
	}
	if err != nil {
		return nil, apperr.Upstream(err, "Geocoding service unavailable")
	}
	return loc, nil
}

// @Summary     List bootcamps
// @Description 支援 filter（field、field[gt|gte|lt|lte|in]）、select、sort、page、limit
// @Tags        bootcamps
// @Produce     json
// @Param       select query string  false "欄位，以逗號分隔" example(name,averageCost)
// @Param       sort   query string  false "排序，- 為遞減" example(-name)
// @Param       page   query integer false "頁碼" default(1)
// @Param       limit  query integer false "每頁筆數" default(25)
// @Success     200    {object} dto.ListResponse
// @Failure     400    {object} dto.HTTPError
// @Failure     500    {object} dto.HTTPError
// @Router      /bootcamps [get]
func ListBootcampsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := query.Parse(c.QueryParams(), store.BootcampFields)
		if err != nil {
			return err
		}
		docs, total, err := listBootcamps(c.Request().Context(), db, q)
		if err != nil {
			return err
		}
		_, pagination := query.Paginate(q.Page, q.Limit, total)
		return c.JSON(http.StatusOK, dto.ListResponse{
			Success:    true,
			Count:      len(docs),
			Total:      total,
			Pagination: pagination,
			Data:       docs,
		})
	}
}

// @Summary     Get a bootcamp
// @Tags        bootcamps
// @Produce     json
// @Param       id  path     string true "Bootcamp ID"
// @Success     200 {object} dto.Response{data=model.Bootcamp}
// @Failure     404 {object} dto.HTTPError
// @Router      /bootcamps/{id} [get]
func GetBootcampHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ObjectIDParam(c, "id", "Bootcamp")
		if err != nil {
			return err
		}
		b, err := getBootcampByID(c.Request().Context(), db, id)
		if err != nil {
			return handler.StoreError(err, "Bootcamp", id)
		}
		return c.JSON(http.StatusOK, dto.OK(b))
	}
}

// @Summary     Create a bootcamp
// @Description publisher 只能建立一個 bootcamp；admin 不受限
// @Tags        bootcamps
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateBootcampRequest true "Bootcamp"
// @Success     201  {object} dto.Response{data=model.Bootcamp}
// @Failure     400  {object} dto.HTTPError
// @Failure     401  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     502  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /bootcamps [post]
func CreateBootcampHandler(db database.DB, geo geocode.Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		var req api.CreateBootcampRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()

		owned, err := countBootcampsByUser(ctx, db, p.ID)
		if err != nil {
			return err
		}
		if err := service.CheckBootcampQuota(p, owned); err != nil {
			return err
		}

		loc, err := geocodeAddress(ctx, geo, req.Address)
		if err != nil {
			return err
		}
		b := req.Bootcamp(p.ID)
		b.Location = loc

		created, err := createBootcamp(ctx, db, b)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, dto.OK(created))
	}
}

// @Summary     Update a bootcamp
// @Description 只有擁有者或 admin 可以修改；address 變更時重新地理編碼
// @Tags        bootcamps
// @Accept      json
// @Produce     json
// @Param       id   path     string                    true "Bootcamp ID"
// @Param       body body     api.UpdateBootcampRequest true "欄位"
// @Success     200  {object} dto.Response{data=model.Bootcamp}
// @Failure     400  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /bootcamps/{id} [put]
func UpdateBootcampHandler(db database.DB, geo geocode.Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ObjectIDParam(c, "id", "Bootcamp")
		if err != nil {
			return err
		}
		var req api.UpdateBootcampRequest
		if err := handler.BindValid(c, &req); err != nil {
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

		set := req.Set()
		if len(set) == 0 {
			return c.JSON(http.StatusOK, dto.OK(b))
		}
		if req.Address != nil {
			loc, err := geocodeAddress(ctx, geo, *req.Address)
			if err != nil {
				return err
			}
			set["location"] = loc
		}

		updated, err := updateBootcamp(ctx, db, id, set)
		if err != nil {
			return handler.StoreError(err, "Bootcamp", id)
		}
		return c.JSON(http.StatusOK, dto.OK(updated))
	}
}

// @Summary     Delete a bootcamp
// @Description 先刪除 bootcamp 再刪除其課程；第二步失敗只記錄，照片於背景移除
// @Tags        bootcamps
// @Produce     json
// @Param       id  path     string true "Bootcamp ID"
// @Success     200 {object} dto.Response
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /bootcamps/{id} [delete]
func DeleteBootcampHandler(db database.DB, files storage.FileStore, pool worker.Pool) echo.HandlerFunc {
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

		if err := deleteBootcamp(ctx, db, id); err != nil {
			return handler.StoreError(err, "Bootcamp", id)
		}
		if n, err := deleteCoursesByBootcamp(ctx, db, id); err != nil {
			c.Logger().Errorf("bootcamp %s deleted but its courses were not: %v", id.Hex(), err)
		} else {
			c.Logger().Infof("bootcamp %s deleted with %d courses", id.Hex(), n)
		}

		if b.Photo != "" && b.Photo != model.DefaultPhoto {
			photo := b.Photo
			if !pool.Submit(func(ctx context.Context) error { return files.Delete(ctx, photo) }) {
				c.Logger().Warnf("photo %s not removed: worker pool stopped or full", photo)
			}
		}
		return c.JSON(http.StatusOK, dto.OK(struct{}{}))
	}
}

// @Summary     Bootcamps within a radius
// @Tags        bootcamps
// @Produce     json
// @Param       zipcode  query    string true "郵遞區號"
// @Param       distance query    number true "距離 (mile)"
// @Success     200      {object} dto.CountResponse{data=[]model.Bootcamp}
// @Failure     400      {object} dto.HTTPError
// @Failure     502      {object} dto.HTTPError
// @Router      /bootcamps/radius [get]
func BootcampsInRadiusHandler(db database.DB, geo geocode.Geocoder) echo.HandlerFunc {
	return func(c echo.Context) error {
		zipcode := c.QueryParam("zipcode")
		if zipcode == "" {
			return apperr.BadRequest("Please provide a zipcode")
		}
		var distance float64
		if err := echo.QueryParamsBinder(c).MustFloat64("distance", &distance).BindError(); err != nil || distance <= 0 {
			return apperr.BadRequest("distance must be a positive number of miles")
		}
		ctx := c.Request().Context()

		loc, err := geocodeAddress(ctx, geo, zipcode)
		if err != nil {
			return err
		}
		lng, lat := loc.Coordinates[0], loc.Coordinates[1]

		out, err := findWithinRadius(ctx, db, lng, lat, distance/store.EarthRadiusMiles)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.CountResponse{Success: true, Count: len(out), Data: out})
	}
}
