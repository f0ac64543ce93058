package courses

import (
	"context"
	"net/http"

	"devcamper/internal/api"
	"devcamper/internal/apperr"
	"devcamper/internal/database"
	"devcamper/internal/dto"
	"devcamper/internal/handler"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/service"
	"devcamper/internal/store"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	listCourses            = store.ListCourses
	listCoursesByBootcamp  = store.ListCoursesByBootcamp
	getCourseByID          = store.GetCourseByID
	createCourse           = store.CreateCourse
	updateCourse           = store.UpdateCourse
	deleteCourse           = store.DeleteCourse
	getBootcampByID        = store.GetBootcampByID
	getBootcampSummaries   = store.GetBootcampSummaries
	recalculateAverageCost = store.RecalculateAverageCost
)

// joinBootcamps 以一次 $in 查詢把 bootcamp id 換成 {_id,name,description}
func joinBootcamps(ctx context.Context, db database.DB, docs []bson.M) error {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, d := range docs {
		if id, ok := d["bootcamp"].(primitive.ObjectID); ok && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	summaries, err := getBootcampSummaries(ctx, db, ids)
	if err != nil {
		return err
	}
	for _, d := range docs {
		id, ok := d["bootcamp"].(primitive.ObjectID)
		if !ok {
			continue
		}
		if s, found := summaries[id]; found {
			d["bootcamp"] = s
		} else {
			d["bootcamp"] = nil
		}
	}
	return nil
}

func view(ctx context.Context, db database.DB, c *model.Course) (*model.CourseView, error) {
	summaries, err := getBootcampSummaries(ctx, db, []primitive.ObjectID{c.Bootcamp})
	if err != nil {
		return nil, err
	}
	v := &model.CourseView{Course: *c}
	if s, ok := summaries[c.Bootcamp]; ok {
		v.Bootcamp = s
	}
	return v, nil
}

// syncAverageCost 平均學費只是衍生欄位，失敗時記錄即可
func syncAverageCost(c echo.Context, db database.DB, bootcampID primitive.ObjectID) {
	if err := recalculateAverageCost(c.Request().Context(), db, bootcampID); err != nil {
		c.Logger().Errorf("average cost of bootcamp %s not updated: %v", bootcampID.Hex(), err)
	}
}

// @Summary     List courses
// @Description 與 bootcamp 清單相同的 filter/select/sort/page/limit，並帶入 bootcamp 摘要
// @Tags        courses
// @Produce     json
// @Param       select query string  false "欄位，以逗號分隔"
// @Param       sort   query string  false "排序，- 為遞減"
// @Param       page   query integer false "頁碼" default(1)
// @Param       limit  query integer false "每頁筆數" default(25)
// @Success     200    {object} dto.ListResponse
// @Failure     400    {object} dto.HTTPError
// @Router      /courses [get]
func ListCoursesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		q, err := query.Parse(c.QueryParams(), store.CourseFields)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		docs, total, err := listCourses(ctx, db, q)
		if err != nil {
			return err
		}
		if err := joinBootcamps(ctx, db, docs); err != nil {
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

// @Summary     List courses of a bootcamp
// @Tags        courses
// @Produce     json
// @Param       bootcampId path     string true "Bootcamp ID"
// @Success     200        {object} dto.CountResponse{data=[]model.Course}
// @Failure     404        {object} dto.HTTPError
// @Router      /bootcamps/{bootcampId}/courses [get]
func ListBootcampCoursesHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ObjectIDParam(c, "bootcampId", "Bootcamp")
		if err != nil {
			return err
		}
		out, err := listCoursesByBootcamp(c.Request().Context(), db, id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.CountResponse{Success: true, Count: len(out), Data: out})
	}
}

// @Summary     Get a course
// @Tags        courses
// @Produce     json
// @Param       id  path     string true "Course ID"
// @Success     200 {object} dto.Response{data=model.CourseView}
// @Failure     404 {object} dto.HTTPError
// @Router      /courses/{id} [get]
func GetCourseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ObjectIDParam(c, "id", "Course")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		course, err := getCourseByID(ctx, db, id)
		if err != nil {
			return handler.StoreError(err, "Course", id)
		}
		v, err := view(ctx, db, course)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, dto.OK(v))
	}
}

// CreateCourseHandler 供 /bootcamps/:bootcampId/courses 與 /courses 共用；
// 後者由 body 的 bootcamp 欄位指定
// @Summary     Create a course
// @Tags        courses
// @Accept      json
// @Produce     json
// @Param       bootcampId path     string            true "Bootcamp ID"
// @Param       body       body     api.CourseRequest true "Course"
// @Success     201        {object} dto.Response{data=model.Course}
// @Failure     400        {object} dto.HTTPError
// @Failure     403        {object} dto.HTTPError
// @Failure     404        {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /bootcamps/{bootcampId}/courses [post]
// @Router      /courses [post]
func CreateCourseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		var req api.CourseRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}

		raw := c.Param("bootcampId")
		if raw == "" {
			raw = req.Bootcamp
		}
		if raw == "" {
			return apperr.BadRequest("Please add a bootcamp")
		}
		bootcampID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return apperr.NotFound("No bootcamp with the id of %s", raw)
		}
		ctx := c.Request().Context()

		b, err := getBootcampByID(ctx, db, bootcampID)
		if err != nil {
			if store.IsNotFound(err) {
				return apperr.NotFound("No bootcamp with the id of %s", raw)
			}
			return err
		}
		if err := service.Authorize(b.User, p, b.ID); err != nil {
			return err
		}

		created, err := createCourse(ctx, db, req.Course(b.ID, p.ID))
		if err != nil {
			return err
		}
		syncAverageCost(c, db, b.ID)
		return c.JSON(http.StatusCreated, dto.OK(created))
	}
}

// @Summary     Update a course
// @Tags        courses
// @Accept      json
// @Produce     json
// @Param       id   path     string                  true "Course ID"
// @Param       body body     api.UpdateCourseRequest true "欄位"
// @Success     200  {object} dto.Response{data=model.Course}
// @Failure     400  {object} dto.HTTPError
// @Failure     403  {object} dto.HTTPError
// @Failure     404  {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /courses/{id} [put]
func UpdateCourseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ObjectIDParam(c, "id", "Course")
		if err != nil {
			return err
		}
		var req api.UpdateCourseRequest
		if err := handler.BindValid(c, &req); err != nil {
			return err
		}
		ctx := c.Request().Context()

		course, err := getCourseByID(ctx, db, id)
		if err != nil {
			return handler.StoreError(err, "Course", id)
		}
		if err := service.Authorize(course.User, p, course.ID); err != nil {
			return err
		}

		set := req.Set()
		if len(set) == 0 {
			return c.JSON(http.StatusOK, dto.OK(course))
		}
		updated, err := updateCourse(ctx, db, id, set)
		if err != nil {
			return handler.StoreError(err, "Course", id)
		}
		if _, ok := set["tuition"]; ok {
			syncAverageCost(c, db, course.Bootcamp)
		}
		return c.JSON(http.StatusOK, dto.OK(updated))
	}
}

// @Summary     Delete a course
// @Tags        courses
// @Produce     json
// @Param       id  path     string true "Course ID"
// @Success     200 {object} dto.Response
// @Failure     403 {object} dto.HTTPError
// @Failure     404 {object} dto.HTTPError
// @Security    ApiKeyAuth
// @Router      /courses/{id} [delete]
func DeleteCourseHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := handler.Principal(c)
		if err != nil {
			return err
		}
		id, err := handler.ObjectIDParam(c, "id", "Course")
		if err != nil {
			return err
		}
		ctx := c.Request().Context()

		course, err := getCourseByID(ctx, db, id)
		if err != nil {
			return handler.StoreError(err, "Course", id)
		}
		if err := service.Authorize(course.User, p, course.ID); err != nil {
			return err
		}
		if err := deleteCourse(ctx, db, id); err != nil {
			return handler.StoreError(err, "Course", id)
		}
		syncAverageCost(c, db, course.Bootcamp)
		return c.JSON(http.StatusOK, dto.OK(struct{}{}))
	}
}
