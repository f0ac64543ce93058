package router

import (
	"strconv"

	"devcamper/internal/cache"
	"devcamper/internal/database"
	"devcamper/internal/geocode"
	"devcamper/internal/handler"
	"devcamper/internal/handler/auth"
	"devcamper/internal/handler/bootcamps"
	"devcamper/internal/handler/courses"
	"devcamper/internal/handler/users"
	"devcamper/internal/mail"
	"devcamper/internal/middleware"
	"devcamper/internal/model"
	"devcamper/internal/service"
	"devcamper/internal/storage"
	"devcamper/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// multipartOverhead 預留給 multipart 邊界與欄位標頭
const multipartOverhead int64 = 64 << 10

// Deps 路由需要的共用元件，皆由 main 建立後注入
type Deps struct {
	DB            database.DB
	Cache         cache.Cache
	Files         storage.FileStore
	Mailer        mail.Mailer
	Geocoder      geocode.Geocoder
	Tokens        service.TokenIssuer
	Pool          worker.Pool
	Auth          auth.Options
	MaxFileUpload int64
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, d Deps) {
	api := e.Group("/api/v1")
	requireAuth := middleware.RequireAuth(d.Tokens)
	publisher := middleware.RequireRoles(model.RolePublisher, model.RoleAdmin)

	// 健康檢查
	api.GET("/ping", handler.PingHandler(d.DB, d.Cache))

	// 登入與密碼重設
	apiAuth := api.Group("/auth")
	apiAuth.POST("/register", auth.RegisterHandler(d.DB, d.Auth))
	apiAuth.POST("/login", auth.LoginHandler(d.DB, d.Auth))
	apiAuth.GET("/logout", auth.LogoutHandler(d.Auth))
	apiAuth.GET("/me", auth.GetMeHandler(d.DB), requireAuth)
	apiAuth.PUT("/updatedetails", auth.UpdateDetailsHandler(d.DB), requireAuth)
	apiAuth.PUT("/updatepassword", auth.UpdatePasswordHandler(d.DB, d.Auth), requireAuth)
	apiAuth.POST("/forgetpassword", auth.ForgotPasswordHandler(d.DB, d.Mailer))
	apiAuth.PUT("/resetpassword/:resettoken", auth.ResetPasswordHandler(d.DB, d.Auth))

	// Bootcamps：讀取公開，寫入限 publisher/admin
	apiBootcamps := api.Group("/bootcamps")
	apiBootcamps.GET("", bootcamps.ListBootcampsHandler(d.DB))
	apiBootcamps.GET("/radius", bootcamps.BootcampsInRadiusHandler(d.DB, d.Geocoder))
	apiBootcamps.GET("/:id", bootcamps.GetBootcampHandler(d.DB))
	apiBootcamps.POST("", bootcamps.CreateBootcampHandler(d.DB, d.Geocoder), requireAuth, publisher)
	apiBootcamps.PUT("/:id", bootcamps.UpdateBootcampHandler(d.DB, d.Geocoder), requireAuth, publisher)
	apiBootcamps.DELETE("/:id", bootcamps.DeleteBootcampHandler(d.DB, d.Files, d.Pool), requireAuth, publisher)
	apiBootcamps.PUT("/:id/photo", bootcamps.UploadPhotoHandler(d.DB, d.Files, d.MaxFileUpload), photoLimit(d.MaxFileUpload), requireAuth, publisher)

	// 巢狀課程
	apiBootcamps.GET("/:bootcampId/courses", courses.ListBootcampCoursesHandler(d.DB))
	apiBootcamps.POST("/:bootcampId/courses", courses.CreateCourseHandler(d.DB), requireAuth, publisher)

	apiCourses := api.Group("/courses")
	apiCourses.GET("", courses.ListCoursesHandler(d.DB))
	apiCourses.GET("/:id", courses.GetCourseHandler(d.DB))
	apiCourses.POST("", courses.CreateCourseHandler(d.DB), requireAuth, publisher)
	apiCourses.PUT("/:id", courses.UpdateCourseHandler(d.DB), requireAuth, publisher)
	apiCourses.DELETE("/:id", courses.DeleteCourseHandler(d.DB), requireAuth, publisher)

	// 管理員專屬 Users CRUD
	// 中介層掛在路由上；Group 帶中介層時 echo 會額外註冊 Any 路由
	admin := []echo.MiddlewareFunc{requireAuth, middleware.RequireRoles(model.RoleAdmin)}
	apiUsers := api.Group("/users")
	apiUsers.GET("", users.ListUsersHandler(d.DB), admin...)
	apiUsers.POST("", users.CreateUserHandler(d.DB), admin...)
	apiUsers.GET("/:id", users.GetUserHandler(d.DB), admin...)
	apiUsers.PUT("/:id", users.UpdateUserHandler(d.DB), admin...)
	apiUsers.DELETE("/:id", users.DeleteUserHandler(d.DB), admin...)
}

// photoLimit 在 multipart 解析前擋下超過上傳上限的 body；maxSize<=0 時不限制
func photoLimit(maxSize int64) echo.MiddlewareFunc {
	if maxSize <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return echomw.BodyLimit(strconv.FormatInt(maxSize+multipartOverhead, 10) + "B")
}
