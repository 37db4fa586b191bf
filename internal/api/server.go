package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/campushub/campus-events-api/docs"
	v1 "github.com/campushub/campus-events-api/internal/api/handler/v1"
	"github.com/campushub/campus-events-api/internal/api/middleware"
	"github.com/campushub/campus-events-api/internal/config"
	"github.com/campushub/campus-events-api/internal/notify"
	"github.com/campushub/campus-events-api/internal/repository"
	"github.com/campushub/campus-events-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, store *repository.Store, mailer notify.Mailer) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	userSvc := service.NewUserService(store.Users)

	authHandler := s.initAuthHandler(store)
	eventHandler := s.initEventHandler(store, userSvc)
	registrationHandler := s.initRegistrationHandler(store, userSvc, mailer)
	feedHandler := s.initFeedHandler(store, userSvc)
	checkInHandler := s.initCheckInHandler(store, userSvc, feedHandler)
	creditHandler := s.initCreditHandler(store, userSvc)
	adminHandler := s.initAdminHandler(store, userSvc)

	s.MountHandlers(authHandler, eventHandler, registrationHandler, checkInHandler, feedHandler, creditHandler, adminHandler)

	return s
}

func (s *Server) initAuthHandler(store *repository.Store) *v1.AuthHandler {
	svc := service.NewAuthService(store.Users)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initEventHandler(store *repository.Store, userSvc *service.UserService) *v1.EventHandler {
	svc := service.NewEventService(store.Events)
	handler := v1.NewEventHandler(svc, userSvc)

	return handler
}

func (s *Server) initRegistrationHandler(store *repository.Store, userSvc *service.UserService, mailer notify.Mailer) *v1.RegistrationHandler {
	svc := service.NewRegistrationService(store.Registrations, store.Events, mailer)
	handler := v1.NewRegistrationHandler(svc, userSvc)

	return handler
}

func (s *Server) initFeedHandler(store *repository.Store, userSvc *service.UserService) *v1.CheckInFeedHandler {
	eventSvc := service.NewEventService(store.Events)
	handler := v1.NewCheckInFeedHandler(eventSvc, userSvc)

	return handler
}

func (s *Server) initCheckInHandler(store *repository.Store, userSvc *service.UserService, feed *v1.CheckInFeedHandler) *v1.CheckInHandler {
	svc := service.NewCheckInService(store.Registrations, store.Events, feed)
	handler := v1.NewCheckInHandler(svc, userSvc)

	return handler
}

func (s *Server) initCreditHandler(store *repository.Store, userSvc *service.UserService) *v1.CreditHandler {
	svc := service.NewCreditService(store.Credits)
	handler := v1.NewCreditHandler(svc, userSvc)

	return handler
}

func (s *Server) initAdminHandler(store *repository.Store, userSvc *service.UserService) *v1.AdminHandler {
	svc := service.NewAdminService(store.Users, store.Events, store.Registrations)
	handler := v1.NewAdminHandler(svc, userSvc)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(
	authHandler *v1.AuthHandler,
	eventHandler *v1.EventHandler,
	registrationHandler *v1.RegistrationHandler,
	checkInHandler *v1.CheckInHandler,
	feedHandler *v1.CheckInFeedHandler,
	creditHandler *v1.CreditHandler,
	adminHandler *v1.AdminHandler,
) {
	const basePath = "/api/v1"

	public := s.Router.Group(basePath)
	{
		public.POST("/auth/signup", authHandler.HandleSignup)
		public.POST("/auth/login", authHandler.HandleLogin)
		public.GET("/events", eventHandler.HandleListEvents)
		public.GET("/events/:eventID", eventHandler.HandleGetEvent)
	}

	authed := s.Router.Group(basePath, middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.POST("/events", eventHandler.HandleCreateEvent)
		authed.GET("/manage/events", eventHandler.HandleListManagedEvents)
		authed.GET("/manage/events/:eventID/registrations", registrationHandler.HandleListEventRegistrations)
		authed.GET("/manage/events/:eventID/feed", feedHandler.HandleFeed)

		authed.POST("/events/:eventID/register", registrationHandler.HandleRegister)
		authed.POST("/registrations/:registrationID/cancel", registrationHandler.HandleCancelRegistration)
		authed.POST("/events/:eventID/checkin", checkInHandler.HandleCheckIn)

		authed.GET("/my/registrations", registrationHandler.HandleListMyRegistrations)
		authed.GET("/my/credits", creditHandler.HandleGetCredits)

		authed.POST("/admin/approvals/:userID", adminHandler.HandleApproveOrganizer)
		authed.GET("/admin/dashboard", adminHandler.HandleDashboard)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Campus Events API"
	docs.SwaggerInfo.Description = "Event registration, QR ticketing, and attendance credits for campus events."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
