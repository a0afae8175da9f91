package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hvacops-backend/config"
	"hvacops-backend/controllers"
	"hvacops-backend/models"
	"hvacops-backend/services"
	"hvacops-backend/utils"
)

// Services is everything the HTTP layer calls into
type Services struct {
	Users     *services.UserService
	Customers *services.CustomerService
	Jobs      *services.JobService
	Phases    *services.PhaseService
	Payments  *services.PaymentService
	Inventory *services.InventoryService
	Stats     *services.StatsService
	Export    *services.ExportService
}

func SetupRouter(cfg *config.Configuration, log *logrus.Logger, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger(log))

	authController := &controllers.AuthController{Users: svc.Users, Log: log}
	customerController := &controllers.CustomerController{Customers: svc.Customers, Log: log}
	jobController := &controllers.JobController{Jobs: svc.Jobs, Phases: svc.Phases, Payments: svc.Payments, Log: log}
	inventoryController := &controllers.InventoryController{Inventory: svc.Inventory, Log: log}
	dashboardController := &controllers.DashboardController{Stats: svc.Stats, Log: log}
	reportController := &controllers.ReportController{Export: svc.Export, Log: log}

	r.GET("/", controllers.Root)
	r.GET("/health", controllers.Health)

	api := r.Group("/api")
	api.POST("/login", authController.Login)

	// Public catalog
	api.GET("/catalog", inventoryController.GetCatalog)
	api.GET("/catalog/:id", inventoryController.GetCatalogItem)

	authed := api.Group("", utils.AuthMiddleware(cfg.JWTSecret))
	{
		authed.GET("/me", authController.Me)
		authed.GET("/stats", dashboardController.GetStats)

		// Technicians reach these too; services scope what they see
		authed.GET("/jobs", jobController.GetJobs)
		authed.GET("/jobs/:id", jobController.GetJob)
		authed.GET("/jobs/:id/payments", jobController.GetPayments)
		authed.PATCH("/phases/:id", jobController.UpdatePhase)
	}

	admin := authed.Group("", utils.RequireRoles(string(models.RoleAdmin), string(models.RoleSuperAdmin)))
	{
		admin.GET("/technicians", authController.Technicians)

		customers := admin.Group("/customers")
		{
			customers.GET("", customerController.GetCustomers)
			customers.POST("", customerController.CreateCustomer)
			customers.GET("/:id", customerController.GetCustomer)
			customers.PUT("/:id", customerController.UpdateCustomer)
			customers.DELETE("/:id", customerController.DeleteCustomer)
		}

		admin.GET("/jobs/export", reportController.ExportJobs)
		admin.POST("/jobs", jobController.CreateJob)
		admin.PATCH("/jobs/:id/payment", jobController.UpdatePaymentStatus)
		admin.DELETE("/jobs/:id", jobController.DeleteJob)
		admin.POST("/jobs/:id/payments", jobController.RecordPayment)

		inventory := admin.Group("/inventory")
		{
			inventory.GET("", inventoryController.GetItems)
			inventory.POST("", inventoryController.CreateItem)
			inventory.GET("/:id", inventoryController.GetItem)
			inventory.PUT("/:id", inventoryController.UpdateItem)
			inventory.DELETE("/:id", inventoryController.DeleteItem)
			inventory.GET("/:id/history", inventoryController.GetHistory)
		}
	}

	superadmin := authed.Group("/users", utils.RequireRoles(string(models.RoleSuperAdmin)))
	{
		superadmin.GET("", authController.ListUsers)
		superadmin.POST("", authController.CreateUser)
		superadmin.DELETE("/:id", authController.DeleteUser)
	}

	return r
}
