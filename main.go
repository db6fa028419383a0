package main

import (
	"log"

	"internhub/config"
	"internhub/database"
	adminRoutes "internhub/routers/adminRoutes"
	applicationRoutes "internhub/routers/applicationRoutes"
	authRoutes "internhub/routers/authRoutes"
	documentRoutes "internhub/routers/documentRoutes"
	lmsRoutes "internhub/routers/lmsRoutes"
	notificationRoutes "internhub/routers/notificationRoutes"
	paymentRoutes "internhub/routers/paymentRoutes"
	taskRoutes "internhub/routers/taskRoutes"
	"internhub/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	utils.InitializeMaintenanceScheduler()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)
	applicationRoutes.SetupApplicationRoutes(app)
	paymentRoutes.SetupPaymentRoutes(app)
	documentRoutes.SetupDocumentRoutes(app)
	taskRoutes.SetupTaskRoutes(app)
	lmsRoutes.SetupLmsRoutes(app)
	notificationRoutes.SetupNotificationRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
