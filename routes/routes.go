package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-backoffice/controllers"
	"hotel-backoffice/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances into the route tree.
func SetupRouter(
	rc *controllers.ReservationController,
	pc *controllers.PaymentController,
	uc *controllers.UserController,
	rmc *controllers.RoomController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		reservations := api.Group("/reservations")
		{
			reservations.GET("", rc.GetReservations)
			reservations.POST("", rc.CreateReservation)
			reservations.GET("/:id", rc.GetReservation)
			reservations.PATCH("/:id", rc.UpdateReservation)
			reservations.POST("/:id/cancel", rc.CancelReservation)
			reservations.GET("/:id/payments", pc.ListOrderPayments)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", pc.RecordPayment)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rmc.GetRooms)
			rooms.POST("", rmc.CreateRoom)
			rooms.PATCH("/:id", rmc.UpdateRoom)
			rooms.PUT("/:id", rmc.UpdateRoom)
			rooms.DELETE("/:id", rmc.DeleteRoom)
			rooms.GET("/:id/availability", rc.CheckAvailability)
		}

		categories := api.Group("/room-categories")
		{
			categories.GET("", controllers.GetRoomCategories)
			categories.POST("", controllers.CreateRoomCategory)
			categories.DELETE("/:id", controllers.DeleteRoomCategory)
		}

		hotels := api.Group("/hotels")
		{
			hotels.GET("", controllers.GetHotels)
			hotels.POST("", controllers.CreateHotel)
			hotels.GET("/:id", controllers.GetHotel)
			hotels.DELETE("/:id", controllers.DeleteHotel)
			hotels.GET("/:id/reviews", controllers.GetHotelReviews)
		}

		reviews := api.Group("/reviews")
		{
			reviews.POST("", controllers.CreateReview)
			reviews.DELETE("/:id", controllers.DeleteReview)
		}

		users := api.Group("/users")
		{
			users.GET("", uc.GetUsers)
			users.POST("", uc.CreateUser)
			users.GET("/:id", uc.GetUser)
		}

		api.GET("/roles", controllers.GetRoles)
	}

	return r
}
