package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teatro/backend/internal/transport/middleware"
)

func InitRoutes(reservationHandler *ReservationHandler, eventHandler *EventHandler, customerHandler *CustomerHandler) *gin.Engine {
	router := gin.New()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30 * time.Second))

	api := router.Group("/api/v1")
	{
		events := api.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("", eventHandler.GetAllEvents)
			events.GET("/upcoming", eventHandler.GetUpcomingEvents)
			events.GET("/:id", eventHandler.GetEvent)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.PATCH("/:id/status", eventHandler.UpdateEventStatus)
		}

		customers := api.Group("/customers")
		{
			customers.POST("", customerHandler.CreateCustomer)
			customers.GET("", customerHandler.GetAllCustomers)
			customers.GET("/free-pass", customerHandler.GetCustomersWithFreePass)
			customers.GET("/:id", customerHandler.GetCustomer)
			customers.PUT("/:id", customerHandler.UpdateCustomer)
			customers.PATCH("/:id/deactivate", customerHandler.DeactivateCustomer)
			customers.POST("/:id/attendance", customerHandler.RecordAttendance)
		}

		reservations := api.Group("/reservations")
		{
			reservations.POST("", reservationHandler.CreateReservation)
			reservations.GET("", reservationHandler.GetAllReservations)
			reservations.GET("/:id", reservationHandler.GetReservation)
			reservations.GET("/customer/:customerId", reservationHandler.GetReservationsByCustomer)
			reservations.PATCH("/:id/status", reservationHandler.UpdateReservationStatus)
			reservations.DELETE("/:id", reservationHandler.DeleteReservation)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
