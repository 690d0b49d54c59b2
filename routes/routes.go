package routes

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"guesthouse-backend/controllers"
	"guesthouse-backend/middleware"
	"guesthouse-backend/utils"
)

// Handlers bundles the controller instances the router dispatches to.
type Handlers struct {
	Buildings        *controllers.BuildingController
	RoomTypes        *controllers.RoomTypeController
	Calendar         *controllers.CalendarController
	AdditionalPrices *controllers.AdditionalPriceController
	Rooms            *controllers.RoomController
	Pricing          *controllers.PricingController
	Bookings         *controllers.BookingController
	Groups           *controllers.BookingGroupController
	Payments         *controllers.PaymentController
	Reservations     *controllers.ReservationController
}

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules (isodate).
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
				_, err := utils.ParseDate(fl.Field().String())
				return err == nil
			})
		}
	})
}

func corsConfig(origins []string) cors.Config {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}
}

// SetupRouter wires the controller instances to their routes.
func SetupRouter(h Handlers, corsOrigins []string) *gin.Engine {
	RegisterValidators()

	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())
	r.Use(cors.New(corsConfig(corsOrigins)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			utils.JSONSuccess(c, http.StatusOK, gin.H{"status": "ok"})
		})

		buildings := api.Group("/buildings")
		{
			buildings.GET("", h.Buildings.GetBuildings)
			buildings.POST("", h.Buildings.CreateBuilding)
			buildings.GET("/:id", h.Buildings.GetBuilding)
			buildings.PUT("/:id", h.Buildings.UpdateBuilding)
			buildings.DELETE("/:id", h.Buildings.DeleteBuilding)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", h.RoomTypes.GetRoomTypes)
			roomTypes.POST("", h.RoomTypes.CreateRoomType)
			roomTypes.GET("/:id", h.RoomTypes.GetRoomType)
			roomTypes.PUT("/:id", h.RoomTypes.UpdateRoomType)
			roomTypes.DELETE("/:id", h.RoomTypes.DeleteRoomType)
			roomTypes.GET("/:id/calendar", h.RoomTypes.GetCalendar)
			roomTypes.POST("/:id/quote", h.RoomTypes.Quote)

			roomTypes.GET("/:id/date-ranges", h.Calendar.GetDateRanges)
			roomTypes.POST("/:id/date-ranges", h.Calendar.CreateDateRange)
			roomTypes.GET("/:id/overrides", h.Calendar.GetOverrides)
			roomTypes.PUT("/:id/overrides", h.Calendar.UpsertOverride)
		}

		api.PUT("/date-ranges/:id", h.Calendar.UpdateDateRange)
		api.DELETE("/date-ranges/:id", h.Calendar.DeleteDateRange)
		api.DELETE("/overrides/:id", h.Calendar.DeleteOverride)

		specialDays := api.Group("/special-days")
		{
			specialDays.GET("", h.Calendar.GetSpecialDays)
			specialDays.POST("", h.Calendar.CreateSpecialDay)
			specialDays.DELETE("/:id", h.Calendar.DeleteSpecialDay)
		}

		fees := api.Group("/additional-prices")
		{
			fees.GET("", h.AdditionalPrices.GetAdditionalPrices)
			fees.POST("", h.AdditionalPrices.CreateAdditionalPrice)
			fees.PUT("/:id", h.AdditionalPrices.UpdateAdditionalPrice)
			fees.DELETE("/:id", h.AdditionalPrices.DeleteAdditionalPrice)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.Rooms.GetRooms)
			rooms.POST("", h.Rooms.CreateRoom)
			rooms.PATCH("/:id", h.Rooms.UpdateRoom)
			rooms.PUT("/:id", h.Rooms.UpdateRoom)
			rooms.DELETE("/:id", h.Rooms.DeleteRoom)
			rooms.POST("/:id/quote", h.Rooms.QuoteRoom)
		}

		api.POST("/pricing/quote", h.Pricing.Quote)
		api.POST("/pricing/group-quote", h.Pricing.GroupQuote)
		api.POST("/availability/check", h.Pricing.CheckAvailability)

		bookings := api.Group("/bookings")
		{
			bookings.GET("", h.Bookings.GetBookings)
			bookings.POST("", h.Bookings.CreateBooking)
			bookings.GET("/:id", h.Bookings.GetBookingDetails)
			bookings.PUT("/:id", h.Bookings.UpdateBooking)
			bookings.DELETE("/:id", h.Bookings.DeleteBooking)
			bookings.POST("/:id/cancel", h.Bookings.CancelBooking)
			bookings.GET("/:id/price-lines", h.Bookings.GetPriceLines)
			bookings.POST("/:id/price-lines", h.Bookings.AddPriceLine)
			bookings.DELETE("/:id/price-lines/:lineId", h.Bookings.RemovePriceLine)
			bookings.GET("/:id/payments", h.Bookings.GetPayments)
			bookings.POST("/:id/payments", h.Bookings.AddPayment)
			bookings.GET("/:id/ledger", h.Bookings.GetLedger)
		}

		groups := api.Group("/booking-groups")
		{
			groups.GET("", h.Groups.GetGroups)
			groups.POST("", h.Groups.CreateGroup)
			groups.GET("/:id", h.Groups.GetGroup)
			groups.DELETE("/:id", h.Groups.DeleteGroup)
			groups.PUT("/:id/dates", h.Groups.UpdateDates)
			groups.POST("/:id/cancel", h.Groups.CancelGroup)
			groups.GET("/:id/payments", h.Groups.GetPayments)
			groups.POST("/:id/payments", h.Groups.AddPayment)
			groups.GET("/:id/ledger", h.Groups.GetLedger)
		}

		api.DELETE("/payments/:id", h.Payments.DeletePayment)
		api.GET("/reservations", h.Reservations.GetReservations)
	}

	return r
}
