package routes

import (
	"gorm.io/gorm"

	"guesthouse-backend/controllers"
	"guesthouse-backend/pricing"
	"guesthouse-backend/services"
)

// NewHandlers builds every service and controller over one database handle.
func NewHandlers(db *gorm.DB, weekend pricing.WeekendRule) Handlers {
	// services
	calendarService := services.NewCalendarService(db, weekend)
	pricingService := services.NewPricingService(db, weekend)
	availabilityService := services.NewAvailabilityService(db, weekend)
	bookingService := services.NewBookingService(db, weekend)
	groupService := services.NewBookingGroupService(db, weekend)
	paymentService := services.NewPaymentService(db)

	// controllers
	return Handlers{
		Buildings:        controllers.NewBuildingController(services.NewBuildingService(db)),
		RoomTypes:        controllers.NewRoomTypeController(services.NewRoomTypeService(db), calendarService, pricingService),
		Calendar:         controllers.NewCalendarController(calendarService),
		AdditionalPrices: controllers.NewAdditionalPriceController(services.NewAdditionalPriceService(db)),
		Rooms:            controllers.NewRoomController(services.NewRoomService(db), pricingService),
		Pricing:          controllers.NewPricingController(pricingService, availabilityService),
		Bookings:         controllers.NewBookingController(bookingService, paymentService),
		Groups:           controllers.NewBookingGroupController(groupService, paymentService),
		Payments:         controllers.NewPaymentController(paymentService),
		Reservations:     controllers.NewReservationController(services.NewReservationService(db)),
	}
}
