package config

import (
	"fmt"
	"log"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"guesthouse-backend/models"
)

func uintPtr(v uint) *uint { return &v }

func seasonRanges(roomTypeID uint, year int, low, high [2]float64) []models.DateRangePrice {
	d := func(m time.Month, day int) time.Time { return time.Date(year, m, day, 0, 0, 0, 0, time.UTC) }
	return []models.DateRangePrice{
		{RoomTypeID: roomTypeID, StartDate: d(time.January, 1), EndDate: d(time.May, 31), WeekdayPrice: low[0], WeekendPrice: low[1], MinNights: 1},
		{RoomTypeID: roomTypeID, StartDate: d(time.June, 1), EndDate: d(time.August, 31), WeekdayPrice: high[0], WeekendPrice: high[1], MinNights: 3},
		{RoomTypeID: roomTypeID, StartDate: d(time.September, 1), EndDate: d(time.December, 31), WeekdayPrice: low[0], WeekendPrice: low[1], MinNights: 1},
	}
}

// SeedDatabase inserts a demo building when the database has none.
func SeedDatabase(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Building{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("ℹ️  buildings already present, skipping seed")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		name := models.LocalizedText{HU: "Tópart Vendégház", EN: "Lakeside Guesthouse", DE: "Gästehaus am See"}
		building := models.Building{Name: models.NewText(name), Slug: slug.Make(name.HU), Address: "8230 Balatonfüred, Tagore sétány 1."}
		if err := tx.Create(&building).Error; err != nil {
			return fmt.Errorf("seed building: %w", err)
		}

		double := models.LocalizedText{HU: "Kétágyas szoba", EN: "Double room", DE: "Doppelzimmer"}
		family := models.LocalizedText{HU: "Családi apartman", EN: "Family apartment", DE: "Familienapartment"}
		types := []models.RoomType{
			{BuildingID: building.ID, Name: models.NewText(double), Slug: slug.Make(double.HU), Description: models.NewText(models.LocalizedText{EN: "Lake view, queen bed"}), Capacity: 2},
			{BuildingID: building.ID, Name: models.NewText(family), Slug: slug.Make(family.HU), Description: models.NewText(models.LocalizedText{EN: "Two bedrooms with kitchenette"}), Capacity: 4},
		}
		if err := tx.Create(&types).Error; err != nil {
			return fmt.Errorf("seed room types: %w", err)
		}

		rooms := []models.Room{
			{RoomTypeID: types[0].ID, Name: "101", IsActive: true},
			{RoomTypeID: types[0].ID, Name: "102", IsActive: true},
			{RoomTypeID: types[1].ID, Name: "201", IsActive: true},
		}
		if err := tx.Create(&rooms).Error; err != nil {
			return fmt.Errorf("seed rooms: %w", err)
		}

		year := time.Now().UTC().Year()
		var ranges []models.DateRangePrice
		for _, y := range []int{year, year + 1} {
			ranges = append(ranges, seasonRanges(types[0].ID, y, [2]float64{80, 100}, [2]float64{120, 150})...)
			ranges = append(ranges, seasonRanges(types[1].ID, y, [2]float64{130, 160}, [2]float64{190, 230})...)
		}
		if err := tx.Create(&ranges).Error; err != nil {
			return fmt.Errorf("seed date ranges: %w", err)
		}

		fees := []models.AdditionalPrice{
			{BuildingID: uintPtr(building.ID), Title: models.NewText(models.LocalizedText{HU: "Idegenforgalmi adó", EN: "Tourist tax", DE: "Kurtaxe"}), PriceEur: 2.5, Mandatory: true, PerNight: true, PerGuest: true, SortOrder: 1},
			{RoomTypeID: uintPtr(types[0].ID), Title: models.NewText(models.LocalizedText{HU: "Takarítási díj", EN: "Cleaning fee", DE: "Endreinigung"}), PriceEur: 25, Mandatory: true, SortOrder: 2},
			{RoomTypeID: uintPtr(types[1].ID), Title: models.NewText(models.LocalizedText{HU: "Takarítási díj", EN: "Cleaning fee", DE: "Endreinigung"}), PriceEur: 40, Mandatory: true, SortOrder: 2},
			{BuildingID: uintPtr(building.ID), Title: models.NewText(models.LocalizedText{HU: "Reggeli", EN: "Breakfast", DE: "Frühstück"}), PriceEur: 12, PerNight: true, PerGuest: true, SortOrder: 3},
		}
		if err := tx.Create(&fees).Error; err != nil {
			return fmt.Errorf("seed additional prices: %w", err)
		}

		national := time.Date(year, time.August, 20, 0, 0, 0, 0, time.UTC)
		special := models.SpecialDay{
			Name:      models.NewText(models.LocalizedText{HU: "Államalapítás ünnepe", EN: "St. Stephen's Day", DE: "Staatsgründungsfeiertag"}),
			StartDate: national,
			EndDate:   national,
			Color:     "#d32f2f",
		}
		if err := tx.Create(&special).Error; err != nil {
			return fmt.Errorf("seed special day: %w", err)
		}

		log.Printf("✅ Seeded demo building %q with %d room types and %d rooms", name.HU, len(types), len(rooms))
		return nil
	})
}
