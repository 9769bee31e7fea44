package services

import (
	"testing"
	"time"

	"securecheck/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func ptr[T any](v T) *T { return &v }

// newTestDB opens a private in-memory SQLite record store with the
// traffic_stops table created.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.TrafficStop{}))
	return db
}

func seedStops(t *testing.T, db *gorm.DB) {
	t.Helper()

	day := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	stops := []models.TrafficStop{
		{StopDate: &day, StopTime: ptr("14:30:00"), CountryName: ptr("Canada"), DriverGender: ptr("M"), DriverAge: ptr(30),
			Violation: ptr("Speeding"), SearchConducted: ptr(true), StopOutcome: ptr("Warning"), StopDuration: ptr("0-15 Min"),
			DrugsRelatedStop: ptr(false), IsArrested: ptr(false), VehicleNumber: ptr("CA1")},
		{StopDate: &day, StopTime: ptr("25:99"), CountryName: ptr("Canada"), DriverGender: ptr("M"), DriverAge: ptr(30),
			Violation: ptr("DUI"), SearchConducted: ptr(true), StopOutcome: ptr("Warning"), StopDuration: ptr("0-15 Min"),
			DrugsRelatedStop: ptr(false), IsArrested: ptr(false), VehicleNumber: ptr("CA2")},
		{CountryName: ptr("USA"), DriverGender: ptr("M"), DriverAge: ptr(30),
			Violation: ptr("DUI"), SearchConducted: ptr(true), StopOutcome: ptr("Arrest"), StopDuration: ptr("0-15 Min"),
			DrugsRelatedStop: ptr(false), IsArrested: ptr(true), VehicleNumber: ptr("US1")},
		{CountryName: ptr("USA"), DriverGender: ptr("F"), StopOutcome: ptr("Ticket"), StopDuration: ptr("30+ Min"),
			DrugsRelatedStop: ptr(true), VehicleNumber: ptr("US2")},
	}
	require.NoError(t, db.Create(&stops).Error)
}
