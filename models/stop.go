package models

import "time"

// TrafficStop is one row of the traffic_stops record store table. Every
// column is nullable; the cleaning pipeline decides defaults.
type TrafficStop struct {
	ID               uint       `gorm:"column:id;primaryKey" json:"-"`
	StopDate         *time.Time `gorm:"column:stop_date;type:date" json:"stop_date"`
	StopTime         *string    `gorm:"column:stop_time;type:time" json:"stop_time"`
	CountryName      *string    `gorm:"column:country_name" json:"country_name"`
	DriverGender     *string    `gorm:"column:driver_gender" json:"driver_gender"`
	DriverAge        *int       `gorm:"column:driver_age" json:"driver_age"`
	DriverRace       *string    `gorm:"column:driver_race" json:"driver_race"`
	Violation        *string    `gorm:"column:violation" json:"violation"`
	SearchConducted  *bool      `gorm:"column:search_conducted" json:"search_conducted"`
	SearchType       *string    `gorm:"column:search_type" json:"search_type"`
	StopOutcome      *string    `gorm:"column:stop_outcome" json:"stop_outcome"`
	StopDuration     *string    `gorm:"column:stop_duration" json:"stop_duration"`
	DrugsRelatedStop *bool      `gorm:"column:drugs_related_stop" json:"drugs_related_stop"`
	IsArrested       *bool      `gorm:"column:is_arrested" json:"is_arrested"`
	VehicleNumber    *string    `gorm:"column:vehicle_number" json:"vehicle_number"`
}

func (TrafficStop) TableName() string { return "traffic_stops" }
