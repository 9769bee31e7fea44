package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"securecheck/cleaning"
	"securecheck/services"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

// StopPayload is one stop event as published on the MQTT feed. Every
// field is optional; date and clock are free text.
type StopPayload struct {
	StopDate         string `json:"stop_date"`
	StopTime         string `json:"stop_time"`
	CountryName      string `json:"country_name"`
	DriverGender     string `json:"driver_gender"`
	DriverAge        *int   `json:"driver_age"`
	DriverRace       string `json:"driver_race"`
	Violation        string `json:"violation"`
	SearchConducted  *bool  `json:"search_conducted"`
	SearchType       string `json:"search_type"`
	StopOutcome      string `json:"stop_outcome"`
	StopDuration     string `json:"stop_duration"`
	DrugsRelatedStop *bool  `json:"drugs_related_stop"`
	IsArrested       *bool  `json:"is_arrested"`
	VehicleNumber    string `json:"vehicle_number"`
}

var errEmptyStop = errors.New("stop payload has no vehicle_number")

var (
	msgsReceived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securecheck_collector_messages_received_total",
		Help: "Total number of MQTT stop messages received by collector.",
	})
	msgsStored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securecheck_collector_messages_stored_total",
		Help: "Total number of stops inserted into traffic_stops.",
	})
	msgsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securecheck_collector_messages_failed_total",
		Help: "Total number of messages rejected or failed to store.",
	})
)

const insertStop = `
	INSERT INTO traffic_stops (stop_date, stop_time, country_name, driver_gender, driver_age,
		driver_race, violation, search_conducted, search_type, stop_outcome, stop_duration,
		drugs_related_stop, is_arrested, vehicle_number)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`

// execer is satisfied by *pgxpool.Pool.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// publisher is satisfied by *redis.Client.
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

func decodeStop(raw []byte) (StopPayload, error) {
	var p StopPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("invalid payload: %w", err)
	}
	if strings.TrimSpace(p.VehicleNumber) == "" {
		return p, errEmptyStop
	}
	return p, nil
}

// insertArgs maps the payload onto the insert placeholders. Text that does
// not parse as a date or clock is stored as NULL.
func insertArgs(p StopPayload) []any {
	var date, clock any
	if d, ok := cleaning.ParseDate(p.StopDate); ok {
		date = d.Time()
	}
	if c, ok := cleaning.ParseClock(p.StopTime); ok {
		clock = c.String()
	}
	return []any{
		date, clock,
		nullable(p.CountryName), nullable(p.DriverGender), p.DriverAge,
		nullable(p.DriverRace), nullable(p.Violation), p.SearchConducted,
		nullable(p.SearchType), nullable(p.StopOutcome), nullable(p.StopDuration),
		p.DrugsRelatedStop, p.IsArrested, strings.TrimSpace(p.VehicleNumber),
	}
}

func nullable(s string) any {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return s
}

// processMessage stores one stop and announces it on the live channel.
// pub may be nil when redis is not configured.
func processMessage(ctx context.Context, db execer, pub publisher, payloadRaw []byte) error {
	msgsReceived.Inc()

	payload, err := decodeStop(payloadRaw)
	if err != nil {
		msgsFailed.Inc()
		log.Printf("rejected stop: %v", err)
		return err
	}

	if _, err := db.Exec(ctx, insertStop, insertArgs(payload)...); err != nil {
		msgsFailed.Inc()
		log.Printf("db insert failed: %v", err)
		return err
	}
	msgsStored.Inc()

	if pub != nil {
		if err := pub.Publish(ctx, services.LiveChannel, payloadRaw).Err(); err != nil {
			log.Printf("live publish failed: %v", err)
		}
	}
	return nil
}
