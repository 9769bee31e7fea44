package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"securecheck/catalog"
	"securecheck/config"
	"securecheck/models"
	"securecheck/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testCatalog = `
sections:
  - {id: medium, title: Medium Insights}
  - {id: complex, title: Complex Insights}
queries:
  - id: stops-by-country
    section: medium
    label: Stops per country
    sql: select country_name, count(*) as total from traffic_stops group by country_name order by total desc
  - id: nothing
    section: complex
    label: No rows
    sql: select * from traffic_stops where 1 = 0
`

func init() {
	gin.SetMode(gin.TestMode)
}

func ptr[T any](v T) *T { return &v }

type testServer struct {
	router *gin.Engine
	auth   *services.AuthService
}

func newTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.TrafficStop{}, &models.User{}))
	seed(t, db)

	return newServerOn(t, db, authRequired)
}

func newServerOn(t *testing.T, db *gorm.DB, authRequired bool) *testServer {
	t.Helper()

	cat, err := catalog.Parse([]byte(testCatalog))
	require.NoError(t, err)

	log := zap.NewNop()
	cfg := &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: "*"},
		Auth: config.AuthConfig{Required: authRequired},
	}
	auth := services.NewAuthService(config.JWTConfig{Secret: "handler-test", ExpiryHours: 1})
	store := services.NewRecordStore(db, log)
	cache := services.NewDisabledCache()

	router := NewRouter(RouterDeps{
		Config:    cfg,
		DB:        db,
		Store:     store,
		Dashboard: services.NewDashboard(store, cat, cache, time.Minute, log),
		Cache:     cache,
		Auth:      auth,
		Log:       log,
	})
	return &testServer{router: router, auth: auth}
}

func seed(t *testing.T, db *gorm.DB) {
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

func (s *testServer) do(t *testing.T, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest), w.Body.String())
}
