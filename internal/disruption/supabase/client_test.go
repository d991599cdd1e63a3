package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safarbus/safarbus/internal/disruption"
	"github.com/safarbus/safarbus/internal/disruption/supabase"
	"github.com/safarbus/safarbus/internal/provider/resilience"
)

func newTestClient(baseURL string) *supabase.Client {
	return supabase.NewClient(supabase.ClientConfig{
		BaseURL:        baseURL,
		APIKey:         "****",
		MutationClient: resilience.NewClient(resilience.MutationClientConfig("supabase-rpc-test")),
		LookupClient:   resilience.NewClient(resilience.DefaultClientConfig("supabase-lookup-test")),
		Logger:         zerolog.Nop(),
	})
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestClient_HandleTripDisruption(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/handle_trip_disruption", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "****", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer ****", r.Header.Get("Authorization"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `"trip-1"`, string(body["p_trip_id"]))
		assert.JSONEq(t, `"cancel"`, string(body["p_action_type"]))
		assert.JSONEq(t, `"engine failure"`, string(body["p_reason"]))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":           true,
			"message":           "trip cancelled",
			"affected_bookings": 7,
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	outcome, err := client.HandleTripDisruption(context.Background(), disruption.Request{
		TripID: "trip-1",
		Action: disruption.ActionCancel,
		Reason: strptr("engine failure"),
	})
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, "trip cancelled", outcome.Message)
	assert.Equal(t, float64(7), outcome.Payload["affected_bookings"])
}

// Unset optionals must arrive as explicit nulls: the stored routine branches
// on the presence of each parameter, so omission is not equivalent.
func TestClient_HandleTripDisruption_ExplicitNulls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		require.Contains(t, body, "p_reason")
		require.Contains(t, body, "p_delay_minutes")
		require.Contains(t, body, "p_transfer_trip_id")
		assert.JSONEq(t, "null", string(body["p_reason"]))
		assert.JSONEq(t, "45", string(body["p_delay_minutes"]))
		assert.JSONEq(t, "null", string(body["p_transfer_trip_id"]))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "delayed"})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.HandleTripDisruption(context.Background(), disruption.Request{
		TripID:       "trip-1",
		Action:       disruption.ActionDelay,
		DelayMinutes: intptr(45),
	})
	require.NoError(t, err)
}

func TestClient_HandleTripDisruption_LogicalFailureIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"message": "trip already departed",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	outcome, err := client.HandleTripDisruption(context.Background(), disruption.Request{
		TripID: "trip-1",
		Action: disruption.ActionCancel,
	})
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Equal(t, "trip already departed", outcome.Message)
}

// The disruption procedure is not idempotent; a 5xx must see exactly one
// HTTP attempt.
func TestClient_HandleTripDisruption_NoRetryOn5xx(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.HandleTripDisruption(context.Background(), disruption.Request{
		TripID: "trip-1",
		Action: disruption.ActionCancel,
	})

	assert.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_FindAlternativeTrips(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/find_alternative_trips", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "trip-1", body["p_original_trip_id"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"id":              "trip-2",
				"route_name":      "Riyadh - Dammam",
				"departure_time":  "2026-03-01T18:30:00Z",
				"arrival_time":    "2026-03-01T22:45:00Z",
				"price":           120.5,
				"available_seats": 14,
				"status":          "scheduled",
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	trips, err := client.FindAlternativeTrips(context.Background(), "trip-1")
	require.NoError(t, err)
	require.Len(t, trips, 1)

	trip := trips[0]
	assert.Equal(t, "trip-2", trip.ID)
	assert.Equal(t, "Riyadh - Dammam", trip.RouteName)
	assert.Equal(t, 14, trip.AvailableSeats)
	assert.Equal(t, 120.5, trip.Price)
	assert.Equal(t, "scheduled", trip.Status)
	assert.Equal(t, 18, trip.DepartureTime.UTC().Hour())
}

func TestClient_FindAlternativeTrips_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]interface{}{})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	trips, err := client.FindAlternativeTrips(context.Background(), "trip-1")
	require.NoError(t, err)
	assert.Empty(t, trips)
}

func TestClient_FindAlternativeTrips_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.FindAlternativeTrips(context.Background(), "trip-1")
	assert.Error(t, err)
}

type recordedCall struct {
	provider  string
	operation string
	err       error
}

type fakeCallMetrics struct {
	calls []recordedCall
}

func (m *fakeCallMetrics) RecordRequest(provider, operation string, _ time.Duration, err error) {
	m.calls = append(m.calls, recordedCall{provider: provider, operation: operation, err: err})
}

func TestClient_RecordsCallMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/rest/v1/rpc/handle_trip_disruption" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	metrics := &fakeCallMetrics{}
	client := supabase.NewClient(supabase.ClientConfig{
		BaseURL:        server.URL,
		APIKey:         "****",
		MutationClient: resilience.NewClient(resilience.MutationClientConfig("supabase-rpc-metrics-test")),
		LookupClient:   resilience.NewClient(resilience.MutationClientConfig("supabase-lookup-metrics-test")),
		Metrics:        metrics,
		Logger:         zerolog.Nop(),
	})

	_, err := client.HandleTripDisruption(context.Background(), disruption.Request{
		TripID: "trip-1",
		Action: disruption.ActionCancel,
	})
	require.NoError(t, err)

	_, err = client.FindAlternativeTrips(context.Background(), "trip-1")
	require.Error(t, err)

	require.Len(t, metrics.calls, 2)

	assert.Equal(t, "supabase", metrics.calls[0].provider)
	assert.Equal(t, "handle_trip_disruption", metrics.calls[0].operation)
	assert.NoError(t, metrics.calls[0].err)

	assert.Equal(t, "supabase", metrics.calls[1].provider)
	assert.Equal(t, "find_alternative_trips", metrics.calls[1].operation)
	assert.Error(t, metrics.calls[1].err)
}
