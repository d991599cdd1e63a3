// Package supabase implements the disruption RPC interface against a
// Supabase PostgREST endpoint.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/safarbus/safarbus/internal/disruption"
	"github.com/safarbus/safarbus/internal/provider/resilience"
)

const (
	// ProviderName identifies this RPC provider.
	ProviderName = "supabase"

	rpcPath = "/rest/v1/rpc/"
)

// ClientConfig holds configuration for the Supabase RPC client.
type ClientConfig struct {
	// BaseURL is the Supabase project URL (required), e.g.
	// https://xyzcompany.supabase.co.
	BaseURL string

	// APIKey is the Supabase service-role or anon key (required). Sent as
	// both the apikey header and the bearer token, per PostgREST convention.
	APIKey string

	// MutationClient executes the state-changing disruption call. If nil,
	// uses a circuit-broken client with retries disabled: the remote
	// procedure is not idempotent and must see at most one attempt per
	// submission.
	MutationClient *resilience.Client

	// LookupClient executes read-only calls. If nil, uses a resilient
	// client with retry defaults.
	LookupClient *resilience.Client

	// Registry receives call outcomes for provider health reporting
	// (optional).
	Registry *resilience.Registry

	// Metrics records per-call telemetry (optional). Satisfied by
	// middleware.ProviderMetrics.
	Metrics CallMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// CallMetrics records the outcome of individual RPC invocations.
type CallMetrics interface {
	RecordRequest(provider, operation string, duration time.Duration, err error)
}

// Client calls the Supabase stored procedures that own trip disruption
// state. It implements disruption.RPC.
type Client struct {
	baseURL        string
	apiKey         string
	mutationClient *resilience.Client
	lookupClient   *resilience.Client
	registry       *resilience.Registry
	metrics        CallMetrics
	logger         zerolog.Logger
}

// NewClient creates a new Supabase RPC client.
func NewClient(cfg ClientConfig) *Client {
	mutationClient := cfg.MutationClient
	if mutationClient == nil {
		mutationClient = resilience.NewClient(resilience.MutationClientConfig(ProviderName + "-rpc"))
	}

	lookupClient := cfg.LookupClient
	if lookupClient == nil {
		lookupClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName + "-lookup"))
	}

	if cfg.Registry != nil {
		cfg.Registry.Register(ProviderName+"-rpc", mutationClient)
		cfg.Registry.Register(ProviderName+"-lookup", lookupClient)
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		apiKey:         cfg.APIKey,
		mutationClient: mutationClient,
		lookupClient:   lookupClient,
		registry:       cfg.Registry,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
	}
}

// disruptionParams is the wire form of handle_trip_disruption parameters.
// Pointer fields without omitempty: an unset optional is sent as an explicit
// null, never omitted, because the stored routine branches on the presence
// of each parameter.
type disruptionParams struct {
	TripID         string  `json:"p_trip_id"`
	ActionType     string  `json:"p_action_type"`
	Reason         *string `json:"p_reason"`
	DelayMinutes   *int    `json:"p_delay_minutes"`
	TransferTripID *string `json:"p_transfer_trip_id"`
}

// HandleTripDisruption invokes the handle_trip_disruption procedure. The
// returned error covers transport failures only; a completed call reporting
// success=false is returned as an Outcome for the handler to normalize.
func (c *Client) HandleTripDisruption(ctx context.Context, req disruption.Request) (*disruption.Outcome, error) {
	params := disruptionParams{
		TripID:         req.TripID,
		ActionType:     string(req.Action),
		Reason:         req.Reason,
		DelayMinutes:   req.DelayMinutes,
		TransferTripID: req.TransferTripID,
	}

	var payload map[string]interface{}
	if err := c.call(ctx, c.mutationClient, ProviderName+"-rpc", "handle_trip_disruption", params, &payload); err != nil {
		return nil, err
	}

	outcome := &disruption.Outcome{Payload: payload}
	if success, ok := payload["success"].(bool); ok {
		outcome.Success = success
	}
	if message, ok := payload["message"].(string); ok {
		outcome.Message = message
	}

	return outcome, nil
}

// alternativesParams is the wire form of find_alternative_trips parameters.
type alternativesParams struct {
	OriginalTripID string `json:"p_original_trip_id"`
}

// FindAlternativeTrips invokes the find_alternative_trips procedure.
func (c *Client) FindAlternativeTrips(ctx context.Context, tripID string) ([]disruption.AlternativeTrip, error) {
	var records []alternativeTripRecord
	err := c.call(ctx, c.lookupClient, ProviderName+"-lookup", "find_alternative_trips", alternativesParams{OriginalTripID: tripID}, &records)
	if err != nil {
		return nil, err
	}

	trips := make([]disruption.AlternativeTrip, 0, len(records))
	for i := range records {
		trips = append(trips, records[i].toAlternativeTrip())
	}

	return trips, nil
}

// call POSTs an RPC invocation and decodes the response into out.
func (c *Client) call(ctx context.Context, httpClient *resilience.Client, providerKey, procedure string, params, out interface{}) error {
	start := time.Now()
	err := c.doCall(ctx, httpClient, procedure, params, out)
	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, procedure, time.Since(start), err)
	}
	if c.registry != nil {
		if err != nil {
			c.registry.RecordFailure(providerKey, err)
		} else {
			c.registry.RecordSuccess(providerKey)
		}
	}
	return err
}

func (c *Client) doCall(ctx context.Context, httpClient *resilience.Client, procedure string, params, out interface{}) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("encoding parameters: %w", err)
	}

	url := c.baseURL + rpcPath + procedure
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// setHeaders sets the PostgREST auth headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

// Supabase RPC response structures.

type alternativeTripRecord struct {
	ID             string  `json:"id"`
	RouteName      string  `json:"route_name"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"available_seats"`
	Status         string  `json:"status"`
}

func (r *alternativeTripRecord) toAlternativeTrip() disruption.AlternativeTrip {
	trip := disruption.AlternativeTrip{
		ID:             r.ID,
		RouteName:      r.RouteName,
		Price:          r.Price,
		AvailableSeats: r.AvailableSeats,
		Status:         r.Status,
	}

	if r.DepartureTime != "" {
		if parsed, err := time.Parse(time.RFC3339, r.DepartureTime); err == nil {
			trip.DepartureTime = parsed
		}
	}
	if r.ArrivalTime != "" {
		if parsed, err := time.Parse(time.RFC3339, r.ArrivalTime); err == nil {
			trip.ArrivalTime = parsed
		}
	}

	return trip
}
