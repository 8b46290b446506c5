// Package indeci queries INDECI's SINPAD emergencies layer, an ArcGIS
// feature service, and maps its attribute schema onto the normalized record.
package indeci

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/MDCYT/peru-scanner/internal/config"
	"github.com/MDCYT/peru-scanner/internal/domain"
	"github.com/MDCYT/peru-scanner/internal/observability"
)

// Client fetches disaster-report features filed since yesterday. Unlike the
// dispatch portal, the feature service is a provisioned API that has not
// needed retries or proxy camouflage, so a single GET suffices.
type Client struct {
	url        string
	referer    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a feature-service client from service configuration.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url:        cfg.DisasterURL,
		referer:    cfg.DisasterReferer,
		httpClient: &http.Client{Timeout: cfg.FetchTimeout},
		logger:     logger,
		metrics:    metrics,
	}
}

// Fetch runs the feature query and normalizes the result. A response with
// zero features is an empty batch, not an error.
func (c *Client) Fetch(ctx context.Context) ([]domain.EmergencyRecord, error) {
	start := time.Now()
	defer func() {
		c.metrics.FetchDuration.WithLabelValues("disaster").Observe(time.Since(start).Seconds())
	}()

	params := url.Values{
		"where":          {"FECHA>=CURRENT_TIMESTAMP-1"},
		"outFields":      {"*"},
		"returnGeometry": {"true"},
		"f":              {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", c.referer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchAttempts.WithLabelValues("disaster", "transport_error").Inc()
		return nil, fmt.Errorf("feature query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchAttempts.WithLabelValues("disaster", "transport_error").Inc()
		return nil, fmt.Errorf("feature service status %d", resp.StatusCode)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.FetchAttempts.WithLabelValues("disaster", "transport_error").Inc()
		return nil, fmt.Errorf("decode feature response: %w", err)
	}

	if len(payload.Features) == 0 {
		c.metrics.FetchAttempts.WithLabelValues("disaster", "empty").Inc()
		c.logger.Info("feature service returned no reports")
		return nil, nil
	}

	c.metrics.FetchAttempts.WithLabelValues("disaster", "success").Inc()
	c.logger.Info("disaster reports fetched", "features", len(payload.Features))

	records := make([]domain.EmergencyRecord, len(payload.Features))
	for i, f := range payload.Features {
		records[i] = mapFeature(f, i)
	}
	return records, nil
}

// mapFeature normalizes one feature. The geometry's coordinates win over the
// NUM_POSX/NUM_POSY attributes; missing numerics stay 0 rather than being
// omitted. idx backs the identifier when OBJECTID is absent.
func mapFeature(f feature, idx int) domain.EmergencyRecord {
	objectID := f.Attributes.ObjectID
	if objectID == 0 {
		objectID = int64(idx)
	}

	lat := f.Attributes.NumPosY
	lon := f.Attributes.NumPosX
	if f.Geometry != nil {
		if f.Geometry.Y != 0 {
			lat = f.Geometry.Y
		}
		if f.Geometry.X != 0 {
			lon = f.Geometry.X
		}
	}

	description := f.Attributes.Descripcion
	if description == "" {
		description = f.Attributes.Fenomeno
	}
	address := f.Attributes.Distrito
	if address == "" {
		address = "Ubicación desconocida"
	}

	return domain.EmergencyRecord{
		ID:                  fmt.Sprintf("indeci-%d", objectID),
		SourceReferenceCode: fmt.Sprintf("INDECI-%d", objectID),
		ClassifiedType:      domain.Classify(f.Attributes.Fenomeno),
		RawPhenomenonText:   f.Attributes.Fenomeno,
		Description:         description,
		Location: domain.Location{
			Region:   f.Attributes.Region,
			Province: f.Attributes.Provincia,
			District: f.Attributes.Distrito,
			Address:  address,
		},
		Coordinates: &domain.Coordinates{Latitude: lat, Longitude: lon},
		OccurredAt:  time.UnixMilli(f.Attributes.Fecha).UTC(),
		Affected:    &domain.AffectedCounts{Affected: f.Attributes.AfectadosDirectos},
		Source:      domain.SourceGeoFeature,
	}
}

// Feature-service response types.

type queryResponse struct {
	Features              []feature `json:"features"`
	ExceededTransferLimit bool      `json:"exceededTransferLimit"`
}

type feature struct {
	Attributes attributes `json:"attributes"`
	Geometry   *geometry  `json:"geometry"`
}

type attributes struct {
	ObjectID          int64   `json:"OBJECTID"`
	NumPosX           float64 `json:"NUM_POSX"`
	NumPosY           float64 `json:"NUM_POSY"`
	Fenomeno          string  `json:"FENOMENO"`
	Descripcion       string  `json:"DESCRIPCION"`
	Distrito          string  `json:"DISTRITO"`
	Provincia         string  `json:"PROVINCIA"`
	Region            string  `json:"REGION"`
	Fecha             int64   `json:"FECHA"`
	AfectadosDirectos int     `json:"AFECTADOS_DIRECTOS"`
}

type geometry struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
