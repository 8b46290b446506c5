package indeci

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDCYT/peru-scanner/internal/config"
	"github.com/MDCYT/peru-scanner/internal/domain"
	"github.com/MDCYT/peru-scanner/internal/observability"
)

const featurePayload = `{
  "features": [
    {
      "attributes": {
        "OBJECTID": 4821,
        "NUM_POSX": -70.1,
        "NUM_POSY": -15.2,
        "FENOMENO": "LLUVIAS E INUNDACIONES",
        "DESCRIPCION": "Desborde de rio afecta viviendas",
        "DISTRITO": "JULIACA",
        "PROVINCIA": "SAN ROMAN",
        "REGION": "PUNO",
        "FECHA": 1767225600000,
        "AFECTADOS_DIRECTOS": 35
      },
      "geometry": {"x": -70.1333, "y": -15.4997}
    },
    {
      "attributes": {
        "FENOMENO": "VIENTOS FUERTES",
        "FECHA": 1767225600000
      }
    }
  ]
}`

func newTestClient(upstreamURL string) *Client {
	cfg := &config.Config{
		DisasterURL:     upstreamURL,
		DisasterReferer: "https://geosinpad.indeci.gob.pe",
		FetchTimeout:    5 * time.Second,
	}
	return NewClient(cfg, observability.NewMetricsForTesting(), slog.Default())
}

func TestFetchMapsFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "FECHA>=CURRENT_TIMESTAMP-1", r.URL.Query().Get("where"))
		assert.Equal(t, "*", r.URL.Query().Get("outFields"))
		assert.Equal(t, "json", r.URL.Query().Get("f"))
		fmt.Fprint(w, featurePayload)
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "indeci-4821", first.ID)
	assert.Equal(t, "INDECI-4821", first.SourceReferenceCode)
	assert.Equal(t, "LLUVIA INTENSA", first.ClassifiedType)
	assert.Equal(t, "LLUVIAS E INUNDACIONES", first.RawPhenomenonText)
	assert.Equal(t, "Desborde de rio afecta viviendas", first.Description)
	assert.Equal(t, "PUNO", first.Location.Region)
	assert.Equal(t, "SAN ROMAN", first.Location.Province)
	assert.Equal(t, "JULIACA", first.Location.District)
	// Geometry coordinates win over the attribute-embedded pair.
	require.NotNil(t, first.Coordinates)
	assert.Equal(t, -15.4997, first.Coordinates.Latitude)
	assert.Equal(t, -70.1333, first.Coordinates.Longitude)
	assert.Equal(t, time.UnixMilli(1767225600000).UTC(), first.OccurredAt)
	require.NotNil(t, first.Affected)
	assert.Equal(t, 35, first.Affected.Affected)
	assert.Equal(t, domain.SourceGeoFeature, first.Source)

	// Sparse feature: index-backed identifier, phenomenon doubles as the
	// description, unknown location placeholder, zero defaults.
	second := records[1]
	assert.Equal(t, "indeci-1", second.ID)
	assert.Equal(t, "VIENTOS FUERTES", second.ClassifiedType, "unmatched label passes through")
	assert.Equal(t, "VIENTOS FUERTES", second.Description)
	assert.Equal(t, "Ubicación desconocida", second.Location.Address)
	require.NotNil(t, second.Coordinates)
	assert.Zero(t, second.Coordinates.Latitude)
	assert.Zero(t, second.Coordinates.Longitude)
	assert.Equal(t, 0, second.Affected.Affected)
}

func TestFetchEmptyFeaturesIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"features": []}`)
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFetchUpstreamErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Fetch(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 502")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>not json</html>")
		}))
		defer srv.Close()

		_, err := newTestClient(srv.URL).Fetch(context.Background())
		require.Error(t, err)
	})
}
