package bomberos

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDCYT/peru-scanner/internal/domain"
)

const dispatchPage = `<html><body>
<table class="table">
<thead><tr><th>Parte</th><th>Hora</th><th>Direccion</th><th>Tipo</th></tr></thead>
<tbody>
<tr>
  <td><span>2026001565</span></td>
  <td><span>12/01/2026 08:30:54 p.m.</span></td>
  <td><p>AV. SAN FELIPE (-12.0828,-77.0513) Nro. 601 - JESUS MARIA</p></td>
  <td><span>EMERGENCIA MEDICA</span></td>
</tr>
<tr>
  <td><span></span></td>
  <td><span>12/01/2026 02:40:00 p.m.</span></td>
  <td><p>Av. Arequipa cdra. 10 - Lince</p></td>
  <td><span>INCENDIO URBANO</span></td>
</tr>
<tr>
  <td><span>2026001563</span></td>
  <td><span>not a timestamp</span></td>
  <td>Av. Abancay cdra. 5 (-12.0486,-77.0431) - Cercado de Lima</td>
  <td><span>INCENDIO URBANO</span></td>
</tr>
<tr>
  <td><span>2026001562</span></td>
  <td><span>12/01/2026 02:30:00 p.m.</span></td>
  <td><p>Av. Brasil cdra. 21 - Pueblo Libre</p></td>
  <td><span></span></td>
</tr>
<tr><td colspan="4">sin datos</td></tr>
<tr>
  <td><span>2026001561</span></td>
  <td><span>12/01/2026 02:28:00 p.m.</span></td>
  <td><p>Av. Javier Prado Este (-12.0893,-76.9981) - San Borja</p></td>
  <td><span>ACCIDENTE DE TRANSITO</span></td>
</tr>
</tbody>
</table>
</body></html>`

func TestParseDispatchTable(t *testing.T) {
	records, stats, err := ParseDispatchTable(strings.NewReader(dispatchPage), slog.Default())
	require.NoError(t, err)

	// Rows 2 (no reference), 4 (no category), and 5 (too few cells) are
	// skipped; the rest survive in order.
	require.Len(t, records, 3)
	assert.Equal(t, 3, stats.Rows)
	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 1, stats.TimeFallbacks)

	first := records[0]
	assert.Equal(t, "2026001565", first.ID)
	assert.Equal(t, "2026001565", first.SourceReferenceCode)
	assert.Equal(t, "EMERGENCIA MEDICA", first.ClassifiedType)
	assert.Equal(t, "JESUS MARIA", first.Location.District)
	assert.Equal(t, "Lima", first.Location.Region)
	require.NotNil(t, first.Coordinates)
	assert.Equal(t, -12.0828, first.Coordinates.Latitude)
	assert.Equal(t, -77.0513, first.Coordinates.Longitude)
	assert.Equal(t, time.Date(2026, 1, 13, 1, 30, 54, 0, time.UTC), first.OccurredAt)
	assert.False(t, first.TimeEstimated)
	assert.Equal(t, domain.SourceDispatchTable, first.Source)

	// Row without a p element falls back to the cell text, and its broken
	// timestamp is replaced rather than dropping the record.
	second := records[1]
	assert.Equal(t, "2026001563", second.ID)
	assert.Equal(t, "Cercado de Lima", second.Location.District)
	assert.True(t, second.TimeEstimated)
	assert.False(t, second.OccurredAt.IsZero())

	assert.Equal(t, "2026001561", records[2].ID)
}

func TestParseDispatchTableNoTable(t *testing.T) {
	records, stats, err := ParseDispatchTable(strings.NewReader("<html><body><h1>503</h1></body></html>"), slog.Default())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, ParseStats{}, stats)
}

func TestSeedRecords(t *testing.T) {
	seed := SeedRecords()
	require.Len(t, seed, 3)

	for _, rec := range seed {
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, rec.ID, rec.SourceReferenceCode)
		assert.NotNil(t, rec.Coordinates)
		assert.False(t, rec.OccurredAt.IsZero())
		assert.Equal(t, domain.SourceDispatchTable, rec.Source)
	}

	assert.Equal(t, "2026001565", seed[0].ID)
	assert.Equal(t, "JESUS MARIA", seed[0].Location.District)
	assert.Equal(t, time.Date(2026, 1, 13, 1, 30, 54, 0, time.UTC), seed[0].OccurredAt)
}
