package bomberos

import "github.com/MDCYT/peru-scanner/internal/domain"

// SeedRecords returns the built-in fallback dataset served when neither a
// live fetch nor a cached batch is available. The records are real example
// incidents so the map still renders something plausible during an outage.
func SeedRecords() []domain.EmergencyRecord {
	return []domain.EmergencyRecord{
		seedRecord("2026001565", "EMERGENCIA MEDICA",
			"AV. SAN FELIPE (-12.0828,-77.0513) Nro. 601 - JESUS MARIA",
			"12/01/2026 08:30:54 p.m."),
		seedRecord("2026001563", "INCENDIO URBANO",
			"Av. Abancay cdra. 5 (-12.0486,-77.0431) - Cercado de Lima",
			"12/01/2026 02:35:00 p.m."),
		seedRecord("2026001561", "ACCIDENTE DE TRANSITO",
			"Av. Javier Prado Este (-12.0893,-76.9981) - San Borja",
			"12/01/2026 02:28:00 p.m."),
	}
}

func seedRecord(numparte, category, address, localTime string) domain.EmergencyRecord {
	occurredAt, _ := domain.ParseLocalDate(localTime)
	coords, _ := domain.ExtractCoordinates(address)
	return domain.EmergencyRecord{
		ID:                  numparte,
		SourceReferenceCode: numparte,
		ClassifiedType:      category,
		RawPhenomenonText:   category,
		Location: domain.Location{
			Region:   "Lima",
			Province: "Lima",
			District: domain.ExtractDistrict(address),
			Address:  address,
		},
		Coordinates: coords,
		OccurredAt:  occurredAt,
		Source:      domain.SourceDispatchTable,
	}
}
