package bomberos

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/MDCYT/peru-scanner/internal/domain"
)

// ParseStats counts row-level outcomes from one document parse.
type ParseStats struct {
	Rows          int
	Skipped       int
	TimeFallbacks int
}

// ParseDispatchTable extracts emergency records from the portal's 24-hour
// table. Cells are positional: reference number, local time, address,
// category; the first, third, and fourth sit inside a span, span, and p
// respectively (the address falls back to the cell text when the p is
// absent). Rows missing the reference, address, or category are skipped and
// counted; row order is preserved. A document without a table yields zero
// records, which the fetcher treats as an empty result.
func ParseDispatchTable(r io.Reader, logger *slog.Logger) ([]domain.EmergencyRecord, ParseStats, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, ParseStats{}, fmt.Errorf("parse dispatch html: %w", err)
	}

	var records []domain.EmergencyRecord
	var stats ParseStats

	doc.Find("table tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			stats.Skipped++
			logger.Debug("skipping short dispatch row", "row", i, "cells", cells.Length())
			return
		}

		ref := strings.TrimSpace(cells.Eq(0).Find("span").Text())
		timeRaw := strings.TrimSpace(cells.Eq(1).Find("span").Text())
		address := strings.TrimSpace(cells.Eq(2).Find("p").Text())
		if address == "" {
			address = strings.TrimSpace(cells.Eq(2).Text())
		}
		category := strings.TrimSpace(cells.Eq(3).Find("span").Text())

		if ref == "" || address == "" || category == "" {
			stats.Skipped++
			logger.Debug("skipping incomplete dispatch row", "row", i)
			return
		}

		occurredAt, parsed := domain.ParseLocalDate(timeRaw)
		if !parsed {
			stats.TimeFallbacks++
			logger.Warn("unparsable dispatch timestamp, substituting current time",
				"row", i, "numparte", ref, "value", timeRaw)
		}

		coords, _ := domain.ExtractCoordinates(address)

		records = append(records, domain.EmergencyRecord{
			ID:                  ref,
			SourceReferenceCode: ref,
			ClassifiedType:      category,
			RawPhenomenonText:   category,
			Location: domain.Location{
				Region:   "Lima",
				Province: "Lima",
				District: domain.ExtractDistrict(address),
				Address:  address,
			},
			Coordinates:   coords,
			OccurredAt:    occurredAt,
			TimeEstimated: !parsed,
			Source:        domain.SourceDispatchTable,
		})
		stats.Rows++
	})

	return records, stats, nil
}
