// Package domain models public-safety reports for the Lima metropolitan area.
//
// # Data Sources
//
// Dispatch-table source: the fire department's live 24-hour call listing at
// sgonorte.bomberosperu.gob.pe/24horas. The page is a plain HTML table; each
// row carries a reference number ("numparte"), a local timestamp, a free-text
// address, and a category label. The portal intermittently rejects datacenter
// traffic, which is why its client retries with rotating proxies and browser
// headers while the feature-service client does not.
//
// Geo-feature source: INDECI's SINPAD emergencies layer on an ArcGIS feature
// server (geosinpad.indeci.gob.pe). Queried with a "reports since yesterday"
// server-side filter; responses are JSON features with flat attributes plus a
// point geometry.
//
// # Upstream Conventions
//
// Timestamps on the dispatch table use the Peruvian locale format:
//
//	"12/01/2026 08:30:54 p.m."  →  day/month/year, 12-hour clock, UTC-5.
//	12 a.m. is midnight (hour 0); 12 p.m. stays 12; other p.m. hours +12.
//
// Addresses embed coordinates in parentheses and end with the district after
// the final dash:
//
//	"AV. SAN FELIPE (-12.0828,-77.0513) Nro. 601 - JESUS MARIA"
//
// Feature timestamps are Unix epoch milliseconds. Feature coordinates exist
// twice (geometry and NUM_POSX/NUM_POSY attributes); the geometry wins when
// both are present.
//
// # Classification
//
// Phenomenon labels are free text. Classify reduces them to a closed set of
// canonical categories through ordered substring rules; labels matching no
// rule pass through verbatim so upstream additions are never dropped.
package domain
