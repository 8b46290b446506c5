package domain

// Camera is the shared vocabulary for the municipal camera listing. The
// listing itself is owned by the camera collaborator service; this module
// only needs the shape for session-token negotiation against special
// providers.

// CameraStatus is the operational state reported by the municipality.
type CameraStatus string

const (
	CameraOperational    CameraStatus = "Operativo"
	CameraNotOperational CameraStatus = "No Operativo"
	CameraMaintenance    CameraStatus = "En Mantenimiento"
)

// CameraCategory distinguishes surveillance cameras from traffic cameras.
type CameraCategory string

const (
	CameraSurveillance CameraCategory = "Vigilancia"
	CameraTraffic      CameraCategory = "Trafico"
)

// SpecialProvider describes a camera whose stream is only reachable after
// negotiating a session token with an external provider page.
type SpecialProvider struct {
	Provider string `json:"provider"`
	URL      string `json:"url"`
}

// Camera is a public traffic or surveillance camera record.
type Camera struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Address     string           `json:"address"`
	Coordinates Coordinates      `json:"coordinates"`
	Status      CameraStatus     `json:"status"`
	Category    CameraCategory   `json:"category"`
	District    string           `json:"district,omitempty"`
	StreamURL   string           `json:"streamUrl,omitempty"`
	Special     *SpecialProvider `json:"specialCamera,omitempty"`
}
