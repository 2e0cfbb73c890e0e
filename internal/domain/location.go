package domain

// Location — координаты покупателя для службы доставки.
type Location struct {
	Lat float64
	Lng float64
}

// LocationStatus — исход попытки определить геопозицию.
type LocationStatus string

const (
	LocationResolved    LocationStatus = "resolved"
	LocationDenied      LocationStatus = "denied"
	LocationUnavailable LocationStatus = "unavailable"
	LocationTimedOut    LocationStatus = "timeout"
	LocationUnsupported LocationStatus = "unsupported"
)

// LocationResult — либо координаты, либо причина, по которой их нет.
type LocationResult struct {
	Status   LocationStatus
	Location Location
}

func ResolvedLocation(lat, lng float64) LocationResult {
	return LocationResult{Status: LocationResolved, Location: Location{Lat: lat, Lng: lng}}
}

func UnresolvedLocation(status LocationStatus) LocationResult {
	return LocationResult{Status: status}
}

// Coordinates возвращает координаты или (0, 0), если геопозиция не определена.
func (r LocationResult) Coordinates() (float64, float64) {
	if r.Status != LocationResolved {
		return 0, 0
	}
	return r.Location.Lat, r.Location.Lng
}
