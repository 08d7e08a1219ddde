package entity

type SafeStop struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Distance float64 `json:"distance"`
	// Coordinates is [lon, lat].
	Coordinates []float64 `json:"coordinates"`
	Address     string    `json:"address"`
}
