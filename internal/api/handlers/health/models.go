package health

import "github.com/m04kA/SMC-CarparkService/internal/service/carpark"

const (
	statusOK = "ok"

	msgStorageUnavailable = "хранилище билетов недоступно"
)

// Response ответ GET /health
type Response struct {
	Status    string     `json:"status"`
	Occupancy *Occupancy `json:"occupancy,omitempty"`
}

// Occupancy заполненность парковки
type Occupancy struct {
	Carpark          string `json:"carpark"`
	Capacity         int    `json:"capacity"`
	SeasonCapacity   int    `json:"season_capacity"`
	AdhocOccupancy   int    `json:"adhoc_occupancy"`
	SeasonRegistered int    `json:"season_registered"`
	Available        int    `json:"available"`
	Full             bool   `json:"full"`
}

func fromSnapshot(s *carpark.Snapshot) *Occupancy {
	return &Occupancy{
		Carpark:          s.CarparkID,
		Capacity:         s.Capacity,
		SeasonCapacity:   s.SeasonCapacity,
		AdhocOccupancy:   s.AdhocOccupancy,
		SeasonRegistered: s.SeasonRegistered,
		Available:        s.Available(),
		Full:             s.Full,
	}
}
