package carpark

// Snapshot состояние заполненности парковки на момент запроса
type Snapshot struct {
	CarparkID        string
	Capacity         int
	SeasonCapacity   int
	AdhocOccupancy   int
	SeasonRegistered int
	Full             bool
}

// Occupied занятые места: разовые въезды плюс зарезервированные абонементами
func (s Snapshot) Occupied() int {
	return s.AdhocOccupancy + s.SeasonRegistered
}

// Available свободные места, не меньше нуля
func (s Snapshot) Available() int {
	if free := s.Capacity - s.Occupied(); free > 0 {
		return free
	}
	return 0
}
