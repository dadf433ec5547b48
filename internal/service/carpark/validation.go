package carpark

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-CarparkService/internal/domain"
)

// validateCarpark проверяет параметры парковки:
// capacity > 0, seasonCapacity == 0 или capacity / seasonCapacity >= 10
func validateCarpark(name string, capacity, seasonCapacity int) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}

	if capacity <= 0 {
		return fmt.Errorf("%w: capacity=%d must be positive", ErrInvalidCapacity, capacity)
	}

	if seasonCapacity < 0 {
		return fmt.Errorf("%w: season capacity=%d must not be negative", ErrInvalidCapacity, seasonCapacity)
	}

	if seasonCapacity > 0 && capacity/seasonCapacity < domain.MinCapacityPerSeasonSpace {
		return fmt.Errorf("%w: season capacity=%d exceeds 1/%d of capacity=%d",
			ErrInvalidCapacity, seasonCapacity, domain.MinCapacityPerSeasonSpace, capacity)
	}

	return nil
}

// validateSeasonTicket проверяет абонемент перед регистрацией
func validateSeasonTicket(ticket *domain.SeasonTicket) error {
	if ticket == nil {
		return fmt.Errorf("%w: ticket is nil", ErrInvalidTicket)
	}
	if ticket.ID == "" {
		return fmt.Errorf("%w: ticket id is empty", ErrInvalidTicket)
	}
	if ticket.EndValidPeriod.Before(ticket.StartValidPeriod) {
		return fmt.Errorf("%w: validity period ends before it starts", ErrInvalidTicket)
	}
	return nil
}
