package carpark

import (
	"errors"
	"fmt"
)

// Категории ошибок. Каждая конкретная ошибка ниже оборачивает свою категорию:
// errors.Is(ErrCarparkFull, ErrCapacity) == true.
var (
	ErrValidation    = errors.New("carpark: validation error")
	ErrCapacity      = errors.New("carpark: capacity error")
	ErrNotFound      = errors.New("carpark: not found")
	ErrStateConflict = errors.New("carpark: state conflict")
	ErrMismatch      = errors.New("carpark: mismatch")

	// ErrInternal возвращается при ошибках хранилищ
	ErrInternal = errors.New("carpark: internal error")
)

var (
	// ErrInvalidName возвращается при пустом имени парковки
	ErrInvalidName = fmt.Errorf("%w: carpark name must not be empty", ErrValidation)

	// ErrInvalidCapacity возвращается при недопустимой вместимости
	ErrInvalidCapacity = fmt.Errorf("%w: invalid capacity", ErrValidation)

	// ErrInvalidTicket возвращается для пустого или некорректного абонемента
	ErrInvalidTicket = fmt.Errorf("%w: invalid ticket", ErrValidation)

	// ErrInvalidObserver возвращается для nil или несравнимого наблюдателя
	ErrInvalidObserver = fmt.Errorf("%w: observer must be a non-nil comparable value", ErrValidation)

	// ErrInvalidInterval возвращается, когда выезд раньше въезда
	ErrInvalidInterval = fmt.Errorf("%w: exit is before entry", ErrValidation)

	// ErrCarparkFull возвращается при выдаче билета на заполненной парковке
	ErrCarparkFull = fmt.Errorf("%w: carpark is full", ErrCapacity)

	// ErrCapacityExceeded возвращается, когда лимит абонементов исчерпан
	ErrCapacityExceeded = fmt.Errorf("%w: season ticket capacity exceeded", ErrCapacity)

	// ErrTicketNotFound возвращается, когда билет не найден
	ErrTicketNotFound = fmt.Errorf("%w: ticket not found", ErrNotFound)

	// ErrAlreadyRegistered возвращается при повторной регистрации абонемента
	ErrAlreadyRegistered = fmt.Errorf("%w: season ticket already registered", ErrStateConflict)

	// ErrAlreadyInUse возвращается при повторном въезде по абонементу
	ErrAlreadyInUse = fmt.Errorf("%w: season ticket already in use", ErrStateConflict)

	// ErrNotInUse возвращается при выезде по абонементу, который не используется
	ErrNotInUse = fmt.Errorf("%w: season ticket not in use", ErrStateConflict)

	// ErrTicketTransition возвращается, когда разовый билет не может перейти в состояние
	// (повторный въезд, оплата до въезда, выезд без оплаты)
	ErrTicketTransition = fmt.Errorf("%w: ticket cannot make this transition", ErrStateConflict)

	// ErrCarparkMismatch возвращается, если билет или абонемент выпущен для другой парковки
	ErrCarparkMismatch = fmt.Errorf("%w: ticket belongs to another carpark", ErrMismatch)
)
