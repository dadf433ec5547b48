package tariff

import "errors"

var (
	// ErrInvalidInterval возвращается, когда время выезда раньше времени въезда
	ErrInvalidInterval = errors.New("tariff: exit time is before entry time")
)
