package season

import "errors"

var (
	// ErrTicketNotFound возвращается, когда абонемент не зарегистрирован
	ErrTicketNotFound = errors.New("season.repository: ticket not found")

	// ErrTicketExists возвращается при повторной регистрации абонемента
	ErrTicketExists = errors.New("season.repository: ticket already registered")

	// ErrTicketInUse возвращается при попытке открыть вторую запись использования
	ErrTicketInUse = errors.New("season.repository: ticket already in use")

	// ErrTicketNotInUse возвращается, когда открытой записи использования нет
	ErrTicketNotInUse = errors.New("season.repository: ticket not in use")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("season.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("season.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("season.repository: failed to scan row")
)
