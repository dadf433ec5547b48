package adhoc

import "errors"

var (
	// ErrTicketNotFound возвращается, когда билет с таким штрихкодом не найден
	ErrTicketNotFound = errors.New("adhoc.repository: ticket not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("adhoc.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("adhoc.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("adhoc.repository: failed to scan row")
)
