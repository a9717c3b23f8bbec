package catalog

import "errors"

var (
	ErrServiceNotFound  = errors.New("catalog.repository: service not found")
	ErrBusinessNotFound = errors.New("catalog.repository: business not found")
	ErrEmployeeNotFound = errors.New("catalog.repository: employee not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
