package dto

// ErrorResponse cuerpo de error HTTP. Field se informa en errores de validación.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ListResponse listado plano (ya filtrado por q).
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// GroupResponse un grupo de la vista kanban.
type GroupResponse[T any] struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Items  []T    `json:"items"`
}

// KanbanResponse listado agrupado por estado, en orden canónico.
type KanbanResponse[T any] struct {
	Groups []GroupResponse[T] `json:"groups"`
	Total  int                `json:"total"`
}

// GroupCount cantidad de registros en un estado (widgets del dashboard).
type GroupCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusResponse respuesta genérica de operaciones sin cuerpo propio.
type StatusResponse struct {
	Status string `json:"status"`
}
