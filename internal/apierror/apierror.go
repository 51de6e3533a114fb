// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Business error codes surfaced with structured per-product detail. The
// client renders these as a dismissible violation panel.
const (
	CodeStockNotEnough = "STOCK_NOT_ENOUGH"
	CodeMinStockBreach = "MIN_STOCK_BREACH"
	CodeMaxStockBreach = "MAX_STOCK_BREACH"
)

// StockItem describes one product whose available stock cannot cover the
// requested quantity.
type StockItem struct {
	ProductoID string `json:"producto_id"`
	Nombre     string `json:"nombre"`
	Disponible int    `json:"disponible"`
	Solicitado int    `json:"solicitado"`
	Deficit    int    `json:"deficit"`
}

// StockViolacion describes one product that would breach its configured
// minimum (on commit) or maximum (on revert).
type StockViolacion struct {
	ProductoID  string `json:"producto_id"`
	Nombre      string `json:"nombre"`
	StockActual int    `json:"stock_actual"`
	StockMinimo int    `json:"stock_minimo,omitempty"`
	StockMaximo int    `json:"stock_maximo,omitempty"`
	Resultante  int    `json:"resultante"`
	Faltante    int    `json:"faltante,omitempty"`
	Exceso      int    `json:"exceso,omitempty"`
}

// StockError is the wire envelope for the three stock guard rejections.
// It implements error so services can return it directly; handlers detect it
// with errors.As and respond 409 with the full structured body.
type StockError struct {
	Code       string           `json:"code"`
	Message    string           `json:"message"`
	Items      []StockItem      `json:"items,omitempty"`
	Violations []StockViolacion `json:"violations,omitempty"`
}

func (e *StockError) Error() string { return e.Message }

func NewStockNotEnough(items []StockItem) *StockError {
	return &StockError{
		Code:    CodeStockNotEnough,
		Message: "Stock insuficiente para completar la operacion",
		Items:   items,
	}
}

func NewMinStockBreach(violations []StockViolacion) *StockError {
	return &StockError{
		Code:       CodeMinStockBreach,
		Message:    "La operacion dejaria productos por debajo del stock minimo",
		Violations: violations,
	}
}

func NewMaxStockBreach(violations []StockViolacion) *StockError {
	return &StockError{
		Code:       CodeMaxStockBreach,
		Message:    "Revertir la operacion dejaria productos por encima del stock maximo",
		Violations: violations,
	}
}
