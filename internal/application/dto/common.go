package dto

// ErrorResponse cuerpo de error HTTP de los endpoints de operador.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
