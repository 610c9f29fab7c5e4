package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// InsufficientTenderResponse rechazo por monto insuficiente con el faltante exacto.
type InsufficientTenderResponse struct {
	ErrorResponse
	FinalBill string `json:"final_bill"`
	Tendered  string `json:"tendered"`
	Shortfall string `json:"shortfall"`
}
