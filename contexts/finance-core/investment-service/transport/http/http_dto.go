package http

// ErrorResponse is the JSON error envelope returned by the investment
// endpoints.
type ErrorResponse struct {
	Error  string `json:"error"`
	Codigo string `json:"codigo,omitempty"`
}

// InvestRequest is the payload accepted by POST /api/invertir.
type InvestRequest struct {
	ProjectID      int64   `json:"proyecto" validate:"required,gt=0"`
	Amount         float64 `json:"monto" validate:"required,gt=0"`
	Currency       string  `json:"moneda" validate:"required,min=3,max=3"`
	Identification string  `json:"cedula" validate:"required"`
	Password       string  `json:"contrasenna" validate:"required"`
	OrganizationID *int64  `json:"organizacion"`
	PaymentMethod  string  `json:"metodoPago" validate:"required"`
}

type InvestResponse struct {
	Msg                 string  `json:"mensaje"`
	TransactionID       int64   `json:"transaccion_id"`
	Reference           string  `json:"referencia"`
	AmountInvested      float64 `json:"monto_invertido"`
	AuthorizationNumber string  `json:"numero_autorizacion"`
}

type DistributeDividendsResponse struct {
	Msg              string  `json:"mensaje"`
	InvestorCount    int     `json:"inversionistas"`
	TotalDistributed float64 `json:"total_repartido"`
}
