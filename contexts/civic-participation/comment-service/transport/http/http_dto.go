package http

type ErrorResponse struct {
	Error string `json:"error"`
}

type PostCommentRequest struct {
	Title          string `json:"titulo" validate:"required"`
	Body           string `json:"cuerpo" validate:"required"`
	UserID         int64  `json:"usuarioId" validate:"required,gt=0"`
	OrganizationID int64  `json:"organizacionId"`
	ProposalID     int64  `json:"propuestaId" validate:"required,gt=0"`
}

type PostCommentResponse struct {
	Msg    string `json:"msg"`
	Reason string `json:"razon,omitempty"`
}
