package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

type ConfigureVotationRequest struct {
	UserID      int64     `json:"usuarioID" validate:"required,gt=0"`
	ProposalID  int64     `json:"propuestaID" validate:"required,gt=0"`
	TypeID      int64     `json:"tipoVotacionId" validate:"required,gt=0"`
	Title       string    `json:"titulo" validate:"required"`
	Description string    `json:"descripcion"`
	StartsAt    time.Time `json:"fechaInicio" validate:"required"`
	EndsAt      time.Time `json:"fechaFin" validate:"required"`
	Private     bool      `json:"privada"`
	Secret      bool      `json:"esSecreta"`
	SegmentIDs  []int64   `json:"segmentosSeleccionados"`
	Questions   []struct {
		QuestionID int64 `json:"preguntaID" validate:"required,gt=0"`
	} `json:"preguntas" validate:"required,min=1,dive"`
}

type ConfigureVotationResponse struct {
	Message    string `json:"mensaje"`
	VotationID int64  `json:"votacionID"`
}
