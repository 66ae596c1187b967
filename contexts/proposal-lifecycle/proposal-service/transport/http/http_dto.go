package http

import "time"

type ErrorResponse struct {
	Error string `json:"error"`
}

// UpsertProposalRequest mirrors the legacy wire contract: segment and
// attachment collections arrive as JSON-serialized strings.
type UpsertProposalRequest struct {
	ProposalID       *int64     `json:"PropuestaID"`
	CategoryID       int64      `json:"CategoriaID" validate:"required,gt=0"`
	Description      string     `json:"Descripcion" validate:"required"`
	ImageURL         string     `json:"ImgURL"`
	StartsAt         *time.Time `json:"FechaInicio"`
	EndsAt           time.Time  `json:"FechaFin" validate:"required"`
	CommentsAllowed  bool       `json:"Comentarios"`
	TypeID           int64      `json:"TipoPropuestaID" validate:"required,gt=0"`
	OrganizationID   int64      `json:"OrganizacionID" validate:"required,gt=0"`
	TargetSegmentsJS string     `json:"SegmentosDirigidosJS"`
	ImpactSegmentsJS string     `json:"SegmentosImpactoJS"`
	AttachmentsJS    string     `json:"AdjuntosJS"`
	UserID           int64      `json:"UsuarioAccion" validate:"required,gt=0"`
	OriginTeam       string     `json:"EquipoOrigen"`
}

type AttachmentPayload struct {
	Name    string `json:"nombre"`
	TypeID  int64  `json:"tipoDocumentoID"`
	LegalID string `json:"idLegal"`
}

type UpsertProposalResponse struct {
	ProposalID int64  `json:"propuestaID"`
	Version    int64  `json:"version"`
	Checksum   string `json:"checksum"`
	Message    string `json:"mensaje"`
}

type ReviewProposalRequest struct {
	ProposalID int64  `json:"propuesta_id" validate:"required,gt=0"`
	ReviewerID int64  `json:"revisor_id" validate:"required,gt=0"`
	Outcome    string `json:"resultado_final" validate:"required"`
	Comments   string `json:"comentarios_revision"`
	ReviewType string `json:"tipo_revision"`
}

type ReviewProposalResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
