package http

// ErrorResponse is the wire shape for every vote-casting failure. Codigo is
// only populated for credential failures so clients can distinguish a bad
// passphrase from an unknown identity without leaking which one happened
// in the message text.
type ErrorResponse struct {
	Error  string `json:"error"`
	Codigo string `json:"codigo,omitempty"`
}

type CastVoteRequest struct {
	QuestionID     int64  `json:"preguntaID" validate:"required,gt=0"`
	AnswerID       int64  `json:"respuestaID" validate:"required,gt=0"`
	Value          string `json:"valor" validate:"max=100"`
	WeightID       int64  `json:"pesoRespuesta" validate:"required,gt=0"`
	Identification string `json:"cedulaUsuario" validate:"required"`
	Password       string `json:"contrasenia" validate:"required"`
	LivenessProof  string `json:"prueba_vida" validate:"required"`
}

type CastVoteResponse struct {
	Msg string `json:"msg"`
}

type ListVotesRequest struct {
	Identification string `json:"cedula" validate:"required"`
	Password       string `json:"contrasenna" validate:"required"`
	LivenessProof  string `json:"prueba_vida" validate:"required"`
}

type VoteSummary struct {
	VoteID        int64  `json:"respuestaParticipanteID"`
	QuestionID    int64  `json:"preguntaID"`
	QuestionText  string `json:"pregunta"`
	AnswerID      int64  `json:"respuestaID"`
	AnswerText    string `json:"respuesta"`
	VotationTitle string `json:"votacion"`
	CastAt        string `json:"fecha"`
}

type ListVotesResponse struct {
	UserID        int64         `json:"user_id"`
	Name          string        `json:"nombre"`
	FirstSurname  string        `json:"primerApellido"`
	SecondSurname string        `json:"segundoApellido"`
	Votes         []VoteSummary `json:"respuestas"`
}
