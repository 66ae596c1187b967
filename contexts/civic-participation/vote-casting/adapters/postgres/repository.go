package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civica/contexts/civic-participation/vote-casting/domain/entities"
	domainerrors "civica/contexts/civic-participation/vote-casting/domain/errors"
	"civica/contexts/civic-participation/vote-casting/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) GetVoterByIdentification(ctx context.Context, identification string) (entities.Voter, bool, error) {
	var row voterModel
	err := r.db.WithContext(ctx).
		Where("identificacion = ?", identification).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Voter{}, false, nil
		}
		return entities.Voter{}, false, r.logError("vote_repo_get_voter_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) GetActiveKey(ctx context.Context, userID int64) (entities.VoterKey, bool, error) {
	var row voterKeyModel
	err := r.db.WithContext(ctx).
		Where("usuario_id = ?", userID).
		Where("es_activa = ?", true).
		Where("deleted = ?", false).
		Order("ultima_modificacion DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.VoterKey{}, false, nil
		}
		return entities.VoterKey{}, false, r.logError("vote_repo_get_active_key_failed", err, "user_id", userID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ResolveVotationByQuestion(ctx context.Context, questionID int64) (entities.Votation, bool, error) {
	var link votationQuestionModel
	err := r.db.WithContext(ctx).
		Where("pregunta_id = ?", questionID).
		First(&link).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Votation{}, false, nil
		}
		return entities.Votation{}, false, r.logError("vote_repo_resolve_question_link_failed", err, "question_id", questionID)
	}

	var votationRow votationModel
	if err := r.db.WithContext(ctx).
		Where("votacion_id = ?", link.VotationID).
		First(&votationRow).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Votation{}, false, nil
		}
		return entities.Votation{}, false, r.logError("vote_repo_get_votation_failed", err, "votation_id", link.VotationID)
	}

	var links []votationQuestionModel
	if err := r.db.WithContext(ctx).
		Where("votacion_id = ?", link.VotationID).
		Find(&links).
		Error; err != nil {
		return entities.Votation{}, false, r.logError("vote_repo_list_question_links_failed", err, "votation_id", link.VotationID)
	}
	questionIDs := make([]int64, 0, len(links))
	for _, item := range links {
		questionIDs = append(questionIDs, item.QuestionID)
	}

	var questionRows []questionModel
	if err := r.db.WithContext(ctx).
		Where("pregunta_id IN ?", questionIDs).
		Order("pregunta_id ASC").
		Find(&questionRows).
		Error; err != nil {
		return entities.Votation{}, false, r.logError("vote_repo_list_questions_failed", err, "votation_id", link.VotationID)
	}
	var answerRows []answerModel
	if err := r.db.WithContext(ctx).
		Where("pregunta_id IN ?", questionIDs).
		Order("respuesta_id ASC").
		Find(&answerRows).
		Error; err != nil {
		return entities.Votation{}, false, r.logError("vote_repo_list_answers_failed", err, "votation_id", link.VotationID)
	}

	votation := votationRow.toEntity()
	answersByQuestion := make(map[int64][]entities.Answer, len(questionRows))
	for _, row := range answerRows {
		answersByQuestion[row.QuestionID] = append(answersByQuestion[row.QuestionID], row.toEntity())
	}
	for _, row := range questionRows {
		votation.Questions = append(votation.Questions, entities.Question{
			QuestionID: row.QuestionID,
			Prompt:     row.Prompt,
			Answers:    answersByQuestion[row.QuestionID],
		})
	}
	return votation, true, nil
}

func (r *Repository) HasVote(ctx context.Context, voterDigest string, questionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("voter_digest = ?", voterDigest).
		Where("pregunta_id = ?", questionID).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("vote_repo_has_vote_failed", err, "question_id", questionID)
	}
	return count > 0, nil
}

func (r *Repository) SaveVote(ctx context.Context, record entities.VoteRecord) error {
	row := voteModelFromEntity(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrAlreadyVoted
		}
		return r.logError("vote_repo_save_vote_failed", err,
			"question_id", record.QuestionID,
			"token", record.TokenGUID,
		)
	}
	return nil
}

func (r *Repository) ListVotesByDigest(ctx context.Context, voterDigest string, limit int) ([]ports.CastBallot, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []castBallotRow
	err := r.db.WithContext(ctx).
		Table("pv_respuestaParticipante AS rp").
		Select(
			"rp.respuesta_participante_id",
			"rp.pregunta_id",
			"rp.respuesta_id",
			"rp.fecha_respuesta",
			"p.enunciado",
			"a.respuesta",
			"v.titulo",
		).
		Joins("JOIN pv_preguntas AS p ON p.pregunta_id = rp.pregunta_id").
		Joins("JOIN pv_respuestas AS a ON a.respuesta_id = rp.respuesta_id").
		Joins("JOIN pv_votacionPregunta AS vp ON vp.pregunta_id = rp.pregunta_id").
		Joins("JOIN pv_votacion AS v ON v.votacion_id = vp.votacion_id").
		Where("rp.voter_digest = ?", voterDigest).
		Order("rp.fecha_respuesta DESC").
		Limit(limit).
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("vote_repo_list_votes_failed", err)
	}
	ballots := make([]ports.CastBallot, 0, len(rows))
	for _, row := range rows {
		ballots = append(ballots, ports.CastBallot{
			VoteID:        row.VoteID,
			QuestionID:    row.QuestionID,
			AnswerID:      row.AnswerID,
			QuestionText:  row.QuestionText,
			AnswerText:    row.AnswerText,
			VotationTitle: row.VotationTitle,
			CastAt:        row.CastAt.UTC(),
		})
	}
	return ballots, nil
}

func (r *Repository) RecordLivenessProof(ctx context.Context, proof entities.LivenessProof) (int64, error) {
	row := documentModelFromEntity(proof)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, r.logError("vote_repo_record_liveness_failed", err, "legal_id", proof.LegalID)
	}
	return row.DocumentID, nil
}

func (r *Repository) Append(ctx context.Context, entry entities.AuditEntry) error {
	row := auditModel{
		Description: entry.Description,
		Timestamp:   entry.Timestamp.UTC(),
		Computer:    entry.Computer,
		User:        entry.User,
		Trace:       entry.Trace,
		RefID1:      entry.RefID1,
		RefID2:      entry.RefID2,
		Value1:      entry.Value1,
		Value2:      entry.Value2,
		Checksum:    entry.Checksum,
		TypeID:      entry.TypeID,
		OriginID:    entry.OriginID,
		SeverityID:  entry.SeverityID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("vote_repo_audit_append_failed", err)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "civic-participation/vote-casting",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("vote repository operation failed", fields...)
	return err
}

type voterModel struct {
	UserID         int64  `gorm:"column:user_id;primaryKey"`
	Identification string `gorm:"column:identificacion"`
	Name           string `gorm:"column:nombre"`
	FirstSurname   string `gorm:"column:primer_apellido"`
	SecondSurname  string `gorm:"column:segundo_apellido"`
}

func (voterModel) TableName() string {
	return "pv_usuarios"
}

func (m voterModel) toEntity() entities.Voter {
	return entities.Voter{
		UserID:         m.UserID,
		Identification: m.Identification,
		Name:           m.Name,
		FirstSurname:   m.FirstSurname,
		SecondSurname:  m.SecondSurname,
	}
}

type voterKeyModel struct {
	KeyID        int64     `gorm:"column:llave_usuario_id;primaryKey"`
	UserID       int64     `gorm:"column:usuario_id"`
	EncryptedKey []byte    `gorm:"column:llave_cifrada"`
	Active       bool      `gorm:"column:es_activa"`
	Deleted      bool      `gorm:"column:deleted"`
	LastModified time.Time `gorm:"column:ultima_modificacion"`
}

func (voterKeyModel) TableName() string {
	return "pv_llaveUsuario"
}

func (m voterKeyModel) toEntity() entities.VoterKey {
	return entities.VoterKey{
		KeyID:        m.KeyID,
		UserID:       m.UserID,
		EncryptedKey: append([]byte(nil), m.EncryptedKey...),
		Active:       m.Active,
		Deleted:      m.Deleted,
		LastModified: m.LastModified.UTC(),
	}
}

type votationModel struct {
	VotationID   int64     `gorm:"column:votacion_id;primaryKey"`
	TypeID       int64     `gorm:"column:tipo_votacion_id"`
	Title        string    `gorm:"column:titulo"`
	Description  string    `gorm:"column:descripcion"`
	StartsAt     time.Time `gorm:"column:fecha_inicio"`
	EndsAt       time.Time `gorm:"column:fecha_fin"`
	StatusID     int64     `gorm:"column:estado_votacion_id"`
	LastModified time.Time `gorm:"column:ultima_modificacion"`
	Private      bool      `gorm:"column:privada"`
	Secret       bool      `gorm:"column:es_secreta"`
}

func (votationModel) TableName() string {
	return "pv_votacion"
}

func (m votationModel) toEntity() entities.Votation {
	return entities.Votation{
		VotationID:   m.VotationID,
		TypeID:       m.TypeID,
		Title:        m.Title,
		Description:  m.Description,
		StartsAt:     m.StartsAt.UTC(),
		EndsAt:       m.EndsAt.UTC(),
		StatusID:     m.StatusID,
		LastModified: m.LastModified.UTC(),
		Private:      m.Private,
		Secret:       m.Secret,
	}
}

type questionModel struct {
	QuestionID int64  `gorm:"column:pregunta_id;primaryKey"`
	Prompt     string `gorm:"column:enunciado"`
}

func (questionModel) TableName() string {
	return "pv_preguntas"
}

type answerModel struct {
	AnswerID   int64  `gorm:"column:respuesta_id;primaryKey"`
	QuestionID int64  `gorm:"column:pregunta_id"`
	Label      string `gorm:"column:respuesta"`
	Value      string `gorm:"column:value"`
}

func (answerModel) TableName() string {
	return "pv_respuestas"
}

func (m answerModel) toEntity() entities.Answer {
	return entities.Answer{
		AnswerID:   m.AnswerID,
		QuestionID: m.QuestionID,
		Label:      m.Label,
		Value:      m.Value,
	}
}

type votationQuestionModel struct {
	VotationID int64 `gorm:"column:votacion_id"`
	QuestionID int64 `gorm:"column:pregunta_id"`
}

func (votationQuestionModel) TableName() string {
	return "pv_votacionPregunta"
}

type voteModel struct {
	VoteID       int64     `gorm:"column:respuesta_participante_id;primaryKey;autoIncrement"`
	QuestionID   int64     `gorm:"column:pregunta_id"`
	AnswerID     int64     `gorm:"column:respuesta_id"`
	Value        string    `gorm:"column:valor"`
	WeightID     int64     `gorm:"column:peso_respuesta"`
	TokenGUID    string    `gorm:"column:token_guid"`
	CastAt       time.Time `gorm:"column:fecha_respuesta"`
	Checksum     []byte    `gorm:"column:checksum"`
	LinkageToken []byte    `gorm:"column:nc_respuesta"`
	VoterDigest  string    `gorm:"column:voter_digest"`
}

func (voteModel) TableName() string {
	return "pv_respuestaParticipante"
}

func voteModelFromEntity(record entities.VoteRecord) voteModel {
	return voteModel{
		VoteID:       record.VoteID,
		QuestionID:   record.QuestionID,
		AnswerID:     record.AnswerID,
		Value:        record.Value,
		WeightID:     record.WeightID,
		TokenGUID:    record.TokenGUID,
		CastAt:       record.CastAt.UTC(),
		Checksum:     record.Checksum,
		LinkageToken: record.LinkageToken,
		VoterDigest:  record.VoterDigest,
	}
}

type castBallotRow struct {
	VoteID        int64     `gorm:"column:respuesta_participante_id"`
	QuestionID    int64     `gorm:"column:pregunta_id"`
	AnswerID      int64     `gorm:"column:respuesta_id"`
	CastAt        time.Time `gorm:"column:fecha_respuesta"`
	QuestionText  string    `gorm:"column:enunciado"`
	AnswerText    string    `gorm:"column:respuesta"`
	VotationTitle string    `gorm:"column:titulo"`
}

type documentModel struct {
	DocumentID   int64     `gorm:"column:documento_id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:nombre"`
	CreatedAt    time.Time `gorm:"column:fecha_creacion"`
	TypeID       int64     `gorm:"column:tipo_documento_id"`
	StatusID     int64     `gorm:"column:estado_documento_id"`
	LastModified time.Time `gorm:"column:ultima_modificacion"`
	Current      bool      `gorm:"column:es_actual"`
	LegalID      string    `gorm:"column:id_legal"`
	Checksum     []byte    `gorm:"column:checksum"`
}

func (documentModel) TableName() string {
	return "pv_documento"
}

func documentModelFromEntity(proof entities.LivenessProof) documentModel {
	return documentModel{
		Name:         proof.Name,
		CreatedAt:    proof.CreatedAt.UTC(),
		TypeID:       proof.TypeID,
		StatusID:     proof.StatusID,
		LastModified: proof.LastModified.UTC(),
		Current:      proof.Current,
		LegalID:      proof.LegalID,
		Checksum:     proof.Checksum,
	}
}

type auditModel struct {
	LogID       int64     `gorm:"column:log_id;primaryKey;autoIncrement"`
	Description string    `gorm:"column:descripcion"`
	Timestamp   time.Time `gorm:"column:timestamp"`
	Computer    string    `gorm:"column:computador"`
	User        string    `gorm:"column:usuario"`
	Trace       string    `gorm:"column:trace"`
	RefID1      *int64    `gorm:"column:ref_id1"`
	RefID2      *int64    `gorm:"column:ref_id2"`
	Value1      string    `gorm:"column:valor1"`
	Value2      string    `gorm:"column:valor2"`
	Checksum    []byte    `gorm:"column:checksum"`
	TypeID      int       `gorm:"column:tipo_log_id"`
	OriginID    int       `gorm:"column:origen_log_id"`
	SeverityID  int       `gorm:"column:log_severidad_id"`
}

func (auditModel) TableName() string {
	return "pv_logs"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.VoterDirectory = (*Repository)(nil)
var _ ports.BallotCatalog = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.LivenessRecorder = (*Repository)(nil)
var _ ports.AuditLog = (*Repository)(nil)
