package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civica/contexts/civic-participation/votation-config/domain/entities"
	"civica/contexts/civic-participation/votation-config/ports"

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

func (r *Repository) IsProposalOwner(ctx context.Context, proposalID int64, userID int64) (bool, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("propuesta_id = ?", proposalID).
		Where("user_id = ?", userID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, r.logError("votation_config_ownership_query_failed", err, "proposal_id", proposalID)
	}
	return true, nil
}

func (r *Repository) QuestionExists(ctx context.Context, questionID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&questionModel{}).
		Where("pregunta_id = ?", questionID).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("votation_config_question_query_failed", err, "question_id", questionID)
	}
	return count > 0, nil
}

// CreateVotation writes the votation, the proposal link, the segment links and
// the question links in a single transaction.
func (r *Repository) CreateVotation(ctx context.Context, draft entities.VotationDraft) (entities.ConfiguredVotation, error) {
	now := time.Now().UTC()
	row := votationModel{
		TypeID:       draft.TypeID,
		Title:        draft.Title,
		Description:  draft.Description,
		StartsAt:     draft.StartsAt.UTC(),
		EndsAt:       draft.EndsAt.UTC(),
		StatusID:     entities.VotationStatusPrepared,
		LastModified: now,
		Private:      draft.Private,
		Secret:       draft.Secret,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		link := proposalVotationModel{
			VotationID: row.VotationID,
			ProposalID: draft.ProposalID,
			UserID:     draft.UserID,
			Deleted:    false,
			Checksum:   []byte("NA"),
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
		for _, segmentID := range draft.SegmentIDs {
			segment := proposalSegmentModel{
				ProposalID: draft.ProposalID,
				SegmentID:  segmentID,
				UserID:     draft.UserID,
				Deleted:    false,
				Checksum:   []byte("NA"),
			}
			if err := tx.Create(&segment).Error; err != nil {
				return err
			}
		}
		for _, questionID := range draft.QuestionIDs {
			questionLink := votationQuestionModel{
				VotationID: row.VotationID,
				QuestionID: questionID,
			}
			if err := tx.Create(&questionLink).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return entities.ConfiguredVotation{}, r.logError("votation_config_create_failed", err, "proposal_id", draft.ProposalID)
	}

	return entities.ConfiguredVotation{
		VotationID:   row.VotationID,
		ProposalID:   draft.ProposalID,
		TypeID:       row.TypeID,
		Title:        row.Title,
		Description:  row.Description,
		StartsAt:     row.StartsAt,
		EndsAt:       row.EndsAt,
		StatusID:     row.StatusID,
		LastModified: row.LastModified,
		Private:      row.Private,
		Secret:       row.Secret,
	}, nil
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
		return r.logError("votation_config_audit_append_failed", err)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "civic-participation/votation-config",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("votation config repository operation failed", fields...)
	return err
}

type proposalModel struct {
	ProposalID int64 `gorm:"column:propuesta_id;primaryKey"`
	UserID     int64 `gorm:"column:user_id"`
}

func (proposalModel) TableName() string {
	return "pv_propuestas"
}

type questionModel struct {
	QuestionID int64 `gorm:"column:pregunta_id;primaryKey"`
}

func (questionModel) TableName() string {
	return "pv_preguntas"
}

type votationModel struct {
	VotationID   int64     `gorm:"column:votacion_id;primaryKey;autoIncrement"`
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

type proposalVotationModel struct {
	VotationID int64  `gorm:"column:votacion_id"`
	ProposalID int64  `gorm:"column:propuesta_id"`
	UserID     int64  `gorm:"column:usuario_id"`
	Deleted    bool   `gorm:"column:deleted"`
	Checksum   []byte `gorm:"column:checksum"`
}

func (proposalVotationModel) TableName() string {
	return "pv_propuestaVotacion"
}

type proposalSegmentModel struct {
	ProposalID int64  `gorm:"column:propuesta_id"`
	SegmentID  int64  `gorm:"column:segmento_id"`
	UserID     int64  `gorm:"column:usuario_id"`
	Deleted    bool   `gorm:"column:deleted"`
	Checksum   []byte `gorm:"column:checksum"`
}

func (proposalSegmentModel) TableName() string {
	return "pv_segmentoPropuesta"
}

type votationQuestionModel struct {
	VotationID int64 `gorm:"column:votacion_id"`
	QuestionID int64 `gorm:"column:pregunta_id"`
}

func (votationQuestionModel) TableName() string {
	return "pv_votacionPregunta"
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

var _ ports.ProposalOwnership = (*Repository)(nil)
var _ ports.QuestionCatalog = (*Repository)(nil)
var _ ports.VotationWriter = (*Repository)(nil)
var _ ports.AuditLog = (*Repository)(nil)
