package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civica/contexts/proposal-lifecycle/proposal-service/domain/entities"
	"civica/contexts/proposal-lifecycle/proposal-service/ports"

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

func (r *Repository) GetProposal(ctx context.Context, proposalID int64) (entities.Proposal, bool, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("propuesta_id = ?", proposalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, false, nil
		}
		return entities.Proposal{}, false, r.logError("proposal_get_failed", err, "proposal_id", proposalID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateProposal(ctx context.Context, draft entities.ProposalDraft, checksum []byte) (entities.Proposal, error) {
	now := time.Now().UTC()
	row := proposalModel{
		CategoryID:      draft.CategoryID,
		Description:     draft.Description,
		ImageURL:        draft.ImageURL,
		StartsAt:        draft.StartsAt,
		EndsAt:          draft.EndsAt.UTC(),
		CommentsAllowed: draft.CommentsAllowed,
		TypeID:          draft.TypeID,
		OrganizationID:  draft.OrganizationID,
		UserID:          draft.UserID,
		StatusID:        entities.ProposalStatusInReview,
		Version:         1,
		Checksum:        checksum,
		LastModified:    now,
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return r.writeRelations(tx, row.ProposalID, draft, checksum, 1, now)
	})
	if err != nil {
		return entities.Proposal{}, r.logError("proposal_create_failed", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateProposal(ctx context.Context, draft entities.ProposalDraft, checksum []byte, version int64) (entities.Proposal, error) {
	now := time.Now().UTC()
	var row proposalModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&proposalModel{}).
			Where("propuesta_id = ?", draft.ProposalID).
			Updates(map[string]any{
				"categoria_id":        draft.CategoryID,
				"descripcion":         draft.Description,
				"img_url":             draft.ImageURL,
				"fecha_inicio":        draft.StartsAt,
				"fecha_fin":           draft.EndsAt.UTC(),
				"comentarios":         draft.CommentsAllowed,
				"tipo_propuesta_id":   draft.TypeID,
				"organizacion_id":     draft.OrganizationID,
				"version":             version,
				"checksum":            checksum,
				"ultima_modificacion": now,
			}).Error; err != nil {
			return err
		}
		// Prior segment targeting is superseded by the new draft.
		if err := tx.Table("pv_segmentoPropuesta").
			Where("propuesta_id = ?", draft.ProposalID).
			Update("deleted", true).Error; err != nil {
			return err
		}
		if err := r.writeRelations(tx, draft.ProposalID, draft, checksum, version, now); err != nil {
			return err
		}
		return tx.Where("propuesta_id = ?", draft.ProposalID).First(&row).Error
	})
	if err != nil {
		return entities.Proposal{}, r.logError("proposal_update_failed", err, "proposal_id", draft.ProposalID)
	}
	return row.toEntity(), nil
}

func (r *Repository) writeRelations(tx *gorm.DB, proposalID int64, draft entities.ProposalDraft, checksum []byte, version int64, now time.Time) error {
	versionRow := proposalVersionModel{
		ProposalID: proposalID,
		Version:    version,
		CreatedAt:  now,
		Checksum:   checksum,
	}
	if err := tx.Create(&versionRow).Error; err != nil {
		return err
	}
	for _, segmentID := range draft.TargetSegmentIDs {
		segment := proposalSegmentModel{
			ProposalID: proposalID,
			SegmentID:  segmentID,
			UserID:     draft.UserID,
			Deleted:    false,
			Checksum:   []byte("NA"),
		}
		if err := tx.Create(&segment).Error; err != nil {
			return err
		}
	}
	for _, segmentID := range draft.ImpactSegmentIDs {
		impact := proposalImpactSegmentModel{
			ProposalID: proposalID,
			SegmentID:  segmentID,
			Deleted:    false,
		}
		if err := tx.Create(&impact).Error; err != nil {
			return err
		}
	}
	for _, attachment := range draft.Attachments {
		document := documentModel{
			Name:         attachment.Name,
			CreatedAt:    now,
			TypeID:       attachment.TypeID,
			StatusID:     1,
			LastModified: now,
			Current:      true,
			LegalID:      attachment.LegalID,
			Checksum:     checksum,
		}
		if err := tx.Create(&document).Error; err != nil {
			return err
		}
		link := proposalDocumentModel{
			ProposalID: proposalID,
			DocumentID: document.DocumentID,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) RecordReview(ctx context.Context, review entities.ReviewRecord, newStatusID int64) (entities.ReviewRecord, error) {
	row := reviewModel{
		ProposalID: review.ProposalID,
		ReviewerID: review.ReviewerID,
		Outcome:    review.Outcome,
		Comments:   review.Comments,
		ReviewType: review.ReviewType,
		ReviewedAt: review.ReviewedAt.UTC(),
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return tx.Model(&proposalModel{}).
			Where("propuesta_id = ?", review.ProposalID).
			Updates(map[string]any{
				"estado_propuesta_id": newStatusID,
				"ultima_modificacion": row.ReviewedAt,
			}).Error
	})
	if err != nil {
		return entities.ReviewRecord{}, r.logError("proposal_review_record_failed", err, "proposal_id", review.ProposalID)
	}
	review.ReviewID = row.ReviewID
	return review, nil
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
		return r.logError("proposal_audit_append_failed", err)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "proposal-lifecycle/proposal-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("proposal repository operation failed", fields...)
	return err
}

type proposalModel struct {
	ProposalID      int64      `gorm:"column:propuesta_id;primaryKey;autoIncrement"`
	CategoryID      int64      `gorm:"column:categoria_id"`
	Description     string     `gorm:"column:descripcion"`
	ImageURL        string     `gorm:"column:img_url"`
	StartsAt        *time.Time `gorm:"column:fecha_inicio"`
	EndsAt          time.Time  `gorm:"column:fecha_fin"`
	CommentsAllowed bool       `gorm:"column:comentarios"`
	TypeID          int64      `gorm:"column:tipo_propuesta_id"`
	OrganizationID  int64      `gorm:"column:organizacion_id"`
	UserID          int64      `gorm:"column:user_id"`
	StatusID        int64      `gorm:"column:estado_propuesta_id"`
	Version         int64      `gorm:"column:version"`
	Checksum        []byte     `gorm:"column:checksum"`
	LastModified    time.Time  `gorm:"column:ultima_modificacion"`
}

func (proposalModel) TableName() string {
	return "pv_propuestas"
}

func (m proposalModel) toEntity() entities.Proposal {
	return entities.Proposal{
		ProposalID:      m.ProposalID,
		CategoryID:      m.CategoryID,
		Description:     m.Description,
		ImageURL:        m.ImageURL,
		StartsAt:        m.StartsAt,
		EndsAt:          m.EndsAt.UTC(),
		CommentsAllowed: m.CommentsAllowed,
		TypeID:          m.TypeID,
		OrganizationID:  m.OrganizationID,
		UserID:          m.UserID,
		StatusID:        m.StatusID,
		Version:         m.Version,
		Checksum:        append([]byte(nil), m.Checksum...),
		LastModified:    m.LastModified.UTC(),
	}
}

type proposalVersionModel struct {
	VersionID  int64     `gorm:"column:version_propuesta_id;primaryKey;autoIncrement"`
	ProposalID int64     `gorm:"column:propuesta_id"`
	Version    int64     `gorm:"column:version"`
	CreatedAt  time.Time `gorm:"column:fecha_creacion"`
	Checksum   []byte    `gorm:"column:checksum"`
}

func (proposalVersionModel) TableName() string {
	return "pv_versionPropuesta"
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

type proposalImpactSegmentModel struct {
	ProposalID int64 `gorm:"column:propuesta_id"`
	SegmentID  int64 `gorm:"column:segmento_id"`
	Deleted    bool  `gorm:"column:deleted"`
}

func (proposalImpactSegmentModel) TableName() string {
	return "pv_propuestaSegmentosImpacto"
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

type proposalDocumentModel struct {
	ProposalID int64 `gorm:"column:propuesta_id"`
	DocumentID int64 `gorm:"column:documento_id"`
}

func (proposalDocumentModel) TableName() string {
	return "pv_propuestaDocumento"
}

type reviewModel struct {
	ReviewID   int64     `gorm:"column:revision_id;primaryKey;autoIncrement"`
	ProposalID int64     `gorm:"column:propuesta_id"`
	ReviewerID int64     `gorm:"column:revisor_id"`
	Outcome    string    `gorm:"column:resultado_final"`
	Comments   string    `gorm:"column:comentarios_revision"`
	ReviewType string    `gorm:"column:tipo_revision"`
	ReviewedAt time.Time `gorm:"column:fecha_revision"`
}

func (reviewModel) TableName() string {
	return "pv_revisionPropuesta"
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

var _ ports.ProposalRepository = (*Repository)(nil)
var _ ports.ReviewRepository = (*Repository)(nil)
var _ ports.AuditLog = (*Repository)(nil)
