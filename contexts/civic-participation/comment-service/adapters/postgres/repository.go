package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civica/contexts/civic-participation/comment-service/domain/entities"
	"civica/contexts/civic-participation/comment-service/ports"

	"gorm.io/gorm"
)

// commentPermissionID is the pv_permisos entry required to comment.
const commentPermissionID int64 = 21

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

func (r *Repository) HasCommentPermission(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("pv_usuariosPermisos").
		Where("user_id = ?", userID).
		Where("permiso_id = ?", commentPermissionID).
		Where("enabled = ?", true).
		Where("deleted = ?", false).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("comment_permission_query_failed", err, "user_id", userID)
	}
	return count > 0, nil
}

func (r *Repository) CommentsAllowed(ctx context.Context, proposalID int64) (bool, bool, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("propuesta_id = ?", proposalID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, r.logError("comment_proposal_query_failed", err, "proposal_id", proposalID)
	}
	return row.CommentsAllowed, true, nil
}

func (r *Repository) SaveComment(ctx context.Context, detail entities.CommentDetail, statusID int64, proposalID int64) (entities.CommentLink, error) {
	detailRow := commentDetailModel{
		Title:          detail.Title,
		Body:           detail.Body,
		Encrypted:      detail.Encrypted,
		PublishedAt:    detail.PublishedAt.UTC(),
		UserID:         detail.UserID,
		OrganizationID: detail.OrganizationID,
	}
	var linkRow commentLinkModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&detailRow).Error; err != nil {
			return err
		}
		linkRow = commentLinkModel{
			DetailID:   detailRow.DetailID,
			StatusID:   statusID,
			ProposalID: proposalID,
		}
		return tx.Create(&linkRow).Error
	})
	if err != nil {
		return entities.CommentLink{}, r.logError("comment_save_failed", err, "proposal_id", proposalID)
	}
	return entities.CommentLink{
		CommentID:  linkRow.CommentID,
		DetailID:   detailRow.DetailID,
		StatusID:   statusID,
		ProposalID: proposalID,
	}, nil
}

func (r *Repository) SaveDocument(ctx context.Context, document entities.SensitiveDocument) (int64, error) {
	row := documentModel{
		Name:         document.Name,
		CreatedAt:    document.CreatedAt.UTC(),
		TypeID:       document.TypeID,
		StatusID:     document.StatusID,
		LastModified: document.LastModified.UTC(),
		Current:      document.Current,
		LegalID:      document.LegalID,
		Checksum:     document.Checksum,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, r.logError("comment_document_save_failed", err, "legal_id", document.LegalID)
	}
	return row.DocumentID, nil
}

func (r *Repository) EnqueueAnalysis(ctx context.Context, job entities.AnalysisJob) (int64, error) {
	row := analysisJobModel{
		RequestedAt: job.RequestedAt.UTC(),
		StatusID:    job.StatusID,
		StartedAt:   job.StartedAt.UTC(),
		FinishedAt:  job.FinishedAt,
		DetailID:    job.DetailID,
		ContextID:   job.ContextID,
		DocumentID:  job.DocumentID,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return 0, r.logError("comment_analysis_enqueue_failed", err, "detail_id", job.DetailID)
	}
	return row.JobID, nil
}

func (r *Repository) ListPendingJobs(ctx context.Context, limit int) ([]entities.AnalysisJob, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []analysisJobModel
	err := r.db.WithContext(ctx).
		Where("ia_estado_id = ?", entities.AnalysisStatusPending).
		Order("fecha_solicitud ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("comment_analysis_list_failed", err)
	}
	jobs := make([]entities.AnalysisJob, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, entities.AnalysisJob{
			JobID:       row.JobID,
			RequestedAt: row.RequestedAt.UTC(),
			StatusID:    row.StatusID,
			StartedAt:   row.StartedAt.UTC(),
			FinishedAt:  row.FinishedAt,
			DetailID:    row.DetailID,
			ContextID:   row.ContextID,
			DocumentID:  row.DocumentID,
		})
	}
	return jobs, nil
}

func (r *Repository) CompleteJob(ctx context.Context, jobID int64, finishedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&analysisJobModel{}).
		Where("ia_analisis_id = ?", jobID).
		Updates(map[string]any{
			"ia_estado_id":       entities.AnalysisStatusCompleted,
			"fecha_finalizacion": finishedAt.UTC(),
		}).
		Error
	if err != nil {
		return r.logError("comment_analysis_complete_failed", err, "job_id", jobID)
	}
	return nil
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
		return r.logError("comment_audit_append_failed", err)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "civic-participation/comment-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("comment repository operation failed", fields...)
	return err
}

type proposalModel struct {
	ProposalID      int64 `gorm:"column:propuesta_id;primaryKey"`
	CommentsAllowed bool  `gorm:"column:comentarios"`
}

func (proposalModel) TableName() string {
	return "pv_propuestas"
}

type commentDetailModel struct {
	DetailID       int64     `gorm:"column:detalle_comentario_id;primaryKey;autoIncrement"`
	Title          string    `gorm:"column:titulo"`
	Body           []byte    `gorm:"column:cuerpo"`
	Encrypted      bool      `gorm:"column:cifrado"`
	PublishedAt    time.Time `gorm:"column:fecha_publicacion"`
	UserID         int64     `gorm:"column:usuario_id"`
	OrganizationID int64     `gorm:"column:organizacion_id"`
}

func (commentDetailModel) TableName() string {
	return "pv_detalleComentarios"
}

type commentLinkModel struct {
	CommentID  int64 `gorm:"column:comentario_propuesta_id;primaryKey;autoIncrement"`
	DetailID   int64 `gorm:"column:detalle_comentario_id"`
	StatusID   int64 `gorm:"column:estado_coment_id"`
	ProposalID int64 `gorm:"column:propuesta_id"`
}

func (commentLinkModel) TableName() string {
	return "pv_comentarioPropuesta"
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

type analysisJobModel struct {
	JobID       int64      `gorm:"column:ia_analisis_id;primaryKey;autoIncrement"`
	RequestedAt time.Time  `gorm:"column:fecha_solicitud"`
	StatusID    int64      `gorm:"column:ia_estado_id"`
	StartedAt   time.Time  `gorm:"column:fecha_comienzo"`
	FinishedAt  *time.Time `gorm:"column:fecha_finalizacion"`
	DetailID    int64      `gorm:"column:info_id"`
	ContextID   int64      `gorm:"column:contexto_id"`
	DocumentID  int64      `gorm:"column:documento_id"`
}

func (analysisJobModel) TableName() string {
	return "pv_iaAnalisis"
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

var _ ports.CommenterDirectory = (*Repository)(nil)
var _ ports.ProposalGate = (*Repository)(nil)
var _ ports.CommentRepository = (*Repository)(nil)
var _ ports.DocumentStore = (*Repository)(nil)
var _ ports.AnalysisJobs = (*Repository)(nil)
var _ ports.AuditLog = (*Repository)(nil)
