package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"civica/contexts/finance-core/investment-service/domain/entities"
	"civica/contexts/finance-core/investment-service/ports"

	"gorm.io/gorm"
)

const dividendRate = 0.05

// KeyDecrypter opens a passphrase-encrypted credential blob. A nil result
// with a nil error means the passphrase did not match.
type KeyDecrypter interface {
	Decrypt(passphrase string, blob []byte) ([]byte, error)
}

type Repository struct {
	db     *gorm.DB
	cipher KeyDecrypter
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, cipher KeyDecrypter, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		cipher: cipher,
		logger: logger,
	}
}

func (r *Repository) VerifyInvestor(ctx context.Context, identification string, password string) (int64, bool, error) {
	var user userModel
	err := r.db.WithContext(ctx).
		Where("identificacion = ?", identification).
		First(&user).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, r.logError("investment_user_query_failed", err)
	}

	var key userKeyModel
	err = r.db.WithContext(ctx).
		Where("usuario_id = ?", user.UserID).
		Where("es_activa = ?", true).
		Where("deleted = ?", false).
		Order("ultima_modificacion DESC").
		First(&key).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, r.logError("investment_key_query_failed", err, "user_id", user.UserID)
	}

	plaintext, err := r.cipher.Decrypt(password, key.EncryptedKey)
	if err != nil {
		return 0, false, r.logError("investment_key_decrypt_failed", err, "user_id", user.UserID)
	}
	if plaintext == nil {
		return 0, false, nil
	}
	return user.UserID, true, nil
}

func (r *Repository) ProjectExists(ctx context.Context, projectID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&projectModel{}).
		Where("proyecto_id = ?", projectID).
		Count(&count).
		Error
	if err != nil {
		return false, r.logError("investment_project_query_failed", err, "project_id", projectID)
	}
	return count > 0, nil
}

func (r *Repository) SaveInvestment(ctx context.Context, investment entities.Investment) (entities.Investment, error) {
	row := investmentModel{
		ProjectID:           investment.ProjectID,
		Amount:              investment.Amount,
		Currency:            investment.Currency,
		UserID:              investment.UserID,
		OrganizationID:      investment.OrganizationID,
		PaymentMethod:       investment.PaymentMethod,
		Reference:           investment.Reference,
		AuthorizationNumber: investment.AuthorizationNumber,
		InvestedAt:          investment.InvestedAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.Investment{}, r.logError("investment_save_failed", err, "project_id", investment.ProjectID)
	}
	investment.TransactionID = row.TransactionID
	return investment, nil
}

func (r *Repository) DistributeDividends(ctx context.Context, executedAt time.Time) (entities.DividendRound, error) {
	var totals struct {
		InvestorCount int64
		TotalAmount   float64
	}
	err := r.db.WithContext(ctx).
		Model(&investmentModel{}).
		Select("COUNT(DISTINCT usuario_id) AS investor_count", "COALESCE(SUM(monto), 0) AS total_amount").
		Scan(&totals).
		Error
	if err != nil {
		return entities.DividendRound{}, r.logError("dividend_totals_query_failed", err)
	}

	row := dividendRoundModel{
		ExecutedAt:       executedAt.UTC(),
		InvestorCount:    int(totals.InvestorCount),
		TotalDistributed: totals.TotalAmount * dividendRate,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return entities.DividendRound{}, r.logError("dividend_round_save_failed", err)
	}
	return entities.DividendRound{
		RoundID:          row.RoundID,
		ExecutedAt:       row.ExecutedAt,
		InvestorCount:    row.InvestorCount,
		TotalDistributed: row.TotalDistributed,
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
		return r.logError("investment_audit_append_failed", err)
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "finance-core/investment-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("investment repository operation failed", fields...)
	return err
}

type userModel struct {
	UserID         int64  `gorm:"column:user_id;primaryKey"`
	Identification string `gorm:"column:identificacion"`
}

func (userModel) TableName() string {
	return "pv_usuarios"
}

type userKeyModel struct {
	KeyID        int64     `gorm:"column:llave_usuario_id;primaryKey"`
	UserID       int64     `gorm:"column:usuario_id"`
	EncryptedKey []byte    `gorm:"column:llave_cifrada"`
	Active       bool      `gorm:"column:es_activa"`
	Deleted      bool      `gorm:"column:deleted"`
	LastModified time.Time `gorm:"column:ultima_modificacion"`
}

func (userKeyModel) TableName() string {
	return "pv_llaveUsuario"
}

type projectModel struct {
	ProjectID int64 `gorm:"column:proyecto_id;primaryKey"`
}

func (projectModel) TableName() string {
	return "pv_proyectos"
}

type investmentModel struct {
	TransactionID       int64     `gorm:"column:transaccion_id;primaryKey;autoIncrement"`
	ProjectID           int64     `gorm:"column:proyecto_id"`
	Amount              float64   `gorm:"column:monto"`
	Currency            string    `gorm:"column:moneda"`
	UserID              int64     `gorm:"column:usuario_id"`
	OrganizationID      *int64    `gorm:"column:organizacion_id"`
	PaymentMethod       string    `gorm:"column:metodo_pago"`
	Reference           string    `gorm:"column:referencia"`
	AuthorizationNumber string    `gorm:"column:numero_autorizacion"`
	InvestedAt          time.Time `gorm:"column:fecha_inversion"`
}

func (investmentModel) TableName() string {
	return "pv_inversiones"
}

type dividendRoundModel struct {
	RoundID          int64     `gorm:"column:reparto_id;primaryKey;autoIncrement"`
	ExecutedAt       time.Time `gorm:"column:fecha_ejecucion"`
	InvestorCount    int       `gorm:"column:inversionistas"`
	TotalDistributed float64   `gorm:"column:total_repartido"`
}

func (dividendRoundModel) TableName() string {
	return "pv_repartoDividendos"
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

var _ ports.CredentialVerifier = (*Repository)(nil)
var _ ports.ProjectCatalog = (*Repository)(nil)
var _ ports.InvestmentRepository = (*Repository)(nil)
var _ ports.AuditLog = (*Repository)(nil)
