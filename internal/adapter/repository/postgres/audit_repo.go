package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/propertyops/rentledger/internal/domain"
	"github.com/propertyops/rentledger/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

const auditInsert = `
	INSERT INTO audit_logs (id, actor_id, action, resource_type, resource_id,
		before_state, after_state, status, error_message, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create inserts an audit log outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	before, after, err := marshalStates(log)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, auditInsert,
		log.ID, log.ActorID, string(log.Action), log.ResourceType, log.ResourceID,
		before, after, string(log.Status), log.ErrorMessage, timeToPg(log.CreatedAt),
	)

	return err
}

// CreateTx inserts an audit log within the caller's transaction so the
// trail commits or rolls back with the action it records.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	before, after, err := marshalStates(log)
	if err != nil {
		return err
	}

	_, err = txOf(tx).Exec(ctx, auditInsert,
		log.ID, log.ActorID, string(log.Action), log.ResourceType, log.ResourceID,
		before, after, string(log.Status), log.ErrorMessage, timeToPg(log.CreatedAt),
	)

	return err
}

// GetByResourceID lists the audit trail for a resource, newest first.
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, actor_id, action, resource_type, resource_id,
			before_state, after_state, status, error_message, created_at
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC`, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log           domain.AuditLog
			action        string
			status        string
			before, after []byte
			createdAt     pgtype.Timestamptz
		)

		err := rows.Scan(&log.ID, &log.ActorID, &action, &log.ResourceType,
			&log.ResourceID, &before, &after, &status, &log.ErrorMessage, &createdAt)
		if err != nil {
			return nil, err
		}

		log.Action = domain.AuditAction(action)
		log.Status = domain.AuditStatus(status)
		log.CreatedAt = createdAt.Time
		if len(before) > 0 {
			_ = json.Unmarshal(before, &log.BeforeState)
		}
		if len(after) > 0 {
			_ = json.Unmarshal(after, &log.AfterState)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

func marshalStates(log *domain.AuditLog) ([]byte, []byte, error) {
	before, err := json.Marshal(log.BeforeState)
	if err != nil {
		return nil, nil, err
	}

	after, err := json.Marshal(log.AfterState)
	if err != nil {
		return nil, nil, err
	}

	return before, after, nil
}
