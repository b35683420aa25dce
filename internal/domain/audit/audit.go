package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Administrative actions worth a trail: month confirmations, payments,
// salary issues, sheet deletes.
const (
	ActionConfirmMonth  = "billing.month.confirm"
	ActionApplyPayment  = "billing.payment.apply"
	ActionLockPaid      = "billing.invoice.lock_paid"
	ActionIssueSalary   = "payroll.salary.issue"
	ActionDeleteSheet   = "sheets.sheet.delete"
	ActionRecordSend    = "sends.record"
	ActionCreateInvoice = "billing.invoice.create"
)

type Event struct {
	ID        string          `json:"id"`
	Actor     string          `json:"actor"`
	Action    string          `json:"action"`
	Entity    string          `json:"entity"`
	EntityID  string          `json:"entityId"`
	RequestID string          `json:"requestId"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

func (s *Service) Record(ctx context.Context, actor, action, entity, entityID, requestID string, details any) error {
	var detailsJSON []byte
	if details != nil {
		payload, err := json.Marshal(details)
		if err != nil {
			return err
		}
		detailsJSON = payload
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_log (actor, action, entity, entity_id, request_id, details)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, actor, action, entity, entityID, requestID, detailsJSON)
	return err
}

func (s *Service) List(ctx context.Context, action string, limit, offset int) ([]Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, actor, action, entity, entity_id, COALESCE(request_id, ''), details, created_at
    FROM audit_log
    WHERE ($1 = '' OR action = $1)
    ORDER BY created_at DESC
    LIMIT $2 OFFSET $3
  `, action, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		if err := rows.Scan(&event.ID, &event.Actor, &event.Action, &event.Entity, &event.EntityID, &event.RequestID, &event.Details, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
