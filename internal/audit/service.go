package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/models"

	"gorm.io/gorm"
)

// Actor identifies the user behind a change.
type Actor struct {
	UserID uint
	Name   string
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func ActorFrom(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

type LogOptions struct {
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog stores one audit row through db. Pass the transaction handle so
// the row commits or rolls back together with the change it describes.
func WriteLog(ctx context.Context, db *gorm.DB, opts LogOptions) error {
	beforeStr, err := marshalState(opts.Before)
	if err != nil {
		return fmt.Errorf("marshal before state: %w", err)
	}
	afterStr, err := marshalState(opts.After)
	if err != nil {
		return fmt.Errorf("marshal after state: %w", err)
	}

	entry := models.AuditLog{
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}
	if a, ok := ActorFrom(ctx); ok {
		uid := a.UserID
		entry.UserID = &uid
		entry.UserName = a.Name
	}

	if err := db.WithContext(ctx).Create(&entry).Error; err != nil {
		return apperr.Storage("write audit log", err)
	}
	return nil
}

// "null" rather than "" keeps the column valid JSON.
func marshalState(v any) (string, error) {
	if v == nil {
		return "null", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type ListFilter struct {
	EntityType string
	EntityID   uint
	UserID     uint
	Limit      int
}

const maxListLimit = 500

// List returns audit rows newest first.
func List(ctx context.Context, db *gorm.DB, f ListFilter) ([]models.AuditLog, error) {
	q := db.WithContext(ctx).Model(&models.AuditLog{})
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID > 0 {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	logs := make([]models.AuditLog, 0)
	if err := q.Order("created_at desc, id desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, apperr.Storage("list audit logs", err)
	}
	return logs, nil
}
