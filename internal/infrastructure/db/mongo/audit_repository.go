package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/helpdeskhq/console-gateway/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository stores append-only audit events in MongoDB. Events are
// never updated or deleted by the gateway.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuditEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Type      string             `bson:"type"`
	SubjectID string             `bson:"subject_id,omitempty"`
	Email     string             `bson:"email,omitempty"`
	Role      string             `bson:"role,omitempty"`
	Path      string             `bson:"path,omitempty"`
	Decision  string             `bson:"decision,omitempty"`
	Message   string             `bson:"message,omitempty"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuditEvent) error {
	doc := mongoAuditEvent{
		Type:      string(event.Type),
		SubjectID: event.SubjectID,
		Email:     event.Email,
		Role:      event.Role.String(),
		Path:      event.Path,
		Decision:  event.Decision,
		Message:   event.Message,
		CreatedAt: event.CreatedAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []domain.AuditEvent
	for cursor.Next(ctx) {
		var doc mongoAuditEvent
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode audit event: %w", err)
		}
		events = append(events, domain.AuditEvent{
			ID:        doc.ID.Hex(),
			Type:      domain.AuditEventType(doc.Type),
			SubjectID: doc.SubjectID,
			Email:     doc.Email,
			Role:      domain.Role(doc.Role),
			Path:      doc.Path,
			Decision:  doc.Decision,
			Message:   doc.Message,
			CreatedAt: unixToTime(doc.CreatedAt),
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}
