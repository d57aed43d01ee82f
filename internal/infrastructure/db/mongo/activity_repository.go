package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/costasur/portal-clientes/internal/core/ports"
)

const activityCollection = "activity_log"

// ActivityRepository persists the portal audit trail.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

var _ ports.ActivityRepository = (*ActivityRepository)(nil)

type activityDoc struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Type              string             `bson:"type"`
	UserID            int                `bson:"user_id"`
	Username          string             `bson:"username"`
	ClienteDocumentID string             `bson:"cliente_document_id,omitempty"`
	Detail            string             `bson:"detail,omitempty"`
	OccurredAt        int64              `bson:"occurred_at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, event ports.ActivityEvent) error {
	doc := activityDoc{
		Type:              event.Type,
		UserID:            event.UserID,
		Username:          event.Username,
		ClienteDocumentID: event.ClienteDocumentID,
		Detail:            event.Detail,
		OccurredAt:        event.OccurredAt.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
