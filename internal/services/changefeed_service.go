package services

import (
	"context"
	"time"

	"drivehire/pkg/logger"
	"drivehire/pkg/realtime"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChangeFeedService tails the bookings and disputes collections with a
// change stream and republishes row changes to the realtime hub, so
// out-of-band writes (retry workers, other instances) still reach
// connected clients.
type ChangeFeedService struct {
	db        *mongo.Database
	publisher RealtimePublisher
	logger    *logger.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewChangeFeedService(db *mongo.Database, publisher RealtimePublisher, logger *logger.Logger) *ChangeFeedService {
	return &ChangeFeedService{
		db:        db,
		publisher: publisher,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

func (s *ChangeFeedService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go func() {
		defer close(s.done)
		s.watch(ctx)
	}()
}

func (s *ChangeFeedService) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func (s *ChangeFeedService) watch(ctx context.Context) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"operationType": bson.M{"$in": bson.A{"insert", "update", "replace"}},
			"ns.coll":       bson.M{"$in": bson.A{"bookings", "disputes", "settlements"}},
		}}},
	}

	for {
		stream, err := s.db.Watch(ctx, pipeline,
			options.ChangeStream().SetFullDocument(options.UpdateLookup))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.WithError(err).Warn("Change stream open failed, retrying")
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		s.consume(ctx, stream)
		stream.Close(context.Background())

		if ctx.Err() != nil {
			return
		}
	}
}

func (s *ChangeFeedService) consume(ctx context.Context, stream *mongo.ChangeStream) {
	for stream.Next(ctx) {
		var change struct {
			OperationType string `bson:"operationType"`
			NS            struct {
				Coll string `bson:"coll"`
			} `bson:"ns"`
			FullDocument bson.M `bson:"fullDocument"`
		}
		if err := stream.Decode(&change); err != nil {
			s.logger.WithError(err).Warn("Failed to decode change event")
			continue
		}
		if change.FullDocument == nil {
			continue
		}

		s.publish(change.NS.Coll, change.OperationType, change.FullDocument)
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		s.logger.WithError(err).Warn("Change stream terminated, will reopen")
	}
}

func (s *ChangeFeedService) publish(collection, operation string, doc bson.M) {
	event := realtime.Event{
		Type:      collection + "_" + operation,
		Resource:  collection,
		Timestamp: time.Now().Unix(),
		Data:      map[string]interface{}{},
	}

	if id, ok := doc["_id"].(primitive.ObjectID); ok {
		event.ResourceID = id.Hex()
	}
	if status, ok := doc["status"].(string); ok {
		event.Data["status"] = status
	}

	var recipients []primitive.ObjectID
	for _, field := range []string{"client_id", "driver_id", "reporter_id"} {
		if id, ok := doc[field].(primitive.ObjectID); ok {
			recipients = append(recipients, id)
		}
	}

	s.publisher.Publish(event, recipients...)
}
