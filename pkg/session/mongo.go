package session

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	errs "github.com/matzehuels/treemap/pkg/errors"
)

// Collection is the MongoDB collection sessions are stored in.
const Collection = "sessions"

// MongoStore keeps sessions in MongoDB, one document per session keyed by
// its ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore connects to uri and uses the sessions collection of
// database. The connection is checked with a ping before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "mongo database name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "ping mongo")
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(Collection)}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := errs.ValidateSessionID(id); err != nil {
		return nil, err
	}
	var sess Session
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "find session %s", id)
	}
	return &sess, nil
}

func (s *MongoStore) Set(ctx context.Context, sess *Session) error {
	if err := errs.ValidateSessionID(sess.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": sess.ID}, sess, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "save session %s", sess.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateSessionID(id); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete session %s", id)
	}
	return nil
}

// List fetches summaries only; snapshots stay on the server.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"snapshot": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list sessions")
	}
	var out []Summary
	if err := cur.All(ctx, &out); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "decode sessions")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}
