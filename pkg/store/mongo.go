package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"markettakip/pkg/metrics"
)

// Mongo is the production Driver backed by a MongoDB database.
//
// Identifiers are ObjectID hex strings stored as plain string _id values so
// they round-trip through the string ID fields on the models.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the Mongo client and verifies the connection.
func Connect(ctx context.Context, uri, database string) (*Mongo, error) {
	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	return &Mongo{client: client, db: client.Database(database)}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Collection exposes a raw collection handle (used by the Mongo log handler).
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

func (m *Mongo) Create(ctx context.Context, collection string, doc any) (string, error) {
	defer metrics.ObserveStoreOp(collection, "create", time.Now())

	raw, err := bson.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("store: marshal %s: %w", collection, err)
	}
	var d bson.M
	if err := bson.Unmarshal(raw, &d); err != nil {
		return "", fmt.Errorf("store: unmarshal %s: %w", collection, err)
	}

	// The store assigns the identifier; whatever the caller carried is
	// discarded, mirroring how document stores mint IDs on create.
	id := primitive.NewObjectID().Hex()
	d["_id"] = id

	if _, err := m.db.Collection(collection).InsertOne(ctx, d); err != nil {
		return "", fmt.Errorf("store: insert %s: %w", collection, err)
	}
	return id, nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	defer metrics.ObserveStoreOp(collection, "update", time.Now())

	res, err := m.db.Collection(collection).UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
	)
	if err != nil {
		return fmt.Errorf("store: update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	defer metrics.ObserveStoreOp(collection, "delete", time.Now())

	res, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) BatchUpdate(ctx context.Context, collection string, updates []BatchUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	defer metrics.ObserveStoreOp(collection, "batch", time.Now())

	writes := make([]mongo.WriteModel, 0, len(updates))
	for _, u := range updates {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": u.ID}).
			SetUpdate(bson.M{"$set": u.Fields}))
	}

	if _, err := m.db.Collection(collection).BulkWrite(ctx, writes); err != nil {
		return fmt.Errorf("store: batch update %s: %w", collection, err)
	}
	return nil
}

func (m *Mongo) FindAll(ctx context.Context, collection, sortField string, descending bool, out any) error {
	defer metrics.ObserveStoreOp(collection, "find", time.Now())

	order := 1
	if descending {
		order = -1
	}
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: order}})

	cur, err := m.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return fmt.Errorf("store: find %s: %w", collection, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("store: decode %s: %w", collection, err)
	}
	return nil
}

func (m *Mongo) Count(ctx context.Context, collection string) (int64, error) {
	defer metrics.ObserveStoreOp(collection, "count", time.Now())

	n, err := m.db.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("store: count %s: %w", collection, err)
	}
	return n, nil
}
