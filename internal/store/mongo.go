package store

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/svtemple/eventreg/internal/core"
)

// Mongo is the document-store backend. One document per event record;
// the identity match is a case-insensitive anchored regex on the email
// field, since emails are stored as submitted.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects, pings, and binds the records collection.
// The caller's context bounds the initial connect + ping.
func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &core.StorageError{Op: "connect to mongo", Err: err}
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &core.StorageError{Op: "ping mongo", Err: err}
	}

	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Close releases the client's connections.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Insert appends records. It never deduplicates.
func (m *Mongo) Insert(ctx context.Context, records []core.EventRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = r
	}
	if _, err := m.coll.InsertMany(ctx, docs); err != nil {
		return &core.StorageError{Op: "insert records", Err: err}
	}
	return nil
}

// ReplaceForIdentity removes the identity's prior documents and inserts
// the new batch. Standalone mongo deployments have no transactions, so
// the two steps run in order; a failure between them surfaces as a
// storage error and the mirror is only refreshed after both succeed.
func (m *Mongo) ReplaceForIdentity(ctx context.Context, key string, records []core.EventRecord) error {
	if _, err := m.coll.DeleteMany(ctx, identityFilter(key)); err != nil {
		return &core.StorageError{Op: "delete prior records", Err: err}
	}
	return m.Insert(ctx, records)
}

// DeleteForIdentity removes all documents for the identity and returns
// how many were removed.
func (m *Mongo) DeleteForIdentity(ctx context.Context, key string) (int, error) {
	res, err := m.coll.DeleteMany(ctx, identityFilter(key))
	if err != nil {
		return 0, &core.StorageError{Op: "delete records", Err: err}
	}
	return int(res.DeletedCount), nil
}

// Scan fetches the collection and applies the month/year filter in Go,
// so both backends share one filter semantic (DateOfEvent is a string
// field; the document store cannot index it by calendar month).
func (m *Mongo) Scan(ctx context.Context, filter core.ScanFilter) ([]core.EventRecord, error) {
	cur, err := m.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, &core.StorageError{Op: "find records", Err: err}
	}

	var all []core.EventRecord
	if err := cur.All(ctx, &all); err != nil {
		return nil, &core.StorageError{Op: "decode records", Err: err}
	}

	if filter.IsZero() {
		return all, nil
	}
	matched := make([]core.EventRecord, 0, len(all))
	for _, r := range all {
		if filter.Matches(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

func identityFilter(key string) bson.M {
	return bson.M{"email": bson.M{
		"$regex":   "^" + regexp.QuoteMeta(key) + "$",
		"$options": "i",
	}}
}
