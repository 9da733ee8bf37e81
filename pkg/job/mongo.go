package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// WithDefaults returns a copy with zero fields replaced by defaults.
func (c MongoConfig) WithDefaults() MongoConfig {
	if c.URI == "" {
		c.URI = "mongodb://localhost:27017"
	}
	if c.Database == "" {
		c.Database = "repoinsight"
	}
	if c.Collection == "" {
		c.Collection = "jobs"
	}
	return c
}

// MongoStore stores jobs as documents. The result is kept as its JSON
// encoding so the flattened wire shape is preserved exactly.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// document is the stored shape of a job.
type document struct {
	Job    `bson:",inline"`
	Result string `bson:"result,omitempty"`
}

func toDocument(j *Job) (document, error) {
	d := document{Job: *j}
	d.Job.Result = nil
	if j.Result != nil {
		data, err := json.Marshal(j.Result)
		if err != nil {
			return document{}, err
		}
		d.Result = string(data)
	}
	return d, nil
}

func (d document) job() (*Job, error) {
	j := d.Job
	if d.Result != "" {
		var r Result
		if err := json.Unmarshal([]byte(d.Result), &r); err != nil {
			return nil, err
		}
		j.Result = &r
	}
	return &j, nil
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	cfg = cfg.WithDefaults()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Create(ctx context.Context, j *Job) error {
	d, err := toDocument(j)
	if err != nil {
		return storageErr(err, "encode", j.ID)
	}
	if _, err := s.coll.InsertOne(ctx, d); err != nil {
		return storageErr(err, "create", j.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Job, error) {
	var d document
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "get", id)
	}
	j, err := d.job()
	if err != nil {
		return nil, storageErr(err, "decode", id)
	}
	return j, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, u Update) error {
	set, err := updateFields(u)
	if err != nil {
		return storageErr(err, "encode", id)
	}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return storageErr(err, "update", id)
	}
	if res.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

// updateFields builds the $set document for u.
func updateFields(u Update) (bson.M, error) {
	set := bson.M{
		"status":     u.Status,
		"progress":   u.Progress,
		"updated_at": u.UpdatedAt,
	}
	if u.Result != nil {
		data, err := json.Marshal(u.Result)
		if err != nil {
			return nil, err
		}
		set["result"] = string(data)
	}
	return set, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
