package source

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/bpview/pkg/blueprint"
	"github.com/matzehuels/bpview/pkg/errors"
)

// Defaults for [NewMongoSource].
const (
	DefaultMongoDatabase   = "bpview"
	DefaultMongoCollection = "blueprints"
)

// MongoSource reads blueprint documents of the form
//
//	{"author": "john", "name": "house", "points": [{"x": 0, "y": 0}]}
//
// from a MongoDB collection. Results are sorted by name.
type MongoSource struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoPoint struct {
	X float64 `bson:"x"`
	Y float64 `bson:"y"`
}

type mongoBlueprint struct {
	Author string       `bson:"author"`
	Name   string       `bson:"name"`
	Points []mongoPoint `bson:"points"`
}

// NewMongoSource connects to uri and verifies the connection. Empty
// database and collection names select the defaults.
func NewMongoSource(ctx context.Context, uri, database, collection string) (*MongoSource, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo source requires a URI")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}
	return &MongoSource{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *MongoSource) Fetch(ctx context.Context, author string) (blueprint.Set, error) {
	return observe(ctx, s.Name(), author, func() (blueprint.Set, error) {
		cur, err := s.coll.Find(ctx, mongoFilter(author),
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "query blueprints")
		}

		var docs []mongoBlueprint
		if err := cur.All(ctx, &docs); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidResponse, err, "decode blueprints")
		}
		return fromMongo(docs), nil
	})
}

func (s *MongoSource) Name() string { return "mongo" }

func (s *MongoSource) Close() error {
	return s.client.Disconnect(context.Background())
}

func mongoFilter(author string) bson.D {
	if author == "" {
		return bson.D{}
	}
	return bson.D{{Key: "author", Value: author}}
}

func fromMongo(docs []mongoBlueprint) blueprint.Set {
	set := make(blueprint.Set, 0, len(docs))
	for _, d := range docs {
		b := blueprint.Blueprint{Author: d.Author, Name: d.Name, Points: make([]blueprint.Point, len(d.Points))}
		for i, p := range d.Points {
			b.Points[i] = blueprint.Point{X: p.X, Y: p.Y}
		}
		set = append(set, b)
	}
	return set
}
