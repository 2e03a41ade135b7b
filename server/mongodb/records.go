// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package mongodb contains a MongoDB record repository. Query payloads map
// directly onto find commands.
package mongodb

import (
	"context"
	"math"
	"time"

	"github.com/absmach/telequery"
	sdk "github.com/absmach/telequery/pkg/sdk/go"
	"github.com/absmach/telequery/server"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const idField = "_id"

var _ server.Repository = (*recordRepository)(nil)

type recordRepository struct {
	coll *mongo.Collection
}

// New returns a repository reading records from the named collection.
func New(db *mongo.Database, collection string) server.Repository {
	return &recordRepository{
		coll: db.Collection(collection),
	}
}

func (repo recordRepository) Query(ctx context.Context, req sdk.Request) ([]telequery.Record, error) {
	cur, err := repo.coll.Find(ctx, Filter(req), FindOptions(req))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	records := []telequery.Record{}
	for cur.Next(ctx) {
		var doc bson.M
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		records = append(records, toRecord(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Filter returns the find filter for the request.
func Filter(req sdk.Request) bson.M {
	filter := bson.M{}
	for k, v := range req.Query {
		filter[k] = v
	}

	return filter
}

// FindOptions translates projection, sort and limit of the request. Sort keys
// keep their order and the document id is left out unless projected.
func FindOptions(req sdk.Request) *options.FindOptions {
	opts := options.Find()

	projection := bson.D{}
	withID := false
	for _, f := range req.Project {
		if f == idField {
			withID = true
		}
		projection = append(projection, bson.E{Key: f, Value: 1})
	}
	if !withID {
		projection = append(projection, bson.E{Key: idField, Value: 0})
	}
	opts.SetProjection(projection)

	if len(req.Sort) > 0 {
		sort := bson.D{}
		for _, f := range req.Sort {
			sort = append(sort, bson.E{Key: f.Field, Value: int(f.Direction)})
		}
		opts.SetSort(sort)
	}

	// Negative limits mean a single batch to MongoDB.
	if req.Limit > 0 {
		limit := int64(math.MaxInt64)
		if req.Limit < math.MaxInt64 {
			limit = int64(req.Limit)
		}
		opts.SetLimit(limit)
	}

	return opts
}

func toRecord(doc bson.M) telequery.Record {
	rec := make(telequery.Record, len(doc))
	for k, v := range doc {
		rec[k] = toValue(v)
	}

	return rec
}

func toValue(v interface{}) interface{} {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339Nano)
	case primitive.ObjectID:
		return val.Hex()
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case bson.M:
		return map[string]interface{}(toRecord(val))
	case bson.A:
		vals := make([]interface{}, len(val))
		for i, e := range val {
			vals[i] = toValue(e)
		}
		return vals
	default:
		return val
	}
}
