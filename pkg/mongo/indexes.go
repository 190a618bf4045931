package mongo

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type IndexConfig struct {
	CollectionName string
	IndexModel     mongo.IndexModel
}

var requiredIndexes = []IndexConfig{
	// Recent submissions per product
	{
		CollectionName: SubmissionsCollection,
		IndexModel: mongo.IndexModel{
			Keys: bson.D{
				{Key: "product_id", Value: 1},
				{Key: "accepted_at", Value: -1},
			},
			Options: options.Index().SetName("idx_product_accepted"),
		},
	},
	// Trace a submission back from a request log line
	{
		CollectionName: SubmissionsCollection,
		IndexModel: mongo.IndexModel{
			Keys:    bson.D{{Key: "request_id", Value: 1}},
			Options: options.Index().SetName("idx_request_id").SetSparse(true),
		},
	},
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idxConfig := range requiredIndexes {
		indexName, err := db.Collection(idxConfig.CollectionName).Indexes().CreateOne(ctx, idxConfig.IndexModel)
		if err != nil {
			log.Error().Err(err).Str("collection", idxConfig.CollectionName).Msg("Error creating index")
			return err
		}
		log.Debug().Str("index", indexName).Str("collection", idxConfig.CollectionName).Msg("Created index")
	}
	return nil
}
