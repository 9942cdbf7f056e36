package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sitesCollection    = "sites"
	bookingsCollection = "bookings"
	blocksCollection   = "site_availability"
)

type Client struct {
	DB *mongo.Database
}

func New(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryReads(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the availability reads rely on. It is idempotent.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.DB.Collection(bookingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bookingIndexKeys(),
	})
	if err != nil {
		return err
	}
	_, err = c.DB.Collection(blocksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: blockIndexKeys(),
	})
	return err
}
