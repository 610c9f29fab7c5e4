// Package mongodb implementa el almacenamiento del ledger sobre MongoDB (STORAGE_DRIVER=mongo).
// Requiere un replica set: cada commit usa una transacción de sesión.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	blobsCollection = "ledger_blobs"
	auditCollection = "settlement_audit"
)

// Client conexión a MongoDB y base de datos del ledger.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect abre la conexión y verifica con Ping.
func Connect(ctx context.Context, uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Client{client: client, db: client.Database(database)}, nil
}

// EnsureIndexes crea el índice del diario por móvil.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	_, err := c.db.Collection(auditCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "mobile", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo índices: %w", err)
	}
	return nil
}

// Disconnect cierra la conexión.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
