package repository

import "context"

// Store is implemented by every storage engine
type Store interface {
	Catalog
	Economy
	User
	Admin
	Ping(ctx context.Context) error
	Close() error
}
