package doujin

import (
	"context"
)

// Repository defines the contract for entry storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Doujinshi, error)
	Get(ctx context.Context, id string) (Doujinshi, error)
	Insert(ctx context.Context, d *Doujinshi) error
	Update(ctx context.Context, d *Doujinshi) error
	DeleteMany(ctx context.Context, ids []string) error
	ListCircles(ctx context.Context) ([]CircleCount, error)
	ListAuthors(ctx context.Context) ([]AuthorCount, error)
}

// BlobStore is the slice of the object store the service needs.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

// Thumbnailer converts uploaded image bytes into the stored thumbnail format.
type Thumbnailer interface {
	Normalize(raw []byte) ([]byte, error)
	ContentType() string
	Ext() string
}

// Invalidator is notified after every successful mutation so cached views of
// the catalog can be refreshed.
type Invalidator interface {
	Invalidate()
}
