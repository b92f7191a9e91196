package document

import "context"

// ObjectStore keeps the file itself and returns a URL it can be fetched from.
type ObjectStore interface {
	Put(ctx context.Context, name string, content []byte) (string, error)
}

// ContentStore pins the file on a content-addressed network.
type ContentStore interface {
	Put(ctx context.Context, name string, content []byte) (string, error)
	GatewayURL(contentId string) string
}

// HashAnchor records file hashes on a ledger.
type HashAnchor interface {
	Store(ctx context.Context, hash [32]byte) (string, error)
	Verify(ctx context.Context, hash [32]byte) (bool, error)
}
