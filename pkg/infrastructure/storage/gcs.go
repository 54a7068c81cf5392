package storage

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// StorageAdapter provides blob storage using Google Cloud Storage
type StorageAdapter struct {
	Client *storage.Client
}

func (a *StorageAdapter) Write(ctx context.Context, bucket, object string, data []byte) error {
	w := a.Client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write %s/%s: %w", bucket, object, err)
	}
	return w.Close()
}

func (a *StorageAdapter) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	r, err := a.Client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s/%s: %w", bucket, object, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}
