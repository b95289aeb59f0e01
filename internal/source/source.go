// Package source reads statement bytes from a local path or a
// gs://bucket/object URI.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
)

const gcsScheme = "gs://"

// IsGCS reports whether uri names a Cloud Storage object.
func IsGCS(uri string) bool {
	return strings.HasPrefix(uri, gcsScheme)
}

// SplitGCS splits gs://bucket/path/to/file into bucket and object.
func SplitGCS(uri string) (bucket, object string, err error) {
	if !IsGCS(uri) {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}
	bucket, object, ok := strings.Cut(strings.TrimPrefix(uri, gcsScheme), "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return bucket, object, nil
}

// Name returns the file name part of a path or URI.
func Name(uri string) string {
	if IsGCS(uri) {
		return path.Base(uri)
	}
	return filepath.Base(uri)
}

// Fetch reads the whole statement.
func Fetch(ctx context.Context, uri string) ([]byte, error) {
	if IsGCS(uri) {
		return fetchGCS(ctx, uri)
	}
	data, err := os.ReadFile(uri)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}
	return data, nil
}

func fetchGCS(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := SplitGCS(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer client.Close()

	r, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open GCS object %s/%s: %w", bucket, object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read GCS object: %w", err)
	}
	return data, nil
}
