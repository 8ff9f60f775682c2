package helpers

import (
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Google Cloud Storage client. If credsPath is empty, ADC is used.
func NewGCSClient(ctx context.Context, credsPath string) (*storage.Client, error) {
	if credsPath == "" {
		return storage.NewClient(ctx)
	}
	return storage.NewClient(ctx, option.WithCredentialsFile(credsPath))
}

// UploadOptions tunes a single object write.
type UploadOptions struct {
	ContentType string
	Metadata    map[string]string
	// CreateOnly fails the write if the object already exists.
	CreateOnly bool
}

// UploadObject streams r into bucket/objectPath and returns the object's gs:// URI.
func UploadObject(ctx context.Context, client *storage.Client, bucket, objectPath string, r io.Reader, opts UploadOptions) (string, error) {
	obj := client.Bucket(bucket).Object(objectPath)
	if opts.CreateOnly {
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	}
	wc := obj.NewWriter(ctx)
	wc.ContentType = opts.ContentType
	wc.Metadata = opts.Metadata
	wc.ChunkSize = 0 // single request; reports are small
	if _, err := io.Copy(wc, r); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return ObjectURI(bucket, objectPath), nil
}

// ObjectURI is the gs:// form; execution reports are private, so there is no public URL.
func ObjectURI(bucket, objectPath string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, objectPath)
}
