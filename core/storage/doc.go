// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the Client interface so storage interactions
// can be mocked in unit tests (see core/storage/mocks). The catalog stores integrity
// reports in the configured bucket.
//
// # Helpers
//
//   - EnsureBucket: creates the target bucket on first use.
//   - PutJSON: uploads a JSON document.
//   - GetJSON: downloads and decodes a JSON document, mapping a missing key to
//     ErrObjectNotFound.
//   - ListNames: lists object names below a prefix.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
//	    return err
//	}
//	_, err = storage.PutJSON(ctx, client, cfg.Storage.Bucket, "integrity/orders.json", report)
package storage
