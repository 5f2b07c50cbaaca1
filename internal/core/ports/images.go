// internal/core/ports/images.go
package ports

import "context"

// ImageResolver turns stored image references into URLs a browser can load.
// The ERP keeps bare file paths on item rows; the S3 adapter presigns them.
type ImageResolver interface {
	ResolveImageURL(ctx context.Context, ref string) (string, error)
}
