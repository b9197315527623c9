package interfaces

import "context"

// Warmer preloads the cache ahead of user traffic
type Warmer interface {
	WarmUp(ctx context.Context) error
}
