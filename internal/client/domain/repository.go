package domain

import "context"

// Repository reads client rows. The engine never writes to the client
// table.
type Repository interface {
	List(ctx context.Context) ([]Client, error)
	Get(ctx context.Context, id string) (*Client, error)
}
