package services

import (
	"context"

	"newsroom/app/authz"
	"newsroom/app/models"
	"newsroom/app/repositories"
)

// EventGuard rejects redelivered or out-of-order events inside the write transaction
type EventGuard interface {
	Guard(kind string, aggregateID, version int64) repositories.TxHook
}

// PostLookup answers whether a post exists when the local read model does not know it
type PostLookup interface {
	GetPost(ctx context.Context, id int64, role authz.Role) (*models.PostResponse, error)
	Forget(id int64)
}
