package postgresadapter

import (
	"context"

	"civica/contexts/civic-participation/comment-service/ports"

	"github.com/google/uuid"
)

// UUIDGenerator issues v4 UUIDs for event identifiers.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.IDGenerator = UUIDGenerator{}
