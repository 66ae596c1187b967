package postgresadapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"civica/contexts/civic-participation/vote-casting/ports"
)

// SystemClock reports wall-clock time in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDTokenSource issues v4 UUIDs for ballot receipt tokens.
type UUIDTokenSource struct{}

func (UUIDTokenSource) NewToken(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.Clock = SystemClock{}
var _ ports.TokenGenerator = UUIDTokenSource{}
