package driven

import (
	"context"

	"github.com/pktechnic/erpdoc/internal/core/domain"
)

// Publisher delivers records to a downstream automation system.
type Publisher interface {
	// Publish sends one record. Rejections wrap domain.ErrPublish.
	Publish(ctx context.Context, rec *domain.Record) error
}
