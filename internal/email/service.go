package email

import (
	"context"
	"time"
)

// Service sends transactional mail. Implementations are best-effort;
// callers log failures and move on.
type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendAppointmentStatus(ctx context.Context, to, name string, scheduledAt time.Time, status string) error
}
