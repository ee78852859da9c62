package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"grocerylist-api/internal/domain/repository"
)

// CleanupScheduler periodically purges users whose confirmation window
// lapsed without the account being confirmed. Best-effort eventual
// consistency: an expired account survives at most about one interval.
type CleanupScheduler struct {
	Repo     repository.UserRepository
	Logger   *logrus.Logger
	Interval time.Duration
}

func NewCleanupScheduler(repo repository.UserRepository, logger *logrus.Logger, interval time.Duration) *CleanupScheduler {
	return &CleanupScheduler{Repo: repo, Logger: logger, Interval: interval}
}

// Start runs the scheduler until ctx is done. Errors inside a tick are
// logged and the scheduler simply waits for the next one.
func (c *CleanupScheduler) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(c.Interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.RunOnce(ctx)
			}
		}
	}()
}

// RunOnce performs a single cleanup pass: find all expired unconfirmed
// users and hard-delete them in one batch.
func (c *CleanupScheduler) RunOnce(ctx context.Context) {
	users, err := c.Repo.FindExpiredUnconfirmed(ctx, time.Now().UTC())
	if err != nil {
		c.Logger.WithError(err).Error("registration cleanup: find expired users failed")
		return
	}
	if len(users) == 0 {
		return
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	deleted, err := c.Repo.DeleteByIDs(ctx, ids)
	if err != nil {
		c.Logger.WithError(err).Error("registration cleanup: batch delete failed")
		return
	}
	c.Logger.WithField("deleted", deleted).Info("registration cleanup: removed expired unconfirmed users")
}
