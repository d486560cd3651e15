package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "mushaf:student-1", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "mushaf:student-1", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "mushaf:student-1:*"))
	assert.NoError(t, repo.Publish(ctx, "notifications:user-1", map[string]string{"type": "ticket.approved"}))
	assert.NoError(t, repo.Ping(ctx))
}
