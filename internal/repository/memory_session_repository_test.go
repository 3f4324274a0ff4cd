package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemaster-server/internal/model"
	"gamemaster-server/internal/repository"
)

func TestMemoryRepository_SaveAndGet(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	ctx := context.Background()

	session := model.NewSession(uuid.New())
	session.SetSlot(model.SlotRace, "elf")
	session.AppendUser("elf")

	require.NoError(t, repo.Save(ctx, session))

	loaded, err := repo.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, "elf", loaded.Slot(model.SlotRace))
	assert.Len(t, loaded.Events, 1)
}

func TestMemoryRepository_GetUnknownSession(t *testing.T) {
	repo := repository.NewMemorySessionRepository()

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestMemoryRepository_ConcurrentSaves(t *testing.T) {
	repo := repository.NewMemorySessionRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 20)
	for i := range ids {
		ids[i] = uuid.New()
	}
	for _, id := range ids {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			session := model.NewSession(id)
			session.SetSlot(model.SlotClass, "wizard")
			assert.NoError(t, repo.Save(ctx, session))
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		loaded, err := repo.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "wizard", loaded.Slot(model.SlotClass))
	}
}
