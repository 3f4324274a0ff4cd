//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"go.uber.org/zap"

	"gamemaster-server/internal/model"
	"gamemaster-server/internal/repository"
)

// RedisRepositoryTestSuite runs the SessionRepository contract against a real
// Redis instance started in a container.
type RedisRepositoryTestSuite struct {
	suite.Suite
	container *tcredis.RedisContainer
	client    *goredis.Client
	ctx       context.Context
}

func (s *RedisRepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := tcredis.Run(s.ctx, "redis:7-alpine")
	require.NoError(s.T(), err, "Failed to start redis container")
	s.container = container

	uri, err := container.ConnectionString(s.ctx)
	require.NoError(s.T(), err)

	opts, err := goredis.ParseURL(uri)
	require.NoError(s.T(), err)
	s.client = goredis.NewClient(opts)

	require.NoError(s.T(), s.client.Ping(s.ctx).Err(), "Redis container did not become ready")
}

func (s *RedisRepositoryTestSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = testcontainers.TerminateContainer(s.container)
	}
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	require.NoError(s.T(), s.client.FlushAll(s.ctx).Err())
}

func (s *RedisRepositoryTestSuite) TestSaveAndGetRoundTrip() {
	repo := repository.NewRedisSessionRepository(s.client, time.Hour, zap.NewNop())

	session := model.NewSession(uuid.New())
	session.SetSlot(model.SlotRace, "elf")
	session.SetSlot(model.SlotClass, "wizard")
	session.StartLoop(model.LoopCharacterCreation)
	session.AppendUser("elf")
	session.AppendBot("What subrace are you?")

	require.NoError(s.T(), repo.Save(s.ctx, session))

	loaded, err := repo.Get(s.ctx, session.ID)
	require.NoError(s.T(), err)
	s.Equal(session.ID, loaded.ID)
	s.Equal("elf", loaded.Slot(model.SlotRace))
	s.Equal("wizard", loaded.Slot(model.SlotClass))
	s.True(loaded.InLoop(model.LoopCharacterCreation))
	require.Len(s.T(), loaded.Events, 3)
	s.Equal(model.EventUser, loaded.Events[1].Kind)
	s.Equal("elf", loaded.Events[1].Text)
	s.Equal(model.EventBot, loaded.Events[2].Kind)
}

func (s *RedisRepositoryTestSuite) TestGetUnknownSessionReturnsNotFound() {
	repo := repository.NewRedisSessionRepository(s.client, time.Hour, zap.NewNop())

	_, err := repo.Get(s.ctx, uuid.New())
	s.ErrorIs(err, repository.ErrSessionNotFound)
}

func (s *RedisRepositoryTestSuite) TestSaveOverwritesExistingSession() {
	repo := repository.NewRedisSessionRepository(s.client, time.Hour, zap.NewNop())

	session := model.NewSession(uuid.New())
	session.SetSlot(model.SlotRace, "dwarf")
	require.NoError(s.T(), repo.Save(s.ctx, session))

	session.SetSlot(model.SlotSubrace, "hill")
	session.AppendUser("hill")
	require.NoError(s.T(), repo.Save(s.ctx, session))

	loaded, err := repo.Get(s.ctx, session.ID)
	require.NoError(s.T(), err)
	s.Equal("hill", loaded.Slot(model.SlotSubrace))
	require.Len(s.T(), loaded.Events, 1)
}

func (s *RedisRepositoryTestSuite) TestSessionExpiresAfterTTL() {
	repo := repository.NewRedisSessionRepository(s.client, time.Second, zap.NewNop())

	session := model.NewSession(uuid.New())
	require.NoError(s.T(), repo.Save(s.ctx, session))

	_, err := repo.Get(s.ctx, session.ID)
	require.NoError(s.T(), err)

	time.Sleep(1500 * time.Millisecond)

	_, err = repo.Get(s.ctx, session.ID)
	s.ErrorIs(err, repository.ErrSessionNotFound)
}

func TestRedisRepositoryTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(RedisRepositoryTestSuite))
}
