package team

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DhavalSuthar-24/crickscore/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestRepo(t *testing.T) TeamRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(Models()...))
	t.Cleanup(func() { sqlDB.Close() })
	return NewTeamRepository(db)
}

func TestCountActiveMembers(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	team := &Team{Name: "Falcons"}
	require.NoError(t, repo.CreateTeam(ctx, team))
	for uid := uint(1); uid <= 5; uid++ {
		require.NoError(t, repo.AddTeamMember(ctx, &TeamMember{TeamID: team.ID, UserID: uid, Role: RolePlayer, IsActive: true}))
	}

	count, err := repo.CountActiveMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	require.NoError(t, repo.RemoveTeamMember(ctx, team.ID, 2))
	count, err = repo.CountActiveMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	// Re-signing reactivates the same contract.
	require.NoError(t, repo.AddTeamMember(ctx, &TeamMember{TeamID: team.ID, UserID: 2, Role: RolePlayer, IsActive: true}))
	members, err := repo.GetTeamMembers(ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 5)
}

func TestTeamName(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	team := &Team{Name: "Strikers"}
	require.NoError(t, repo.CreateTeam(ctx, team))

	name, err := repo.TeamName(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Strikers", name)

	name, err = repo.TeamName(ctx, 999)
	require.NoError(t, err)
	assert.Equal(t, "Team 999", name)

	_, err = repo.GetTeamByID(ctx, 999)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestSignMember(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	team := &Team{Name: "Titans"}
	require.NoError(t, repo.CreateTeam(ctx, team))

	require.NoError(t, SignMember(ctx, repo, &TeamMember{TeamID: team.ID, UserID: 7, Role: RoleCaptain, IsCaptain: true, IsActive: true}))
	require.NoError(t, SignMember(ctx, repo, &TeamMember{TeamID: team.ID, UserID: 8, Role: RoleCaptain, IsCaptain: true, IsActive: true}))

	members, err := repo.GetTeamMembers(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	captains := map[uint]bool{}
	for _, m := range members {
		captains[m.UserID] = m.IsCaptain
	}
	assert.Equal(t, map[uint]bool{7: false, 8: true}, captains)

	t.Run("unknown team writes nothing", func(t *testing.T) {
		err := SignMember(ctx, repo, &TeamMember{TeamID: 999, UserID: 9, IsActive: true})
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
		count, err := repo.CountActiveMembers(ctx, 999)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestTeamHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := setupTestRepo(t)
	log := logrus.New()
	log.SetOutput(io.Discard)

	router := gin.New()
	TeamRoutes(router.Group("/api/v1"), NewTeamController(repo, log))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/teams",
		bytes.NewBufferString(`{"name":"Royals","short_name":"RR"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/teams/1/members",
		bytes.NewBufferString(`{"user_id":7}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	count, err := repo.CountActiveMembers(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/teams/42/members",
		bytes.NewBufferString(`{"user_id":7}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/teams",
		bytes.NewBufferString(`{"name":""}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
