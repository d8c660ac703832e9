package user_test

import (
	"context"
	"testing"

	"go-leavemgmt/internal/shared/database"
	"go-leavemgmt/internal/shared/testutil"
	"go-leavemgmt/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	repo := user.NewRepository(testutil.NewSQLiteDB(t))

	mgr := &user.User{ID: uuid.New(), Email: "mgr@mail.com", Name: "Zed", Role: user.RoleManager, Password: "x", IsActive: true}
	mgr2 := &user.User{ID: uuid.New(), Email: "mgr2@mail.com", Name: "Amy", Role: user.RoleManager, Password: "x", IsActive: true}
	require.NoError(t, repo.Create(ctx, mgr))
	require.NoError(t, repo.Create(ctx, mgr2))

	emp := &user.User{ID: uuid.New(), Email: "emp@mail.com", Name: "Emp", Role: user.RoleEmployee, ManagerID: &mgr.ID, Password: "x", IsActive: true}
	require.NoError(t, repo.Create(ctx, emp))

	t.Run("duplicate email", func(t *testing.T) {
		dup := &user.User{ID: uuid.New(), Email: "emp@mail.com", Name: "Dup", Role: user.RoleAdmin, Password: "x", IsActive: true}
		err := repo.Create(ctx, dup)
		assert.True(t, database.IsUniqueViolation(err, ""))
	})

	t.Run("find by email", func(t *testing.T) {
		got, err := repo.FindByEmail(ctx, "emp@mail.com")
		require.NoError(t, err)
		assert.Equal(t, emp.ID, got.ID)
		assert.Equal(t, mgr.ID, *got.ManagerID)
	})

	t.Run("managers ordered by name", func(t *testing.T) {
		got, err := repo.FindAllByRole(ctx, user.RoleManager)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Amy", got[0].Name)
	})

	t.Run("update manager", func(t *testing.T) {
		require.NoError(t, repo.UpdateManager(ctx, emp.ID.String(), mgr2.ID.String()))

		team, err := repo.FindByManager(ctx, mgr2.ID.String())
		require.NoError(t, err)
		assert.Len(t, team, 1)

		err = repo.UpdateManager(ctx, uuid.New().String(), mgr2.ID.String())
		assert.True(t, user.IsNotFound(err))
	})

	t.Run("find by ids and count", func(t *testing.T) {
		got, err := repo.FindByIDs(ctx, []string{mgr.ID.String(), emp.ID.String()})
		require.NoError(t, err)
		assert.Len(t, got, 2)

		n, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}
