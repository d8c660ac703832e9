package app

import (
	"context"

	"go-leavemgmt/internal/config"
	"go-leavemgmt/internal/user"

	"go.uber.org/zap"
)

type demoUser struct {
	email string
	name  string
	role  string
}

var (
	demoAdmin    = demoUser{email: "admin@demo.io", name: "System Admin", role: user.RoleAdmin}
	demoManager  = demoUser{email: "manager@demo.io", name: "Department Manager", role: user.RoleManager}
	demoEmployee = demoUser{email: "employee@demo.io", name: "John Employee", role: user.RoleEmployee}
)

// SeedDemoUsers creates an admin, a manager and one report when the users table is empty.
// It returns the number of users created; a populated table is left untouched.
func SeedDemoUsers(ctx context.Context, repo user.Repository, svc user.Service, password string) (int, error) {
	log := zap.L().Named("app.seeder")

	count, err := repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Info("users exist, skipping seed", zap.Int64("count", count))
		return 0, nil
	}

	create := func(d demoUser, managerID *string) (user.UserResponse, error) {
		res, err := svc.Create(ctx, user.CreateUserRequest{
			Email:     d.email,
			Name:      d.name,
			Password:  password,
			Role:      d.role,
			ManagerID: managerID,
		})
		if err == nil {
			log.Info("seeded user", zap.String("email", d.email), zap.String("role", d.role))
		}
		return res, err
	}

	if _, err := create(demoAdmin, nil); err != nil {
		return 0, err
	}
	manager, err := create(demoManager, nil)
	if err != nil {
		return 1, err
	}
	if _, err := create(demoEmployee, &manager.ID); err != nil {
		return 2, err
	}
	return 3, nil
}

// RunSeeder migrates the database and seeds demo users.
func RunSeeder(cfg config.Config) error {
	gormDB, sqlDB, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	repo := user.NewRepository(gormDB)
	_, err = SeedDemoUsers(context.Background(), repo, user.NewService(repo), config.GetEnv("SEED_PASSWORD", "ChangeMe123!"))
	return err
}
