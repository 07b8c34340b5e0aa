package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"go-todo-lists/internal/database"
	"go-todo-lists/internal/repositories"
	"go-todo-lists/internal/services"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo users and lists when the users table is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			db, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			todoService := services.NewTodoService(db.DB, repositories.NewListRepository(), repositories.NewItemRepository())
			return seedDemoUsers(cmd.Context(), todoService, db, cfg.SeedFile)
		},
	}
	cmd.Flags().String("seed-file", "", "YAML file with demo users (embedded data when empty)")
	return cmd
}

func seedDemoUsers(ctx context.Context, todoService *services.TodoService, db *database.DB, seedFile string) error {
	data, err := services.LoadSeedData(seedFile)
	if err != nil {
		return err
	}
	seeder := services.NewSeedService(repositories.NewUserRepository(db.DB), todoService)
	if _, err := seeder.SeedIfEmpty(ctx, data); err != nil {
		return fmt.Errorf("failed to seed demo users: %w", err)
	}
	return nil
}
