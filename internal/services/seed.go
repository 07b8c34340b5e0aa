package services

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"go-todo-lists/internal/models"
	"go-todo-lists/internal/repositories"
)

//go:embed seed/demo_users.yaml
var defaultSeedYAML []byte

// SeedData は初回起動時に投入するデモデータです。
type SeedData struct {
	Users []SeedUser `yaml:"users"`
}

// SeedUser はデモユーザーと、そのユーザーが所有するリストです。
type SeedUser struct {
	FirstName string     `yaml:"first_name"`
	LastName  string     `yaml:"last_name"`
	Email     string     `yaml:"email"`
	Password  string     `yaml:"password"`
	Lists     []SeedList `yaml:"lists"`
}

// SeedList の期日は投入日からの相対日数で指定します。
type SeedList struct {
	Title     string   `yaml:"title"`
	Urgency   string   `yaml:"urgency"`
	DueInDays int      `yaml:"due_in_days"`
	Items     []string `yaml:"items"`
}

// LoadSeedData はYAMLファイルからデモデータを読み込みます。
// path が空の場合は埋め込みのデータを使います。
func LoadSeedData(path string) (*SeedData, error) {
	raw := defaultSeedYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		raw = b
	}

	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}
	return &data, nil
}

// SeedService はデモデータを投入します。
type SeedService struct {
	userRepo    *repositories.UserRepository
	todoService *TodoService
}

// NewSeedService は新しいSeedServiceを作成します。
func NewSeedService(userRepo *repositories.UserRepository, todoService *TodoService) *SeedService {
	return &SeedService{userRepo: userRepo, todoService: todoService}
}

// SeedIfEmpty はユーザーが1人もいない場合だけデモデータを投入します。
// 投入したユーザー数を返します。
func (s *SeedService) SeedIfEmpty(ctx context.Context, data *SeedData) (int, error) {
	n, err := s.userRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("Skipping demo seed: %d users already exist", n)
		return 0, nil
	}

	for i, su := range data.Users {
		hashedPassword, err := HashPassword(su.Password)
		if err != nil {
			return i, err
		}
		u, err := s.userRepo.Create(ctx, &models.User{
			FirstName:    su.FirstName,
			LastName:     su.LastName,
			Email:        su.Email,
			PasswordHash: hashedPassword,
		})
		if err != nil {
			return i, fmt.Errorf("failed to seed user %s: %w", su.Email, err)
		}

		today := models.DateOnly(s.todoService.now())
		for _, sl := range su.Lists {
			req := models.ListCreateRequest{
				Title:   sl.Title,
				Urgency: sl.Urgency,
				Items:   sl.Items,
			}
			if sl.DueInDays > 0 {
				req.DueDate = today.AddDate(0, 0, sl.DueInDays).Format(models.DateLayout)
			}
			if _, _, err := s.todoService.CreateList(ctx, u.ID, req); err != nil {
				return i, fmt.Errorf("failed to seed list %q: %w", sl.Title, err)
			}
		}
	}

	log.Printf("Seeded %d demo users", len(data.Users))
	return len(data.Users), nil
}
