// seed creates a demo user and a handful of tasks in the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/taskboard/internal/auth"
	"github.com/ErlanBelekov/taskboard/internal/domain"
	"github.com/ErlanBelekov/taskboard/internal/infrastructure/postgres"
	"github.com/ErlanBelekov/taskboard/internal/repository"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

type seedTask struct {
	title       string
	description string
	status      domain.TaskStatus
}

var tasks = []seedTask{
	{"Buy groceries", "Milk, eggs, coffee beans", domain.TaskStatusPending},
	{"Renew passport", "Book an appointment before the summer", domain.TaskStatusPending},
	{"Write quarterly report", "Collect numbers from finance first", domain.TaskStatusPending},
	{"Fix bike brakes", "Rear pads are worn out", domain.TaskStatusDone},
	{"Call the plumber", "Kitchen sink is leaking again", domain.TaskStatusPending},
	{"Read 100% of the backlog", "Search test: percent and underscore_chars", domain.TaskStatusDone},
	{"Plan team offsite", "Shortlist three venues", domain.TaskStatusPending},
	{"Update CV", "Add the last two projects", domain.TaskStatusDone},
	{"Clean garage", "Donate the old furniture", domain.TaskStatusPending},
	{"Backup photos", "Copy 2025 albums to the NAS", domain.TaskStatusPending},
	{"Pay electricity bill", "Due on the 15th", domain.TaskStatusDone},
	{"Learn Go generics", "Work through the type parameters tutorial", domain.TaskStatusPending},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set, run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL, postgres.PoolConfig{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	user, created, err := ensureUser(ctx, users)
	if err != nil {
		log.Fatalf("seed user: %v", err)
	}

	var inserted int
	if created {
		taskRepo := postgres.NewTaskRepository(pool)
		for _, st := range tasks {
			if _, err := taskRepo.Create(ctx, &domain.Task{
				UserID:      user.ID,
				Title:       st.title,
				Description: st.description,
				Status:      st.status,
			}); err != nil {
				log.Fatalf("insert task %q: %v", st.title, err)
			}
			inserted++
		}
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:          %s\n", seedEmail)
	fmt.Printf("  Password:      %s\n", seedPassword)
	fmt.Printf("  User ID:       %s\n", user.ID)
	if created {
		fmt.Printf("  Tasks created: %d\n", inserted)
	} else {
		fmt.Println("  User already existed, tasks left untouched")
	}
	fmt.Println()
	fmt.Println("Try it:")
	fmt.Println()
	fmt.Printf("  go run ./cmd/taskctl login --email %s --password %s\n", seedEmail, seedPassword)
	fmt.Println("  go run ./cmd/taskctl list --status pending")
	fmt.Println()
	fmt.Println("or with curl:")
	fmt.Println()
	fmt.Printf("  curl -s -X POST http://localhost:8080/auth/login \\\n")
	fmt.Printf("    -H 'Content-Type: application/json' \\\n")
	fmt.Printf("    -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
}

// ensureUser returns the seed user, creating it on the first run.
func ensureUser(ctx context.Context, users repository.UserRepository) (*domain.User, bool, error) {
	if u, err := users.FindByEmail(ctx, seedEmail); err == nil {
		return u, false, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := auth.NewPasswordHasher(0).Hash(seedPassword)
	if err != nil {
		return nil, false, err
	}
	u, err := users.Create(ctx, seedEmail, hash)
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}
