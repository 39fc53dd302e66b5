// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the first admin (admin1@test.com) already exists.
//
// Creates:
//   - 2 admins
//   - 2 clients with profiles
//   - 1 verified contractor with 3 providers
//   - Service categories (Electrical, Plumbing, Cleaning) and services
//   - 3 jobs (client -> provider)
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dalemusser/fixit/internal/app/bootstrap"
	clientstore "github.com/dalemusser/fixit/internal/app/store/clients"
	contractorstore "github.com/dalemusser/fixit/internal/app/store/contractors"
	jobstore "github.com/dalemusser/fixit/internal/app/store/jobs"
	providerstore "github.com/dalemusser/fixit/internal/app/store/providers"
	catalogstore "github.com/dalemusser/fixit/internal/app/store/servicecatalog"
	userstore "github.com/dalemusser/fixit/internal/app/store/users"
	"github.com/dalemusser/fixit/internal/app/system/identity"
	"github.com/dalemusser/fixit/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	adminPassword      = "admin123"
	clientPassword     = "client123"
	contractorPassword = "contractor123"
	providerPassword   = "provider123"
)

func main() {
	logger := zap.NewNop()

	_, appCfg, err := bootstrap.LoadConfig(logger)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	deps, err := bootstrap.ConnectDB(ctx, nil, appCfg, logger)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer func() { _ = deps.FixItMongoClient.Disconnect(ctx) }()

	if err := bootstrap.EnsureSchema(ctx, nil, appCfg, deps, logger); err != nil {
		log.Fatalf("schema: %v", err)
	}

	db := deps.FixItMongoDatabase
	users := userstore.New(db)
	clients := clientstore.New(db)
	contractors := contractorstore.New(db)
	providers := providerstore.New(db)
	catalog := catalogstore.New(db)
	jobs := jobstore.New(db)
	auth := identity.New(db)

	_, err = users.GetByEmail(ctx, "admin1@test.com")
	if err == nil {
		log.Println("Seed already applied (admin1@test.com exists). Skipping.")
		os.Exit(0)
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		log.Fatalf("seed check: %v", err)
	}

	seeder := &seeder{ctx: ctx, users: users, auth: auth}

	// Admins
	seeder.createUser("admin1@test.com", adminPassword, "Admin One", "admin")
	seeder.createUser("admin2@test.com", adminPassword, "Admin Two", "admin")

	// Clients with profiles
	client1 := seeder.createUser("client1@test.com", clientPassword, "John Doe", "client")
	client2 := seeder.createUser("client2@test.com", clientPassword, "Sarah Fernando", "client")

	mustCreate(clients.Create(ctx, models.Client{
		UserID:    client1.ID,
		FirstName: "John",
		LastName:  "Doe",
		Phone:     "0771234567",
		City:      "Colombo",
	}))
	mustCreate(clients.Create(ctx, models.Client{
		UserID:    client2.ID,
		FirstName: "Sarah",
		LastName:  "Fernando",
		Phone:     "0719876543",
		City:      "Kandy",
	}))

	// Verified contractor
	contractorUser := seeder.createUser("contractor@test.com", contractorPassword, "FixPro Owner", "contractor")
	contractor := mustCreate(contractors.Create(ctx, models.Contractor{
		CompanyName:    "FixPro Services",
		CompanyContact: "0112345678",
		Status:         models.ContractorApproved,
		CreatedBy:      contractorUser.ID,
		Verified:       true,
	}))

	// Providers under the contractor. Seeded providers get login users
	// directly so the credentials below work without the service running.
	// If the service IS running, the provisioning watcher sees these
	// inserts and records an email conflict on each record, which is the
	// expected outcome for pre-registered emails.
	var providerUsers []models.User
	for i := 1; i <= 3; i++ {
		email := fmt.Sprintf("provider%d@test.com", i)
		name := fmt.Sprintf("Provider User %d", i)
		u := seeder.createUser(email, providerPassword, name, "provider")
		providerUsers = append(providerUsers, u)

		mustCreate(providers.Create(ctx, models.Provider{
			ContractorID: contractor.ID,
			Name:         name,
			Email:        email,
			Phone:        "0701112222",
			Approved:     true,
			CreatedBy:    contractorUser.ID,
		}))
	}

	// Service catalog
	for _, cat := range []string{"Electrical", "Plumbing", "Cleaning"} {
		mustCreate(catalog.AddCategory(ctx, cat))
	}
	mustCreate(catalog.AddService(ctx, "AC Repair", "Electrical"))
	mustCreate(catalog.AddService(ctx, "Fix Pipe Leak", "Plumbing"))
	mustCreate(catalog.AddService(ctx, "Full House Cleaning", "Cleaning"))

	// Jobs (client -> provider)
	seedJob(ctx, jobs, client1.ID, providerUsers[0].ID, "AC Repair", models.JobPending)
	seedJob(ctx, jobs, client1.ID, providerUsers[1].ID, "Fix Pipe Leak", models.JobAccepted)
	seedJob(ctx, jobs, client2.ID, providerUsers[2].ID, "House Cleaning", models.JobCompleted)

	log.Println("Seed completed successfully.")
	fmt.Println("-----------------------------------------------------")
	fmt.Printf("Admin logins:      admin1@test.com, admin2@test.com / %s\n", adminPassword)
	fmt.Printf("Client logins:     client1@test.com, client2@test.com / %s\n", clientPassword)
	fmt.Printf("Contractor login:  contractor@test.com / %s\n", contractorPassword)
	fmt.Printf("Provider logins:   provider1..3@test.com / %s\n", providerPassword)
	fmt.Println("-----------------------------------------------------")
}

type seeder struct {
	ctx   context.Context
	users *userstore.Store
	auth  *identity.Provisioner
}

// createUser provisions an auth account and the matching users record.
func (s *seeder) createUser(email, password, fullName, role string) models.User {
	uid, err := s.auth.Create(s.ctx, email, password, fullName, identity.CreateOptions{})
	if err != nil {
		log.Fatalf("create auth account %s: %v", email, err)
	}

	u, err := s.users.Create(s.ctx, models.User{
		FullName: fullName,
		Email:    email,
		Role:     role,
		AuthUID:  uid,
	})
	if err != nil {
		log.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func seedJob(ctx context.Context, jobs *jobstore.Store, clientID, providerID primitive.ObjectID, service, status string) {
	mustCreate(jobs.Create(ctx, models.Job{
		ClientID:   clientID,
		ProviderID: providerID,
		Service:    service,
		Status:     status,
	}))
}

func mustCreate[T any](v T, err error) T {
	if err != nil {
		log.Fatalf("seed insert: %v", err)
	}
	return v
}
