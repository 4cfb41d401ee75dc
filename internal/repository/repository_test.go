package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/gommon/log"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"github.com/yshebel/customerhub/internal/model"
	"github.com/yshebel/customerhub/pkg/db/transactor"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	apperrors "github.com/yshebel/customerhub/internal/errors"
)

const (
	connectionTimeout = 3 * time.Second
)

const (
	pgContainerName = "pg-test-customerhub"
	pgPort          = "5432"
	pgTestUser      = "test"
	pgTestPassword  = "test"
	pgTestDB        = "customerhub"
)

const (
	mongoContainerName = "mongo-test-customerhub"
	mongoPort          = "27017"
	mongoTestUser      = "test"
	mongoTestPassword  = "test"
	mongoTestDB        = "customerhub"
)

var pgPool *pgxpool.Pool
var mongoDB *mongo.Database

func TestMain(m *testing.M) {
	// build docker pool
	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("failed to create pool - %v", err)
	}

	if err := dockerPool.Client.Ping(); err != nil {
		log.Fatalf("failed to connect to docker - %v", err)
	}

	// create network for containers
	network, err := dockerPool.Client.CreateNetwork(docker.CreateNetworkOptions{Name: "customerhub-test-net"})
	if err != nil {
		log.Fatalf("failed to create network - %v", err)
	}

	// start postgres
	postgres, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       pgContainerName,
		Repository: "postgres",
		Tag:        "latest",
		NetworkID:  network.ID,
		Env: []string{
			fmt.Sprintf("POSTGRES_USER=%s", pgTestUser),
			fmt.Sprintf("POSTGRES_PASSWORD=%s", pgTestPassword),
			fmt.Sprintf("POSTGRES_DB=%s", pgTestDB),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"5432/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", pgPort)}},
		},
	})
	if err != nil {
		log.Fatalf("failed to start postgresql - %v", err)
	}

	// run migrations
	flywayCmd := []string{
		fmt.Sprintf("-url=jdbc:postgresql://%s:%s/%s", pgContainerName, pgPort, pgTestDB),
		fmt.Sprintf("-user=%s", pgTestUser),
		fmt.Sprintf("-password=%s", pgTestPassword),
		"-connectRetries=5",
		"migrate",
	}

	migrationsPath, err := filepath.Abs("../../migrations")
	if err != nil {
		log.Fatalf("failed to find migrations path - %v", err)
	}

	flywayMounts := []string{
		fmt.Sprintf("%s:/flyway/sql", migrationsPath),
	}

	flyway, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "flyway/flyway",
		Tag:        "latest",
		NetworkID:  network.ID,
		Cmd:        flywayCmd,
		Mounts:     flywayMounts,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		log.Fatalf("failed to start flyway migrations - %v", err)
	}

	// waiting for flyway container to be destroyed
	err = dockerPool.Retry(func() error {
		if _, ok := dockerPool.ContainerByName(flyway.Container.Name); ok {
			return errors.New("flyway migrations are still in progress")
		}
		return nil
	})
	if err != nil {
		log.Fatalf("failed to await flyway migrations - %v", err)
	}

	// connect to postgres
	pgUri := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", pgTestUser, pgTestPassword, pgPort, pgTestDB)
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		var err error
		pgPool, err = pgxpool.Connect(ctx, pgUri)
		if err != nil {
			return err
		}
		return pgPool.Ping(ctx)
	})
	if err != nil {
		log.Fatalf("failed to establish connection to postgresql - %v", err)
	}

	// start mongo
	mongodb, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Name:       mongoContainerName,
		Repository: "mongo",
		Tag:        "latest",
		NetworkID:  network.ID,
		Env: []string{
			fmt.Sprintf("MONGO_INITDB_ROOT_USERNAME=%s", mongoTestUser),
			fmt.Sprintf("MONGO_INITDB_ROOT_PASSWORD=%s", mongoTestPassword),
		},
		PortBindings: map[docker.Port][]docker.PortBinding{
			"27017/tcp": {{HostIP: "localhost", HostPort: fmt.Sprintf("%s/tcp", mongoPort)}},
		},
	})
	if err != nil {
		log.Fatalf("failed to start mongodb - %v", err)
	}

	// connect to mongo
	var mongoClient *mongo.Client
	mongoUri := fmt.Sprintf("mongodb://%s:%s@localhost:%s/?maxPoolSize=100", mongoTestUser, mongoTestPassword, mongoPort)
	err = dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()

		var err error
		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(mongoUri))
		if err != nil {
			return err
		}
		return mongoClient.Ping(ctx, readpref.Primary())
	})
	if err != nil {
		log.Fatalf("failed to establish connection to mongodb - %v", err)
	}

	mongoDB = mongoClient.Database(mongoTestDB)

	// unique email index scoped to active documents, same contract
	// the relational migrations establish
	for _, collection := range []string{"customers", "users"} {
		_, err = mongoDB.Collection(collection).Indexes().CreateOne(context.Background(), mongo.IndexModel{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		})
		if err != nil {
			log.Fatalf("failed to create unique email index on %s - %v", collection, err)
		}
	}

	// start tests
	code := m.Run()

	// purge postgresql
	if err := dockerPool.Purge(postgres); err != nil {
		log.Fatalf("failed to purge postgresql - %v", err)
	}

	// purge mongodb
	if err := dockerPool.Purge(mongodb); err != nil {
		log.Fatalf("failed to purge mongodb - %v", err)
	}

	// remove network
	if err := dockerPool.Client.RemoveNetwork(network.ID); err != nil {
		log.Fatalf("failed to remove network - %v", err)
	}

	os.Exit(code)
}

func TestPostgresUserRps(t *testing.T) {
	userRps := NewPostgresUserRepository(transactor.NewPgxTransactor(pgPool))
	t.Log("running user tests for postgres")
	testUserRps(t, userRps, "pg")
}

func TestMongoUserRps(t *testing.T) {
	userRps := NewMongoUserRepository(mongoDB)
	t.Log("running user tests for mongo")
	testUserRps(t, userRps, "mongo")
}

func testUserRps(t *testing.T, userRps UserRepository, suffix string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)

	u := &model.User{
		ID:           fmt.Sprintf("f9771714-df35-4186-b1f1-57fba3e5d3f%d", len(suffix)),
		Email:        fmt.Sprintf("operator-%s@somemail.com", suffix),
		Username:     "operator",
		Role:         model.RoleUser,
		PasswordHash: "f929cb58673be0a35fcb22ad7f147bd1",
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	t.Log("create user")
	{
		err := userRps.Create(ctx, u)
		require.NoError(t, err, "failed to create user")
	}

	t.Log("find user by id")
	{
		dbUser, err := userRps.FindByID(ctx, u.ID)
		require.NoError(t, err, "failed to read user by id")
		require.NotNil(t, dbUser, "user was created recently but not found by id")
		require.Equal(t, u.Email, dbUser.Email, "stored email differs")
		require.Equal(t, model.RoleUser, dbUser.Role, "stored role differs")
	}

	t.Log("find user by email is case-insensitive")
	{
		dbUser, err := userRps.FindByEmail(ctx, fmt.Sprintf("OPERATOR-%s@somemail.com", suffix))
		require.NoError(t, err, "failed to read user by email")
		require.NotNil(t, dbUser, "user was created recently but not found by email")
	}

	t.Log("create user duplicate")
	{
		dup := *u
		dup.ID = fmt.Sprintf("0583d7f3-5ae1-416a-92fa-12085190555%d", len(suffix))
		err := userRps.Create(ctx, &dup)

		var duplicateErr *apperrors.DuplicateErr
		require.ErrorAs(t, err, &duplicateErr, "aimed to create user duplicate but no duplicate error raised")
	}

	t.Log("soft-deleted user releases email")
	{
		u.Active = false
		require.NoError(t, userRps.Update(ctx, u), "failed to deactivate user")

		successor := *u
		successor.ID = fmt.Sprintf("19264f8d-8862-47e0-9892-44930e2de59%d", len(suffix))
		successor.Active = true
		require.NoError(t, userRps.Create(ctx, &successor), "email of inactive user must be reusable")
	}
}

func TestPostgresCustomerRps(t *testing.T) {
	customerRps := NewPostgresCustomerRepository(pgPool)
	t.Log("running customer tests for postgres")
	testCustomerRps(t, customerRps, "pg")
}

func TestMongoCustomerRps(t *testing.T) {
	customerRps := NewMongoCustomerRepository(mongoDB)
	t.Log("running customer tests for mongo")
	testCustomerRps(t, customerRps, "mongo")
}

func testCustomerRps(t *testing.T, customerRps CustomerRepository, suffix string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)

	customers := []*model.Customer{
		{
			ID:        fmt.Sprintf("53b9062b-0f45-4671-8c01-52fce0d8c75%d", len(suffix)),
			Name:      "John Norman",
			Email:     fmt.Sprintf("johnnorman-%s@somemail.com", suffix),
			Company:   "Norman Consulting",
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        fmt.Sprintf("48fa2e4f-7937-4257-ac61-a42ef9f45f6%d", len(suffix)),
			Name:      "Albert Peers",
			Email:     fmt.Sprintf("albertpeers-%s@somemail.com", suffix),
			Phone:     "555-0102",
			Active:    true,
			CreatedAt: now.Add(time.Second),
			UpdatedAt: now.Add(time.Second),
		},
		{
			ID:        fmt.Sprintf("3b9974de-ed71-4a5d-9121-42213e52623%d", len(suffix)),
			Name:      "Andrew Wallet",
			Email:     fmt.Sprintf("andrewallet-%s@somemail.com", suffix),
			Active:    false,
			CreatedAt: now.Add(2 * time.Second),
			UpdatedAt: now.Add(2 * time.Second),
		},
	}

	customerJohn := customers[0]

	t.Logf("create %d customers", len(customers))
	{
		for _, c := range customers {
			err := customerRps.Create(ctx, c)
			require.NoError(t, err, "failed to create customer")
		}
	}

	t.Log("plain listing must skip inactive customers")
	{
		dbCustomers, err := customerRps.FindAll(ctx, ListFilter{})
		require.NoError(t, err, "failed to read customers")
		require.Len(t, dbCustomers, 2, "inactive customer must not be listed")
	}

	t.Log("listing with includeInactive must return everything")
	{
		dbCustomers, err := customerRps.FindAll(ctx, ListFilter{IncludeInactive: true})
		require.NoError(t, err, "failed to read customers")
		require.Len(t, dbCustomers, len(customers), "all customers must be listed")
		require.Equal(t, customerJohn.ID, dbCustomers[0].ID, "listing must be ordered by creation time")
	}

	t.Log("free-text query must match name case-insensitively")
	{
		dbCustomers, err := customerRps.FindAll(ctx, ListFilter{Query: "norman"})
		require.NoError(t, err, "failed to read customers")
		require.Len(t, dbCustomers, 1, "single customer must match")
		require.Equal(t, customerJohn.ID, dbCustomers[0].ID, "wrong customer matched")
	}

	t.Logf("find customer by id %s", customerJohn.ID)
	{
		dbCustomer, err := customerRps.FindByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to read customer")
		require.NotNil(t, dbCustomer, "customer was created, but not found in database")
		require.Equal(t, customerJohn.Email, dbCustomer.Email, "stored email differs")
		require.Equal(t, customerJohn.Company, dbCustomer.Company, "stored company differs")
	}

	t.Logf("update customer %s", customerJohn.ID)
	{
		customerJohn.Phone = "555-0199"
		customerJohn.UpdatedAt = now.Add(time.Minute)
		err := customerRps.Update(ctx, customerJohn)
		require.NoError(t, err, "failed to update customer")

		dbCustomer, err := customerRps.FindByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to read customer back")
		require.Equal(t, "555-0199", dbCustomer.Phone, "customer is in database, but wasn't updated correctly")
	}

	t.Log("update of missing customer must report not found")
	{
		ghost := *customerJohn
		ghost.ID = fmt.Sprintf("f917ab49-55f3-4b92-8abd-1f1124630cd%d", len(suffix))
		ghost.Email = fmt.Sprintf("ghost-%s@somemail.com", suffix)
		err := customerRps.Update(ctx, &ghost)

		var notFoundErr *apperrors.NotFoundErr
		require.ErrorAs(t, err, &notFoundErr, "not found error must be raised")
	}

	t.Log("duplicate active email must be rejected by storage")
	{
		dup := *customers[1]
		dup.ID = fmt.Sprintf("112a54c0-e744-4712-8acf-59e6b1a386e%d", len(suffix))
		err := customerRps.Create(ctx, &dup)

		var duplicateErr *apperrors.DuplicateErr
		require.ErrorAs(t, err, &duplicateErr, "duplicate error must be raised")
	}

	t.Logf("soft-delete customer %s and verify it stays readable", customerJohn.ID)
	{
		customerJohn.Active = false
		require.NoError(t, customerRps.Update(ctx, customerJohn), "failed to deactivate customer")

		dbCustomer, err := customerRps.FindByID(ctx, customerJohn.ID)
		require.NoError(t, err, "failed to read customer by id")
		require.NotNil(t, dbCustomer, "soft-deleted customer must stay readable by id")
		require.False(t, dbCustomer.Active, "customer must be inactive after soft delete")

		dbCustomers, err := customerRps.FindAll(ctx, ListFilter{})
		require.NoError(t, err, "failed to read customers")
		require.Len(t, dbCustomers, 1, "soft-deleted customer must disappear from plain listing")
	}
}
