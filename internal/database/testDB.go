package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "joblink-backend/internal/model"
	"joblink-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seeded users and jobs for tests
var (
	TestJobseeker1 m.User
	TestJobseeker2 m.User
	TestEmployer1  m.User
	TestEmployer2  m.User

	// Shared plain password for every seeded user
	TestSeedPassword = "SeedPass123!"

	TestJob1      m.Job
	TestJob2      m.Job
	TestClosedJob m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	// Seed sample jobseekers, employers and job listings
	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample jobseeker and employer users plus a few job
// listings if the database is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	users := []m.User{
		{
			ID:       uuid.New(),
			Email:    "jane@example.com",
			Password: hashedPwd,
			Role:     m.RoleJobseeker,
			EditableUserInfo: m.EditableUserInfo{
				Name:   "Jane Doe",
				Resume: "/resumes/jane.pdf",
				Skills: pq.StringArray{"Go", "SQL"},
			},
		},
		{
			ID:       uuid.New(),
			Email:    "bob@example.com",
			Password: hashedPwd,
			Role:     m.RoleJobseeker,
			EditableUserInfo: m.EditableUserInfo{
				Name:   "Bob Somsak",
				Skills: pq.StringArray{"Design", "Figma"},
			},
		},
		{
			ID:       uuid.New(),
			Email:    "acme@example.com",
			Password: hashedPwd,
			Role:     m.RoleEmployer,
			EditableUserInfo: m.EditableUserInfo{
				Name: "Acme HR",
			},
			EditableCompanyInfo: m.EditableCompanyInfo{
				CompanyName:        "Acme",
				CompanyDescription: "Rocket-powered everything",
			},
		},
		{
			ID:       uuid.New(),
			Email:    "globex@example.com",
			Password: hashedPwd,
			Role:     m.RoleEmployer,
			EditableUserInfo: m.EditableUserInfo{
				Name: "Globex HR",
			},
			EditableCompanyInfo: m.EditableCompanyInfo{
				CompanyName:        "Globex",
				CompanyDescription: "Data analytics consulting",
			},
		},
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Email {
		case "jane@example.com":
			TestJobseeker1 = u
		case "bob@example.com":
			TestJobseeker2 = u
		case "acme@example.com":
			TestEmployer1 = u
		case "globex@example.com":
			TestEmployer2 = u
		}
	}

	jobs := []m.Job{
		{
			CompanyID: TestEmployer1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Backend Engineer",
				Description:  "Build and operate our Go services",
				Requirements: "3+ years Go, PostgreSQL",
				Location:     "Bangkok",
				Category:     "Engineering",
				Type:         "Full-time",
			},
		},
		{
			CompanyID: TestEmployer1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Product Designer",
				Description:  "Own the design system",
				Requirements: "Portfolio required",
				Location:     "Remote",
				Category:     "Design",
				Type:         "Contract",
			},
		},
		{
			CompanyID: TestEmployer2.ID,
			EditableJobInfo: m.EditableJobInfo{
				Title:        "Data Analyst",
				Description:  "Dashboards and ad-hoc analysis",
				Requirements: "SQL fluency",
				Location:     "Bangkok",
				Category:     "Data",
				Type:         "Full-time",
			},
			IsClosed: true,
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}

	TestJob1 = jobs[0]
	TestJob2 = jobs[1]
	TestClosedJob = jobs[2]

	return nil
}

// loadTestData refreshes the exported seed variables from an already seeded DB.
func loadTestData(db *DBinstanceStruct) error {
	pairs := []struct {
		email string
		dst   *m.User
	}{
		{"jane@example.com", &TestJobseeker1},
		{"bob@example.com", &TestJobseeker2},
		{"acme@example.com", &TestEmployer1},
		{"globex@example.com", &TestEmployer2},
	}
	for _, p := range pairs {
		if err := db.Where("email = ?", p.email).First(p.dst).Error; err != nil {
			return err
		}
	}

	titles := []struct {
		title string
		dst   *m.Job
	}{
		{"Backend Engineer", &TestJob1},
		{"Product Designer", &TestJob2},
		{"Data Analyst", &TestClosedJob},
	}
	for _, t := range titles {
		if err := db.Where("title = ?", t.title).First(t.dst).Error; err != nil {
			return err
		}
	}

	return nil
}
