package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/sleep-tracker/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
	createdAt   time.Time
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
		createdAt:   TestNow,
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    b.createdAt,
		UpdatedAt:    b.createdAt,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:          userID,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// SleepSessionBuilder creates sleep sessions directly in the database
type SleepSessionBuilder struct {
	user      *domain.User
	startTime time.Time
	duration  time.Duration
	createdAt time.Time
	open      bool
}

// NewSleepSessionBuilder creates a closed 8h session that started a day before TestNow
func NewSleepSessionBuilder() *SleepSessionBuilder {
	start := TestNow.Add(-24 * time.Hour)
	return &SleepSessionBuilder{
		startTime: start,
		duration:  8 * time.Hour,
		createdAt: start,
	}
}

// WithUser sets the owner
func (b *SleepSessionBuilder) WithUser(user *domain.User) *SleepSessionBuilder {
	b.user = user
	return b
}

// StartedAt sets the start time; createdAt follows it unless set explicitly
func (b *SleepSessionBuilder) StartedAt(start time.Time) *SleepSessionBuilder {
	if b.createdAt.Equal(b.startTime) {
		b.createdAt = start
	}
	b.startTime = start
	return b
}

// Lasting sets the duration of a closed session
func (b *SleepSessionBuilder) Lasting(d time.Duration) *SleepSessionBuilder {
	b.duration = d
	b.open = false
	return b
}

// Open leaves the session without an end time
func (b *SleepSessionBuilder) Open() *SleepSessionBuilder {
	b.open = true
	return b
}

// CreatedAt overrides the creation timestamp
func (b *SleepSessionBuilder) CreatedAt(createdAt time.Time) *SleepSessionBuilder {
	b.createdAt = createdAt
	return b
}

// Build creates the session in the database
func (b *SleepSessionBuilder) Build(t *testing.T, db *gorm.DB) *domain.SleepSession {
	t.Helper()

	if b.user == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.user = user
	}

	session, err := domain.NewSleepSession(b.user.ID, b.startTime, b.createdAt)
	if err != nil {
		t.Fatalf("failed to build sleep session: %v", err)
	}
	if !b.open {
		if err := session.Close(b.startTime.Add(b.duration), b.startTime.Add(b.duration)); err != nil {
			t.Fatalf("failed to close sleep session: %v", err)
		}
	}

	if err := db.Create(session).Error; err != nil {
		t.Fatalf("failed to create sleep session: %v", err)
	}

	return session
}

// CreateFollow makes follower follow followed
func CreateFollow(t *testing.T, db *gorm.DB, follower, followed *domain.User) *domain.Follow {
	t.Helper()

	follow, err := domain.NewFollow(follower.ID, followed.ID, TestNow)
	if err != nil {
		t.Fatalf("failed to build follow: %v", err)
	}

	if err := db.Create(follow).Error; err != nil {
		t.Fatalf("failed to create follow: %v", err)
	}

	return follow
}
