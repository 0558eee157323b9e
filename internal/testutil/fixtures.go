package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/diary-service/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email       string
	password    string
	nickname    string
	name        string
	phoneNumber string
	inactive    bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		email:       fmt.Sprintf("user_%s@example.com", suffix),
		password:    "testpassword123",
		nickname:    "nick_" + suffix,
		name:        "Test User",
		phoneNumber: "010-1234-5678",
	}
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) WithNickname(nickname string) *UserBuilder {
	b.nickname = nickname
	return b
}

// Inactive marks the user as deactivated
func (b *UserBuilder) Inactive() *UserBuilder {
	b.inactive = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Nickname:     b.nickname,
		Name:         b.name,
		PhoneNumber:  b.phoneNumber,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	if b.inactive {
		// is_active defaults to true, so a false value is skipped on insert
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("failed to deactivate user: %v", err)
		}
		user.IsActive = false
	}

	return user, b.password
}

// TokenResponse matches the API login response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// BuildAndAuthenticate signs a user up and logs in via the API, returning the
// user and an access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	signup := map[string]string{
		"email":        b.email,
		"password":     b.password,
		"nickname":     b.nickname,
		"name":         b.name,
		"phone_number": b.phoneNumber,
	}
	resp := postJSON(t, ts.APIURL("/users/signup"), signup)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected signup status code: %d", resp.StatusCode)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		t.Fatalf("failed to decode signup response: %v", err)
	}

	loginResp := postJSON(t, ts.APIURL("/users/login"), map[string]string{
		"email":    b.email,
		"password": b.password,
	})
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", loginResp.StatusCode)
	}

	var tokens TokenResponse
	if err := json.NewDecoder(loginResp.Body).Decode(&tokens); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return &user, tokens.AccessToken
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(data))
	if err != nil {
		t.Fatalf("request to %s failed: %v", url, err)
	}
	return resp
}

// DiaryBuilder creates test diaries with a builder pattern
type DiaryBuilder struct {
	owner     *domain.User
	title     string
	content   string
	mood      domain.Mood
	emotion   *domain.EmotionType
	createdAt time.Time
}

func NewDiaryBuilder(owner *domain.User) *DiaryBuilder {
	return &DiaryBuilder{
		owner:     owner,
		title:     "오늘의 일기",
		content:   "오늘은 친구와 산책을 했다. 날씨가 좋았다.",
		mood:      domain.MoodHappy,
		createdAt: time.Now(),
	}
}

func (b *DiaryBuilder) WithTitle(title string) *DiaryBuilder {
	b.title = title
	return b
}

func (b *DiaryBuilder) WithContent(content string) *DiaryBuilder {
	b.content = content
	return b
}

func (b *DiaryBuilder) WithMood(mood domain.Mood) *DiaryBuilder {
	b.mood = mood
	return b
}

func (b *DiaryBuilder) WithEmotion(emotion domain.EmotionType) *DiaryBuilder {
	b.emotion = &emotion
	return b
}

func (b *DiaryBuilder) CreatedAt(at time.Time) *DiaryBuilder {
	b.createdAt = at
	return b
}

func (b *DiaryBuilder) Build(t *testing.T, db *gorm.DB) *domain.Diary {
	t.Helper()

	diary := &domain.Diary{
		ID:        uuid.New(),
		UserID:    b.owner.ID,
		Title:     b.title,
		Content:   b.content,
		Mood:      b.mood,
		Emotion:   b.emotion,
		CreatedAt: b.createdAt,
		UpdatedAt: b.createdAt,
	}

	if err := db.Omit("EmotionKeywords").Create(diary).Error; err != nil {
		t.Fatalf("failed to create diary: %v", err)
	}
	diary.EmotionKeywords = []domain.EmotionKeyword{}

	return diary
}

// TagBuilder creates test tags
type TagBuilder struct {
	name string
}

func NewTagBuilder() *TagBuilder {
	return &TagBuilder{name: "tag_" + uuid.New().String()[:8]}
}

func (b *TagBuilder) WithName(name string) *TagBuilder {
	b.name = name
	return b
}

func (b *TagBuilder) Build(t *testing.T, db *gorm.DB) *domain.Tag {
	t.Helper()

	tag := &domain.Tag{
		ID:        uuid.New(),
		Name:      b.name,
		CreatedAt: time.Now(),
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// LinkTag attaches tag to diary
func LinkTag(t *testing.T, db *gorm.DB, diary *domain.Diary, tag *domain.Tag) {
	t.Helper()

	link := &domain.DiaryTag{DiaryID: diary.ID, TagID: tag.ID, CreatedAt: time.Now()}
	if err := db.Create(link).Error; err != nil {
		t.Fatalf("failed to link tag: %v", err)
	}
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
