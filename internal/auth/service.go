package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionName is the cookie carrying the signed session.
const SessionName = "inkpost_session"

const sessionUserKey = "user_id"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
)

// Service owns credential checks and the session cookie store.
type Service struct {
	sessions *sessions.CookieStore
}

// NewService creates the auth service with a signed cookie session store.
func NewService(sessionSecret []byte) *Service {
	store := sessions.NewCookieStore(sessionSecret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Service{sessions: store}
}

// Register creates a user with a bcrypt-hashed password.
func (s *Service) Register(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("username, email and password are required")
	}

	var existing models.User
	if err := database.DB.First(&existing, "username = ?", username).Error; err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := database.DB.First(&existing, "email = ?", email).Error; err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := database.DB.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies a username/password pair.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	err := database.DB.First(&user, "username = ?", strings.TrimSpace(username)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// SignIn stores the user in the request's session cookie.
func (s *Service) SignIn(c *gin.Context, user *models.User) error {
	session, _ := s.sessions.Get(c.Request, SessionName)
	session.Values[sessionUserKey] = user.ID
	return session.Save(c.Request, c.Writer)
}

// SignOut clears the session cookie.
func (s *Service) SignOut(c *gin.Context) error {
	session, _ := s.sessions.Get(c.Request, SessionName)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(c.Request, c.Writer)
}

func (s *Service) sessionUserID(r *http.Request) string {
	session, err := s.sessions.Get(r, SessionName)
	if err != nil {
		return ""
	}
	userID, _ := session.Values[sessionUserKey].(string)
	return userID
}
