package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"

	"elearn-platform/internal/models"
)

type UserRepository interface {
	GetUserByEmail(email string) (*models.User, error)
	CreateUser(user *models.User) error
	SaveUser(user *models.User) error
	GetUserByMagicToken(token string, now time.Time) (*models.User, error)
	GetUserWithProgress(userID uint) (*models.User, error)
}

type Config struct {
	JWTSecret    string
	BaseURL      string
	MagicLinkTTL time.Duration
	SessionTTL   time.Duration
}

type Service struct {
	repo   UserRepository
	mailer Mailer
	cfg    Config
	now    func() time.Time
}

func NewService(repo UserRepository, mailer Mailer, cfg Config) *Service {
	if cfg.MagicLinkTTL == 0 {
		cfg.MagicLinkTTL = time.Hour
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &Service{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
		now:    time.Now,
	}
}

// RequestMagicLink creates the user on first contact, stores a fresh
// single-use token with its expiry and mails the sign-in link.
func (s *Service) RequestMagicLink(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !strings.Contains(email, "@") {
		return fmt.Errorf("email %q: %w", email, models.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		user = &models.User{Email: email}
		if err := s.repo.CreateUser(user); err != nil {
			return err
		}
	}

	token, err := generateToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(s.cfg.MagicLinkTTL)
	user.MagicLinkToken = token
	user.MagicLinkExpires = &expires
	if err := s.repo.SaveUser(user); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/verify?token=%s", s.cfg.BaseURL, token)
	return s.mailer.SendMagicLink(email, link)
}

// VerifyMagicLink consumes a magic-link token and returns a signed
// session token. The magic-link fields are cleared so the link is
// single use.
func (s *Service) VerifyMagicLink(token string) (string, error) {
	if token == "" {
		return "", models.ErrTokenExpired
	}

	user, err := s.repo.GetUserByMagicToken(token, s.now())
	if err != nil {
		return "", err
	}

	user.MagicLinkToken = ""
	user.MagicLinkExpires = nil
	if err := s.repo.SaveUser(user); err != nil {
		return "", err
	}

	return s.issueSession(user)
}

func (s *Service) issueSession(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username(),
		"exp":      s.now().Add(s.cfg.SessionTTL).Unix(),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// VerifyToken validates a session token and returns the user id.
// Used by the WebSocket hub, which authenticates via query parameter.
func (s *Service) VerifyToken(tokenString string) (uint, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}
	userID, ok := (*claims)["user_id"].(float64)
	if !ok {
		return 0, errors.New("invalid user id in token")
	}
	return uint(userID), nil
}

type CompletedCourseRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type UserSummary struct {
	Username           string               `json:"username"`
	Email              string               `json:"email"`
	Score              int                  `json:"score"`
	CompletedCourses   []CompletedCourseRef `json:"completed_courses"`
	ReadLessonsCount   int                  `json:"read_lessons_count"`
	PassedQuizzesCount int                  `json:"passed_quizzes_count"`
}

func (s *Service) CurrentUser(userID uint) (*UserSummary, error) {
	user, err := s.repo.GetUserWithProgress(userID)
	if err != nil {
		return nil, err
	}

	completed := make([]CompletedCourseRef, len(user.CompletedCourses))
	for i, course := range user.CompletedCourses {
		completed[i] = CompletedCourseRef{ID: course.ID, Title: course.Title}
	}

	return &UserSummary{
		Username:           user.Username(),
		Email:              user.Email,
		Score:              user.Score(),
		CompletedCourses:   completed,
		ReadLessonsCount:   len(user.ReadLessons),
		PassedQuizzesCount: len(user.PassedQuizzes),
	}, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Printf("Error generating magic link token: %v", err)
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
