package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ctchen222/LLM-Arena/internal/api/models"
	"ctchen222/LLM-Arena/internal/api/repository"
)

const tokenTTL = 72 * time.Hour

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// OperatorService defines the interface for operator-related business logic.
type OperatorService interface {
	Register(ctx context.Context, req *models.RegisterRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (string, error)
	VerifyToken(tokenString string) (username string, err error)
}

type operatorService struct {
	operatorRepo repository.OperatorRepository
	jwtSecret    []byte
}

// NewOperatorService creates a new OperatorService signing tokens with secret.
func NewOperatorService(operatorRepo repository.OperatorRepository, secret string) OperatorService {
	return &operatorService{
		operatorRepo: operatorRepo,
		jwtSecret:    []byte(secret),
	}
}

// Register handles operator registration.
func (s *operatorService) Register(ctx context.Context, req *models.RegisterRequest) error {
	existing, err := s.operatorRepo.GetOperatorByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	operator := &models.Operator{
		Username: req.Username,
	}
	return s.operatorRepo.CreateOperator(ctx, operator, req.Password)
}

// Login handles operator login and returns a JWT on success.
func (s *operatorService) Login(ctx context.Context, req *models.LoginRequest) (string, error) {
	operator, err := s.operatorRepo.GetOperatorByUsername(ctx, req.Username)
	if err != nil {
		return "", err
	}
	if operator == nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": operator.ID,
		"un":  operator.Username,
		"exp": time.Now().Add(tokenTTL).Unix(),
	})

	return token.SignedString(s.jwtSecret)
}

// VerifyToken validates a JWT and returns the operator's username.
func (s *operatorService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	username, _ := claims["un"].(string)
	return username, nil
}
