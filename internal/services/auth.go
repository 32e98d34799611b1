package services

import (
	"errors"

	"github.com/apetrila/bugtrail/internal/config"
	"github.com/apetrila/bugtrail/internal/models"
	"github.com/apetrila/bugtrail/internal/utils"
	"github.com/apetrila/bugtrail/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a new account and returns a signed token for it.
// Role is normalized: "MP" stays MP, everything else becomes TST.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if len(req.Password) < 6 {
		return nil, response.NewBadRequest("Password must be at least 6 characters long")
	}

	role := models.RoleTester
	if req.Role == string(models.RoleManager) {
		role = models.RoleManager
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, response.NewBadRequest("Email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

// Login authenticates a user by email and password. Unknown email and
// wrong password produce the same message.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("Invalid email or password")
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("Invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

// GetUserByID returns a user by primary key.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// ListManagers returns all MP users except the caller, ordered by
// email. The SPA uses it to pick co-managers at project creation.
func (s *AuthService) ListManagers(excludeID uint) ([]models.User, error) {
	var users []models.User
	if err := s.db.Where("role = ? AND id != ?", models.RoleManager, excludeID).
		Order("email").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
