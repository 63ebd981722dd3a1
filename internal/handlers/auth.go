package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/pushp314/devconnect-chat/internal/models"
	apperrors "github.com/pushp314/devconnect-chat/pkg/errors"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"github.com/pushp314/devconnect-chat/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func validatePasswordStrength(password string) error {
	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	if len(password) < 8 || !hasUpper || !hasLower || !hasNumber || !hasSpecial {
		return fmt.Errorf("password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character")
	}
	return nil
}

type AuthHandler struct {
	db *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Avatar   string `json:"avatar"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Validation(err.Error()))
		return
	}

	if err := validatePasswordStrength(input.Password); err != nil {
		c.Error(apperrors.Validation(err.Error()))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Error(apperrors.Internal("failed to hash password", err))
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	exists, err := h.emailTaken(c, email)
	if err != nil {
		c.Error(apperrors.Internal("failed to check email", err))
		return
	}
	if exists {
		c.Error(apperrors.Conflict("An account with this email already exists. Please sign in instead."))
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Avatar:   input.Avatar,
		Password: string(hashedPassword),
	}
	if user.Avatar == "" {
		user.Avatar = "https://api.dicebear.com/7.x/identicon/svg?seed=" + email
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		// A concurrent registration can win between the check and the insert
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.Error(apperrors.Conflict("User with this email already exists"))
			return
		}
		logger.Error().Err(err).Str("email", email).Msg("Registration failed")
		c.Error(apperrors.Internal("failed to create user", err))
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.Error(apperrors.Internal("failed to generate token", err))
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User registered successfully")

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

func (h *AuthHandler) emailTaken(c *gin.Context, email string) (bool, error) {
	var count int64
	err := h.db.WithContext(c.Request.Context()).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// Login POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperrors.Validation(err.Error()))
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var user models.User
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Warn().Str("email", email).Msg("Login failed: user not found")
		c.Error(apperrors.Unauthorized("Invalid credentials"))
		return
	}
	if err != nil {
		c.Error(apperrors.Internal("failed to load user", err))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn().Str("email", email).Msg("Login failed: invalid password")
		c.Error(apperrors.Unauthorized("Invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.Error(apperrors.Internal("failed to generate token", err))
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("User logged in")

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
