package seeds

import (
	"errors"

	"github.com/pushp314/devconnect-chat/internal/models"
	"github.com/pushp314/devconnect-chat/pkg/logger"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is shared by every seeded account
const DemoPassword = "ChatDemo2024!"

type demoUser struct {
	name  string
	email string
}

var demoUsers = []demoUser{
	{name: "Ada Lovelace", email: "ada@devconnect.dev"},
	{name: "Grace Hopper", email: "grace@devconnect.dev"},
	{name: "Linus Torvalds", email: "linus@devconnect.dev"},
}

// GetOrCreateUser looks a user up by email and creates it when missing
func GetOrCreateUser(db *gorm.DB, name, email, password string) (models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		logger.Info().Str("email", email).Msg("User already present")
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user = models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=" + email,
	}
	if err := db.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	logger.Info().Str("email", email).Str("id", user.ID).Msg("User created")
	return user, nil
}

// SeedUsers makes sure the demo accounts exist and returns them in a fixed order
func SeedUsers(db *gorm.DB) ([]models.User, error) {
	users := make([]models.User, 0, len(demoUsers))
	for _, d := range demoUsers {
		u, err := GetOrCreateUser(db, d.name, d.email, DemoPassword)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
