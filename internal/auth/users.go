package auth

import (
	"context"
	"errors"
	"strings"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

const minPasswordLength = 8

type NewUser struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role"`
}

func (u *NewUser) normalize() error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))
	if u.Name == "" || u.Email == "" || u.Password == "" {
		return apperr.Invalid("name, email and password are required")
	}
	if !strings.Contains(u.Email, "@") {
		return apperr.Invalid("email is not valid")
	}
	if len(u.Password) < minPasswordLength {
		return apperr.Invalid("password must be at least 8 characters")
	}
	if u.Role == "" {
		u.Role = models.RoleStaff
	}
	if !u.Role.Valid() {
		return apperr.Invalid("role must be admin or staff")
	}
	return nil
}

// CreateUser hashes the password and inserts the user. Email addresses are
// unique and compared case-insensitively.
func CreateUser(ctx context.Context, db *gorm.DB, nu NewUser) (models.User, error) {
	if err := nu.normalize(); err != nil {
		return models.User{}, err
	}

	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", nu.Email).Count(&count).Error; err != nil {
		return models.User{}, apperr.Storage("check email", err)
	}
	if count > 0 {
		return models.User{}, apperr.Invalid("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(nu.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Name:         nu.Name,
		Email:        nu.Email,
		PasswordHash: string(hash),
		Role:         nu.Role,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, apperr.Storage("create user", err)
	}
	return user, nil
}

// Authenticate returns the user when the password matches.
func Authenticate(ctx context.Context, db *gorm.DB, email, password string) (models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var user models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, apperr.Storage("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func GetUser(ctx context.Context, db *gorm.DB, id uint) (models.User, error) {
	var user models.User
	err := db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, apperr.ErrUserNotFound
	}
	if err != nil {
		return models.User{}, apperr.Storage("get user", err)
	}
	return user, nil
}

func AdminExists(ctx context.Context, db *gorm.DB) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	if err != nil {
		return false, apperr.Storage("count admins", err)
	}
	return count > 0, nil
}
