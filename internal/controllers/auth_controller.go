package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"astegni_backend/internal/config"
	"astegni_backend/internal/middleware"
	"astegni_backend/internal/models"
	"astegni_backend/internal/roles"
)

type registerInput struct {
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" binding:"required"`
	Role            string `json:"role" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	FatherName      string `json:"father_name"`
	GrandfatherName string `json:"grandfather_name"`
}

// Register creates the account if it does not exist yet and grants the
// requested role. Registering an existing account again (to pick up a
// second role) must present the account's password.
func Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)
	if input.Email == "" && input.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or phone is required"})
		return
	}

	kind, err := roles.ParseKind(input.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	var user models.User
	err = config.DB.Transaction(func(tx *gorm.DB) error {
		existing, err := findUserByContact(tx, input.Email, input.Phone)
		switch {
		case err == nil:
			if bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(input.Password)) != nil {
				return errWrongPassword
			}
			user = *existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				FirstName:       input.FirstName,
				FatherName:      input.FatherName,
				GrandfatherName: input.GrandfatherName,
				Password:        hashedPassword,
			}
			if input.Email != "" {
				user.Email = &input.Email
			}
			if input.Phone != "" {
				user.Phone = &input.Phone
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
		default:
			return err
		}

		_, err = roles.NewLifecycle(tx).AddRole(user.ID, kind)
		return err
	})
	if err != nil {
		if errors.Is(err, errWrongPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "account exists, password does not match"})
			return
		}
		if errors.Is(err, errContactConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email and phone belong to different accounts"})
			return
		}
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			c.JSON(http.StatusConflict, gin.H{"error": "email or phone already in use"})
			return
		}
		roleHTTPError(c, err)
		return
	}

	// Reload so the response reflects whatever AddRole promoted.
	if err := config.DB.First(&user, user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load account"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.ActiveRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	responseUser, err := prepareUserResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build response"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  responseUser,
	})
}

// Login authenticates by email or phone.
func Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body.Email = strings.TrimSpace(strings.ToLower(body.Email))
	body.Phone = strings.TrimSpace(body.Phone)
	if body.Email == "" && body.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or phone is required"})
		return
	}

	user, err := findUserByContact(config.DB, body.Email, body.Phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found or invalid credentials"})
		} else if errors.Is(err, errContactConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": "email and phone belong to different accounts"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect password"})
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.ActiveRole)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	responseUser, err := prepareUserResponse(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  responseUser,
	})
}

// SwitchRole changes which role the account acts as and refreshes the
// token so downstream role gates see the new one.
func SwitchRole(c *gin.Context) {
	var body struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind, err := roles.ParseKind(body.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	userID := currentUserID(c)
	if err := roles.NewLifecycle(config.DB).SwitchActiveRole(userID, kind); err != nil {
		roleHTTPError(c, err)
		return
	}

	token, err := middleware.GenerateToken(userID, string(kind))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"active_role": string(kind),
	})
}

// Me returns the account with its derived roles and active profile.
func Me(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, currentUserID(c)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	responseUser, err := prepareUserResponse(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not build response"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": responseUser})
}

var (
	errWrongPassword   = errors.New("wrong password for existing account")
	errContactConflict = errors.New("email and phone belong to different accounts")
)

// findUserByContact looks an account up by whichever contact field the
// client sent. When both are given they must agree: resolving them to
// two different accounts is refused rather than silently picking one.
func findUserByContact(tx *gorm.DB, email, phone string) (*models.User, error) {
	lookup := func(column, value string) (*models.User, error) {
		var user models.User
		err := tx.Where(column+" = ?", value).First(&user).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &user, nil
	}

	var byEmail, byPhone *models.User
	var err error
	if email != "" {
		if byEmail, err = lookup("email", email); err != nil {
			return nil, err
		}
	}
	if phone != "" {
		if byPhone, err = lookup("phone", phone); err != nil {
			return nil, err
		}
	}

	switch {
	case byEmail != nil && byPhone != nil && byEmail.ID != byPhone.ID:
		return nil, errContactConflict
	case byEmail != nil:
		return byEmail, nil
	case byPhone != nil:
		return byPhone, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
