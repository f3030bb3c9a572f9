package handler

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mizow1/satelite-column11/internal/model"
	"github.com/mizow1/satelite-column11/pkg/mail"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	CreateUser(user *model.User) (bool, error)
	GetByEmail(email string) (*model.User, error)
	GetByResetToken(token string) (*model.User, error)
	SetResetToken(userID, token string) error
	UpdatePassword(userID, passwordHash string) error
}

type AuthHandler struct {
	users  UserStore
	sender mail.Sender
}

func NewAuthHandler(users UserStore, sender mail.Sender) *AuthHandler {
	return &AuthHandler{users: users, sender: sender}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}
	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		slog.Error("error hashing password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}

	user := &model.User{Email: req.Email, Name: req.Name, PasswordHash: string(hash)}
	created, err := h.users.CreateUser(user)
	if err != nil {
		slog.Error("error creating user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}
	if !created {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This email address is already registered"})
		return
	}

	// Welcome email is best effort; registration already succeeded.
	tpl := mail.WelcomeTemplate(user.Name)
	if err := h.sender.Send(user.Email, tpl.Subject, tpl.HTML, tpl.Text); err != nil {
		slog.Warn("welcome email failed", "user_id", user.ID, "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id":   user.ID,
		"api_token": user.APIToken,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		slog.Error("error loading user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":   user.ID,
		"api_token": user.APIToken,
	})
}

func (h *AuthHandler) ResetRequest(c *gin.Context) {
	var req ResetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	user, err := h.users.GetByEmail(req.Email)
	if err != nil {
		slog.Error("error loading user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	// Whether the address exists is not revealed.
	if user != nil {
		token := uuid.NewString()
		if err := h.users.SetResetToken(user.ID, token); err != nil {
			slog.Error("error storing reset token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		resetLink := os.Getenv("APP_URL") + "/reset-password?token=" + token
		tpl := mail.PasswordResetTemplate(user.Name, resetLink)
		if err := h.sender.Send(user.Email, tpl.Subject, tpl.HTML, tpl.Text); err != nil {
			slog.Error("password reset email failed", "user_id", user.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Email delivery failed"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the address is registered, a reset email has been sent"})
}

func (h *AuthHandler) ResetConfirm(c *gin.Context) {
	var req ResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters"})
		return
	}

	user, err := h.users.GetByResetToken(req.Token)
	if err != nil {
		slog.Error("error loading user by reset token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired reset token"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		slog.Error("error hashing password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password reset failed"})
		return
	}

	if err := h.users.UpdatePassword(user.ID, string(hash)); err != nil {
		slog.Error("error updating password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
