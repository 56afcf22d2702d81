package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/anhardeni/tps40-merak-sub001/internal/utils"
)

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login handles user login
func (r *Router) login(w http.ResponseWriter, req *http.Request) {
	var loginReq LoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	// 1. Find User
	var user models.UserAuth
	if err := r.DB.Where("username = ? AND is_active = ?", loginReq.Username, true).First(&user).Error; err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 2. Check Password
	if !utils.CheckPasswordHash(loginReq.Password, user.Password) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// 3. Update Last Login
	now := time.Now()
	if err := r.DB.Model(&user).Update("last_login", now).Error; err != nil {
		log.Printf("⚠️ Failed to update last login for %s: %v", user.Username, err)
	}
	user.LastLogin = &now

	// 4. Generate Tokens
	accessToken, refreshToken, err := utils.GenerateTokens(&user, r.JWTSecret)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate tokens")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tokens": map[string]string{
			"accessToken":  accessToken,
			"refreshToken": refreshToken,
		},
		"user": user,
	})
}

// logout handles user logout
func (r *Router) logout(w http.ResponseWriter, req *http.Request) {
	// Tokens are stateless; the client drops them
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
