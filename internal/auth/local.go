package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"joblink-backend/internal/database"
	"joblink-backend/internal/model"
	"joblink-backend/internal/utilities"
)

// LocalAuthHandler handles email/password registration, login and account endpoints
type LocalAuthHandler struct {
	DB *database.DBinstanceStruct
}

// NewLocalAuthHandler creates a new instance of LocalAuthHandler
func NewLocalAuthHandler(db *database.DBinstanceStruct) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB: db,
	}
}

// LocalRegisterHandler registers a new jobseeker or employer account.
// Employers must provide a company name.
func (h *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info struct {
		Name               string `json:"name" binding:"required"`
		Email              string `json:"email" binding:"required,email"`
		Password           string `json:"password" binding:"required"`
		Role               string `json:"role" binding:"required,oneof=jobseeker employer"`
		CompanyName        string `json:"companyName"`
		CompanyDescription string `json:"companyDescription"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Name, email, password, and role (only 'jobseeker' or 'employer') must be provided",
		})
		return
	}

	var existing model.User
	err := h.DB.Where("email = ?", info.Email).First(&existing).Error

	switch {
	case err == nil:
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "User already exists with this email",
		})
		return

	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	if info.Role == model.RoleEmployer && info.CompanyName == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Company name is required for employers",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	user := model.User{
		Email:    info.Email,
		Password: hashedPassword,
		Role:     info.Role,
		EditableUserInfo: model.EditableUserInfo{
			Name: info.Name,
		},
	}
	if info.Role == model.RoleEmployer {
		user.EditableCompanyInfo = model.EditableCompanyInfo{
			CompanyName:        info.CompanyName,
			CompanyDescription: info.CompanyDescription,
		}
	}

	if err := h.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	accessToken, err := generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "User registered successfully",
		"user":         user,
		"access_token": accessToken,
	})
}

// LocalLoginHandler authenticates a user by email and password
func (h *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
		})
		return
	}

	var user model.User
	err := h.DB.Where("email = ?", info.Email).First(&user).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Invalid email or password",
		})
		return

	case err == nil:
		// Do nothing

	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if user.Password == "" || !utilities.VerifyPassword(info.Password, user.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Invalid email or password",
		})
		return
	}

	accessToken, err := generateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"user":         user,
		"access_token": accessToken,
	})
}

// MeHandler returns the authenticated user's account
func (h *LocalAuthHandler) MeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type editProfile struct {
	model.EditableUserInfo
	model.EditableCompanyInfo
	Email string `json:"email"`
}

// UpdateProfileHandler overwrites the editable parts of the authenticated
// user's profile. Company fields are only applied for employers; every other
// field in the request body is ignored.
func (h *LocalAuthHandler) UpdateProfileHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	edited := editProfile{}
	if err := c.ShouldBindJSON(&edited); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	// Changing email requires the new address to be free
	if edited.Email != "" && edited.Email != user.Email {
		var other model.User
		err := h.DB.Where("email = ?", edited.Email).First(&other).Error
		switch {
		case err == nil:
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Email is already taken by another user",
			})
			return
		case errors.Is(err, gorm.ErrRecordNotFound):
			user.Email = edited.Email
		default:
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Database error: %s", err.Error()),
			})
			return
		}
	}

	utilities.MergeNonEmpty(&user.EditableUserInfo, &edited.EditableUserInfo)
	if user.Role == model.RoleEmployer {
		utilities.MergeNonEmpty(&user.EditableCompanyInfo, &edited.EditableCompanyInfo)
	}

	if err := h.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

// ChangePasswordHandler replaces the authenticated user's password after
// verifying the current one
func (h *LocalAuthHandler) ChangePasswordHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Please provide current and new password",
		})
		return
	}

	if !utilities.VerifyPassword(info.CurrentPassword, user.Password) {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Current password is incorrect",
		})
		return
	}

	if len(info.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	hashedPassword, err := utilities.HashPassword(info.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	if err := h.DB.Model(&user).Update("password", hashedPassword).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update password: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Password changed successfully"})
}

// CheckEmailHandler reports whether an account exists for the given email
func (h *LocalAuthHandler) CheckEmailHandler(c *gin.Context) {
	email := c.Param("email")

	var user model.User
	err := h.DB.Where("email = ?", email).First(&user).Error

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"exists": true})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusOK, gin.H{"exists": false})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
	}
}
