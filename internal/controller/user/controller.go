// Package user contain handler logic for public user profiles
package user

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"joblink-backend/internal/database"
	"joblink-backend/internal/model"
	"joblink-backend/internal/utilities"
)

// UserController provide handler with access to database
type UserController struct {
	DB *database.DBinstanceStruct
}

// NewUserController create new controller instance with database
func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{DB: db}
}

// GetPublicProfile return a user's public profile with sensitive fields
// stripped. Employers expose their company block, jobseekers their skills.
func (uc *UserController) GetPublicProfile(ctx *gin.Context) {
	userID := ctx.Param("user_id")

	if _, err := uuid.Parse(userID); err != nil {
		ctx.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid user id"})
		return
	}

	var user model.User
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user.PublicProfile()})
}
