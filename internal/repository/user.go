package repository

import (
	"context"

	"mccb-go/internal/database"
	"mccb-go/internal/models"
)

func CreateUser(email, password, displayName string) (*models.User, error) {
	user := &models.User{
		Email:       email,
		DisplayName: displayName,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	result := database.DB.Create(user)
	return user, result.Error
}

func GetUserByEmail(c context.Context, email string) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(c).First(&user, "email = ?", email)
	return &user, result.Error
}

func GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	result := database.DB.WithContext(ctx).First(&user, id)
	return &user, result.Error
}

func UpdateUserDisplayName(ctx context.Context, userID int, displayName string) error {
	return database.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("display_name", displayName).Error
}

func UpdateUserPassword(ctx context.Context, userID int, newPassword string) error {
	user := models.User{}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return database.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", user.Password).Error
}

func DeleteUser(ctx context.Context, userID int) error {
	return database.DB.WithContext(ctx).Delete(&models.User{}, userID).Error
}
