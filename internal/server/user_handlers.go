// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/v1/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// GetUserProfile handles GET /api/v1/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(profile)
}

// ListUsers handles GET /api/v1/users
func (s *Server) ListUsers(c *fiber.Ctx) error {
	params, err := s.parsePageParams(c)
	if err != nil {
		return nil
	}

	page, err := s.userService.ListUsers(c.Context(), params)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(page)
}

// UpdateMyProfile handles PUT /api/v1/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		FullName  string `json:"full_name"`
		AvatarURL string `json:"avatar_url"`
		Password  string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    currentUserID(c),
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
		Password:  req.Password,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/v1/users/me
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteUser(c.Context(), currentUserID(c)); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUserArticles handles GET /api/v1/users/:id/articles
func (s *Server) ListUserArticles(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	params, err := s.parsePageParams(c)
	if err != nil {
		return nil
	}

	// Confirm the author exists so a bogus ID reads as 404, not an empty page
	if _, err := s.userService.GetUserByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, err)
	}

	page, err := s.articleService.ListArticlesByAuthor(c.Context(), id, params)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(page)
}
