// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListArticles handles GET /api/v1/articles
func (s *Server) ListArticles(c *fiber.Ctx) error {
	params, err := s.parsePageParams(c)
	if err != nil {
		return nil
	}

	page, err := s.articleService.ListArticles(c.Context(), params)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(page)
}

// GetArticle handles GET /api/v1/articles/:id. The route is public, but a
// bearer token lets an author read their own drafts.
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := middleware.OptionalUserID(c)
	article, err := s.articleService.GetArticle(c.Context(), id, viewerID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(article)
}

// CreateArticle handles POST /api/v1/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Summary string   `json:"summary"`
		Tags    []string `json:"tags"`
		Status  string   `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.CreateArticle(c.Context(), service.CreateArticleInput{
		AuthorID: currentUserID(c),
		Title:    req.Title,
		Content:  req.Content,
		Summary:  req.Summary,
		Tags:     req.Tags,
		Status:   req.Status,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

// UpdateArticle handles PUT /api/v1/articles/:id
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   *string  `json:"title"`
		Content *string  `json:"content"`
		Summary *string  `json:"summary"`
		Tags    []string `json:"tags"`
		Status  *string  `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewValidationError("Invalid request body"))
	}

	article, err := s.articleService.UpdateArticle(c.Context(), service.UpdateArticleInput{
		UserID:    currentUserID(c),
		ArticleID: id,
		Title:     req.Title,
		Content:   req.Content,
		Summary:   req.Summary,
		Tags:      req.Tags,
		Status:    req.Status,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/v1/articles/:id
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.articleService.DeleteArticle(c.Context(), service.DeleteArticleInput{
		UserID:    currentUserID(c),
		ArticleID: id,
	}); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
