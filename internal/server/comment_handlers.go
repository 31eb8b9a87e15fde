package server

import (
	"strings"

	"roamly/internal/cache"
	"roamly/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/adventure/:id/comments (public).
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// 404 for comments of a missing adventure
	if _, err := s.adventureRepo.GetByID(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c, 50)
	comments, err := s.commentRepo.ListByAdventure(c.Context(), id, p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	for i := range comments {
		comments[i].Owner.Email = ""
	}
	return c.JSON(comments)
}

// CreateComment handles POST /api/adventure/:id/comments.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.Content) == "" {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Comment content must not be empty"))
	}

	if _, err := s.adventureRepo.GetByID(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	comment := &models.Comment{
		Content:     req.Content,
		OwnerID:     currentUserID(c),
		AdventureID: id,
	}
	if err := s.commentRepo.Create(c.Context(), comment); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), id)
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/adventure/comment/:id (owner only).
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	if comment.OwnerID != currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own comments"))
	}

	if err := s.commentRepo.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), comment.AdventureID)
	return c.SendStatus(fiber.StatusNoContent)
}
