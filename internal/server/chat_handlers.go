package server

import (
	"roamly/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Chat handles POST /api/chat: a trail question answered by the
// retrieval-augmented pipeline. Rate limiting is applied at the route level.
func (s *Server) Chat(c *fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	answer, err := s.chatService.Ask(c.UserContext(), req.Query)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(answer)
}
