package server

import (
	"strconv"
	"strings"

	"roamly/internal/cache"
	"roamly/internal/models"
	"roamly/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// GetUser handles GET /api/user/:id. Email is only included when the caller
// is the profile owner.
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var user models.User
	cacheErr := cache.Aside(c.Context(), cache.UserKey(id), &user, cache.UserTTL, func() error {
		found, err := s.userRepo.GetByID(c.Context(), id)
		if err != nil {
			return err
		}
		user = *found
		return nil
	})
	if cacheErr != nil {
		return respondServiceError(c, cacheErr)
	}

	if callerID, ok := s.optionalUserID(c); !ok || callerID != user.ID {
		user.Email = ""
	}
	return c.JSON(user)
}

// UpdateUser handles PUT /api/user/:id (self only).
func (s *Server) UpdateUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if currentUserID(c) != id {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only update your own account"))
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
		Password *string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if req.Username != nil {
		if err := validation.ValidateUsername(*req.Username); err != nil {
			return respondServiceError(c, err)
		}
		user.Username = *req.Username
	}
	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			return respondServiceError(c, err)
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		if err := validation.ValidatePassword(*req.Password); err != nil {
			return respondServiceError(c, err)
		}
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(hashErr))
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// DeleteUser handles DELETE /api/user/:id (self only).
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if currentUserID(c) != id {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only delete your own account"))
	}

	// 404 before delete so a repeat delete is distinguishable
	if _, err := s.userRepo.GetByID(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	if err := s.userRepo.Delete(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SearchUsers handles GET /api/user/search?q= with trigram fuzzy matching.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Query parameter 'q' is required"))
	}

	p := parsePagination(c, 20)
	users, err := s.userRepo.SearchByUsername(c.Context(), query, p.Limit)
	if err != nil {
		return respondServiceError(c, err)
	}

	for i := range users {
		users[i].Email = ""
	}
	return c.JSON(users)
}

// optionalUserID attempts to extract userID from the Authorization header but
// does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, false
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(userID), true
}
