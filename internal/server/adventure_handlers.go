package server

import (
	"mime/multipart"
	"strings"

	"roamly/internal/cache"
	"roamly/internal/models"
	"roamly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAdventures handles GET /api/adventure. Without params it lists
// newest-first with pagination; ?search= switches to trigram fuzzy matching
// ordered by similarity; ?owner= narrows to one author's adventures.
func (s *Server) GetAdventures(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	if query := strings.TrimSpace(c.Query("search")); query != "" {
		adventures, err := s.adventureRepo.Search(c.Context(), query, p.Limit)
		if err != nil {
			return respondServiceError(c, err)
		}
		stripOwnerEmails(adventures)
		return c.JSON(adventures)
	}

	if owner := c.QueryInt("owner"); owner > 0 {
		adventures, err := s.adventureRepo.ListByOwner(c.Context(), uint(owner), p.Limit, p.Offset)
		if err != nil {
			return respondServiceError(c, err)
		}
		stripOwnerEmails(adventures)
		return c.JSON(adventures)
	}

	adventures, err := s.adventureRepo.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	stripOwnerEmails(adventures)
	return c.JSON(adventures)
}

// stripOwnerEmails blanks embedded account emails before a public response.
func stripOwnerEmails(adventures []models.Adventure) {
	for i := range adventures {
		adventures[i].Owner.Email = ""
	}
}

// GetAdventure handles GET /api/adventure/:id with a read-through cache.
func (s *Server) GetAdventure(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var adventure models.Adventure
	cacheErr := cache.Aside(c.Context(), cache.AdventureKey(id), &adventure, cache.AdventureTTL, func() error {
		found, err := s.adventureRepo.GetByID(c.Context(), id)
		if err != nil {
			return err
		}
		adventure = *found
		return nil
	})
	if cacheErr != nil {
		return respondServiceError(c, cacheErr)
	}
	adventure.Owner.Email = ""
	return c.JSON(adventure)
}

// CreateAdventure handles POST /api/adventure (multipart).
// Fields: title, description, repeated "images" files, repeated "captions".
// The caption count must match the image count.
func (s *Server) CreateAdventure(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Expected multipart form data"))
	}

	title := formValue(form, "title")
	description := formValue(form, "description")
	files := form.File["images"]
	captions := form.Value["captions"]

	if len(captions) != len(files) {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Caption count must match image count"))
	}

	uploads := make([]service.ImageUpload, 0, len(files))
	openFiles := make([]multipart.File, 0, len(files))
	defer func() {
		for _, f := range openFiles {
			_ = f.Close()
		}
	}()

	for i, fh := range files {
		f, openErr := fh.Open()
		if openErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded file "+fh.Filename))
		}
		openFiles = append(openFiles, f)
		uploads = append(uploads, service.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      f,
			Caption:     captions[i],
		})
	}

	adventure, err := s.adventureService.Create(c.Context(), service.CreateAdventureInput{
		OwnerID:     currentUserID(c),
		Title:       title,
		Description: description,
		Images:      uploads,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(adventure)
}

// UpdateAdventure handles PUT /api/adventure/:id (owner only, partial).
func (s *Server) UpdateAdventure(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	adventure, err := s.adventureService.Update(c.Context(), service.UpdateAdventureInput{
		UserID:      currentUserID(c),
		AdventureID: id,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), id)
	return c.JSON(adventure)
}

// DeleteAdventure handles DELETE /api/adventure/:id (owner only).
func (s *Server) DeleteAdventure(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adventureService.Delete(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), id)
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeAdventure handles POST /api/adventure/:id/like.
func (s *Server) LikeAdventure(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	// 404 before touching the likes table
	if _, err := s.adventureRepo.GetByID(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	if err := s.likeRepo.Like(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), id)
	likes, err := s.adventureRepo.CountLikes(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"likes_count": likes})
}

// UnlikeAdventure handles DELETE /api/adventure/:id/like.
func (s *Server) UnlikeAdventure(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if _, err := s.adventureRepo.GetByID(c.Context(), id); err != nil {
		return respondServiceError(c, err)
	}

	if err := s.likeRepo.Unlike(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), id)
	likes, err := s.adventureRepo.CountLikes(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"likes_count": likes})
}

func formValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}
