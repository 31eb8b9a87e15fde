package server

import (
	"mime/multipart"
	"strconv"

	"roamly/internal/cache"
	"roamly/internal/models"
	"roamly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AddImages handles POST /api/image (multipart).
// Fields: adventure_id, repeated "images" files, repeated "captions".
// Responds with the adventure's full image list.
func (s *Server) AddImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Expected multipart form data"))
	}

	adventureIDStr := formValue(form, "adventure_id")
	adventureID, err := strconv.ParseUint(adventureIDStr, 10, 32)
	if err != nil || adventureID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("A valid adventure_id is required"))
	}

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

	images, err := s.adventureService.AddImages(c.Context(), currentUserID(c), uint(adventureID), uploads)
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), uint(adventureID))
	return c.Status(fiber.StatusCreated).JSON(images)
}

// GetAdventureImages handles GET /api/image/:adventureId (public).
func (s *Server) GetAdventureImages(c *fiber.Ctx) error {
	adventureID, err := s.parseID(c, "adventureId")
	if err != nil {
		return nil
	}

	if _, err := s.adventureRepo.GetByID(c.Context(), adventureID); err != nil {
		return respondServiceError(c, err)
	}

	images, err := s.imageRepo.ListByAdventure(c.Context(), adventureID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(images)
}

// UpdateImageCaption handles PUT /api/image/:id (owner only).
func (s *Server) UpdateImageCaption(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Caption string `json:"caption"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	image, err := s.adventureService.UpdateImageCaption(c.Context(), currentUserID(c), id, req.Caption)
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), image.AdventureID)
	return c.JSON(image)
}

// DeleteImage handles DELETE /api/image/:id (owner only).
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	image, err := s.imageRepo.GetByID(c.Context(), id)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.adventureService.DeleteImage(c.Context(), currentUserID(c), id); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateAdventure(c.Context(), image.AdventureID)
	return c.SendStatus(fiber.StatusNoContent)
}
