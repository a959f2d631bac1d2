package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avoronova/recipehub-backend/internal/app/service"
	apperrors "github.com/avoronova/recipehub-backend/internal/errors"
	"github.com/avoronova/recipehub-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags returns the full tag catalog
// GET /api/v1/tags
func (ctrl *TagController) ListTags(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tags, err := ctrl.tagService.GetAllTags()
	if err != nil {
		log.Error("Failed to list tags", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list tags")
		return
	}

	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, toTagResponse(tag))
	}

	c.JSON(http.StatusOK, gin.H{
		"tags": responses,
	})
}

// GetTag returns one tag
// GET /api/v1/tags/:id
func (ctrl *TagController) GetTag(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	tagID, ok := parseIDParam(c, "id")
	if !ok {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid tag ID")
		return
	}

	tag, err := ctrl.tagService.GetTag(tagID)
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			apperrors.NotFound(c, apperrors.ResourceNotFound, "Tag not found")
			return
		}
		log.Error("Failed to get tag", err, map[string]interface{}{
			"tag_id": tagID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get tag")
		return
	}

	c.JSON(http.StatusOK, toTagResponse(*tag))
}
