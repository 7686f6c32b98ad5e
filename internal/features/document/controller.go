package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/syffus01/BioGED/internal/common/apperr"
	"github.com/syffus01/BioGED/internal/config"
	"github.com/syffus01/BioGED/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type DocumentController struct {
	UploadDir       string
	MaxUploadBytes  int64
	DocumentService DocumentService
}

func NewDocumentController(documentService DocumentService, cfg *config.Config) *DocumentController {
	if _, err := os.Stat(cfg.FSPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.FSPath, 0755)
	}
	return &DocumentController{
		UploadDir:       cfg.FSPath,
		MaxUploadBytes:  cfg.MaxUploadMB << 20,
		DocumentService: documentService,
	}
}

// Upload godoc
// @Summary      Upload a document
// @Description  Stores the file and creates the metadata record with its seeded approval workflow
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Document file"
// @Param        title formData string true "Title"
// @Param        description formData string false "Description"
// @Param        document_type formData string true "Document type"
// @Param        category formData string true "Category within the type"
// @Param        tags formData string false "Comma-separated tags"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/documents/upload [post]
func (ctrl *DocumentController) Upload(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Error retrieving file",
		})
	}

	if file.Size > ctrl.MaxUploadBytes {
		return apperr.Fail(c, fmt.Errorf("file too large: %w", apperr.ErrBadRequest))
	}

	// Files are stored under a generated id; the original name survives in
	// the metadata record only
	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dstPath := filepath.Join(ctrl.UploadDir, storedName)

	if err := c.SaveFile(file, dstPath); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error saving file to disk",
		})
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var tags []string
	if raw := c.FormValue("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	doc, err := ctrl.DocumentService.Upload(c.UserContext(), claims.UserID, UploadInput{
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		DocumentType: c.FormValue("document_type"),
		Category:     c.FormValue("category"),
		Tags:         tags,
		FilePath:     dstPath,
		FileName:     filepath.Base(file.Filename),
		FileSize:     file.Size,
		MimeType:     mimeType,
	})
	if err != nil {
		// Metadata write failed; don't leave the upload orphaned
		os.Remove(dstPath)
		return apperr.Fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "Document uploaded successfully",
		"document_id": doc.DocumentID,
	})
}

// List godoc
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Param        skip query int false "Offset"
// @Param        limit query int false "Page size"
// @Param        document_type query string false "Filter by type"
// @Param        status query string false "Filter by status"
// @Success      200 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/documents [get]
func (ctrl *DocumentController) List(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)

	skip, _ := strconv.ParseInt(c.Query("skip", "0"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)

	docs, total, err := ctrl.DocumentService.ListDocuments(c.UserContext(), claims.UserID, c.Query("document_type"), c.Query("status"), skip, limit)
	if err != nil {
		return apperr.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"documents": docs,
		"total":     total,
		"skip":      skip,
		"limit":     limit,
	})
}

// Get godoc
// @Summary      Fetch one document
// @Tags         documents
// @Produce      json
// @Param        id path string true "Document ID"
// @Success      200 {object} Document
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/documents/{id} [get]
func (ctrl *DocumentController) Get(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)

	doc, err := ctrl.DocumentService.GetDocument(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return apperr.Fail(c, err)
	}

	return c.JSON(doc)
}

// Download godoc
// @Summary      Download the stored file
// @Tags         documents
// @Param        id path string true "Document ID"
// @Success      200 {file} file
// @Failure      404 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /api/documents/{id}/download [get]
func (ctrl *DocumentController) Download(c *fiber.Ctx) error {
	claims := middleware.ClaimsFromCtx(c)

	doc, err := ctrl.DocumentService.Download(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return apperr.Fail(c, err)
	}

	return c.Download(doc.FilePath, doc.FileName)
}
