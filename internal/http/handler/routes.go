package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"docuflow/internal/service"
)

const (
	healthTimeout = 2 * time.Second
	tokenType     = "bearer"
)

// pinger is satisfied by anything that can report dependency health.
type pinger interface {
	Ping(ctx context.Context) error
}

// LoginResponse is the static development token returned by Login.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers stay thin: they translate service outcomes into responses.
func RegisterRoutes(app *fiber.App, docSvc service.DocumentService, qaSvc service.QAService, devToken string) {
	app.Get("/health", HealthCheck(docSvc))
	app.Get("/healthz", LivenessProbe())

	api := app.Group("/api/v1")

	docs := api.Group("/documents")
	docs.Get("/", ListDocuments(docSvc))
	docs.Post("/upload", UploadDocument(docSvc))
	docs.Get("/:id", GetDocument(docSvc))
	docs.Delete("/:id", DeleteDocument(docSvc))

	api.Post("/qa/ask", AskQuestion(qaSvc))
	api.Post("/auth/login", Login(devToken))
}

// HealthCheck reports whether the document store's dependencies are reachable.
//
// @Summary Readiness check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(p pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is serving.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListDocuments returns every document, newest first.
//
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {object} service.DocumentListResult
// @Failure 500 {object} errorPayload
// @Router /api/v1/documents [get]
func ListDocuments(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// UploadDocument accepts multipart/form-data with field "file".
//
// @Summary Upload a document
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param file formData file true "document to upload"
// @Success 201 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /api/v1/documents/upload [post]
func UploadDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		doc, err := svc.Upload(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// GetDocument returns the document with exactly the given id.
//
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} model.Document
// @Failure 404 {object} errorPayload
// @Router /api/v1/documents/{id} [get]
func GetDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(doc)
	}
}

// DeleteDocument removes a document and, best-effort, its uploaded bytes.
//
// @Summary Delete a document
// @Tags documents
// @Param id path string true "document id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/v1/documents/{id} [delete]
func DeleteDocument(svc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		deleted, err := svc.Delete(c.UserContext(), c.Params("id"))
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if !deleted {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// AskQuestion answers a question, optionally scoped to one document.
//
// @Summary Ask a question
// @Tags qa
// @Accept json
// @Produce json
// @Param request body service.Question true "question"
// @Success 200 {object} service.Answer
// @Failure 400 {object} errorPayload
// @Router /api/v1/qa/ask [post]
func AskQuestion(svc service.QAService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var q service.Question
		if err := c.BodyParser(&q); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
		}

		ans, err := svc.Ask(c.UserContext(), q)
		if err != nil {
			if errors.Is(err, service.ErrQuestionRequired) {
				return writeError(c, fiber.StatusBadRequest, "QUESTION_REQUIRED", "question is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(ans)
	}
}

// Login always succeeds with the configured development token.
//
// @Summary Development login
// @Tags auth
// @Produce json
// @Success 200 {object} LoginResponse
// @Router /api/v1/auth/login [post]
func Login(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(LoginResponse{AccessToken: token, TokenType: tokenType})
	}
}
