package handler

import (
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"casedocs/internal/model"
	"casedocs/internal/service"
)

// fileItem is the wire shape of one document in listing responses.
// The field names are part of the public contract consumed by the dashboard.
type fileItem struct {
	ID                   string               `json:"_id"`
	Name                 string               `json:"name"`
	Format               string               `json:"format"`
	Size                 int64                `json:"size"`
	ClassificationResult model.Classification `json:"classificationResult"`
}

// resultItem is the wire shape of one entry of the results listing.
type resultItem struct {
	Name                 string               `json:"name"`
	Format               string               `json:"format"`
	Size                 int64                `json:"size"`
	ClassificationResult model.Classification `json:"classificationResult"`
}

// uploadResult is the per-file outcome of an upload batch. Exactly one of
// the terminal states applies: rejected (never persisted), classified, or
// classification_failed (persisted, classifier verdict missing).
type uploadResult struct {
	Name   string `json:"name"`
	ID     string `json:"_id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

const (
	uploadStatusClassified           = "classified"
	uploadStatusClassificationFailed = "classification_failed"
	uploadStatusRejected             = "rejected"
)

// UploadBatch ingests a multipart batch (field `files`) and classifies every
// persisted document before responding. Per-file failures are carried in the
// response body, not the HTTP status: only an invalid batch or a systemic
// failure changes the status code.
func UploadBatch(ingest service.IngestService, orch service.Orchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "multipart field 'files' is required")
		}
		fileHeaders := form.File["files"]
		if len(fileHeaders) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "multipart field 'files' is required")
		}

		uploads := make([]service.Upload, 0, len(fileHeaders))
		for _, fh := range fileHeaders {
			content, err := readMultipartFile(fh)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
			}
			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			uploads = append(uploads, service.Upload{
				Name:    fh.Filename,
				Format:  ct,
				Content: content,
			})
		}

		outcomes, err := ingest.UploadBatch(c.UserContext(), uploads)
		if err != nil {
			if errors.Is(err, service.ErrBatchEmpty) || errors.Is(err, service.ErrBatchTooLarge) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BATCH", err.Error())
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		ids := make([]string, 0, len(outcomes))
		for _, o := range outcomes {
			if o.Err == nil {
				ids = append(ids, o.DocumentID)
			}
		}
		classified := orch.ClassifyBatch(c.UserContext(), ids)
		byID := make(map[string]service.ClassifyOutcome, len(classified))
		for _, co := range classified {
			byID[co.DocumentID] = co
		}

		results := make([]uploadResult, 0, len(outcomes))
		for _, o := range outcomes {
			r := uploadResult{Name: o.Name, ID: o.DocumentID}
			switch {
			case o.Err != nil:
				r.Status = uploadStatusRejected
				r.Error = o.Err.Error()
			case byID[o.DocumentID].Classification.Status == model.StatusCompleted:
				r.Status = uploadStatusClassified
			default:
				r.Status = uploadStatusClassificationFailed
				if co := byID[o.DocumentID]; co.Err != nil {
					r.Error = co.Err.Error()
				}
			}
			results = append(results, r)
		}

		return c.JSON(fiber.Map{"results": results})
	}
}

// ListFiles returns the metadata projection of every stored document.
func ListFiles(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := docSvc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		items := make([]fileItem, 0, len(docs))
		for _, d := range docs {
			items = append(items, fileItem{
				ID:                   d.ID,
				Name:                 d.Name,
				Format:               d.Format,
				Size:                 d.Size,
				ClassificationResult: d.Classification,
			})
		}
		return c.JSON(items)
	}
}

// GetFile returns one document's content as a base64 data URL plus the terms
// to highlight.
func GetFile(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := docSvc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return translateReadError(c, err)
		}
		return c.JSON(fiber.Map{
			"data":           doc.DataURL,
			"importantTerms": doc.ImportantTerms,
		})
	}
}

// PreviewFile returns a text document with important terms wrapped in
// emphasis markers.
func PreviewFile(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		preview, err := docSvc.Preview(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotText) {
				return writeError(c, fiber.StatusUnprocessableEntity, "NOT_TEXT", "document is not a text format")
			}
			return translateReadError(c, err)
		}
		return c.JSON(fiber.Map{
			"name": preview.Name,
			"text": preview.Text,
		})
	}
}

// ListResults returns the classification results listing.
func ListResults(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := docSvc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		items := make([]resultItem, 0, len(docs))
		for _, d := range docs {
			items = append(items, resultItem{
				Name:                 d.Name,
				Format:               d.Format,
				Size:                 d.Size,
				ClassificationResult: d.Classification,
			})
		}
		return c.JSON(items)
	}
}

func translateReadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "document not found")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
