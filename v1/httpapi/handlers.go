package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Aleph-Alpha/catalog-ingest/v1/catalog"
	"github.com/Aleph-Alpha/catalog-ingest/v1/ingest"
	"github.com/Aleph-Alpha/catalog-ingest/v1/logger"
)

// Submitter starts an ingestion in the background.
type Submitter interface {
	Submit(ctx context.Context, req ingest.Request) error
}

// VersionLister reads a provider's catalog versions, newest first.
type VersionLister interface {
	List(ctx context.Context, providerID string) ([]catalog.Version, error)
}

type uploadRequest struct {
	FileRef string `json:"fileRef"`
	Actor   string `json:"actor"`
}

type versionsResponse struct {
	ProviderID string            `json:"providerId"`
	Versions   []catalog.Version `json:"versions"`
}

// Handlers serves the catalog version endpoints.
type Handlers struct {
	runs      Submitter
	versions  VersionLister
	providers ingest.ProviderDirectory
	log       logger.Logger
}

func NewHandlers(runs Submitter, versions VersionLister, providers ingest.ProviderDirectory, log logger.Logger) *Handlers {
	return &Handlers{runs: runs, versions: versions, providers: providers, log: log}
}

// CreateVersion accepts an upload. Validation of the provider and the file
// happens in the background run; the response only confirms acceptance.
func (h *Handlers) CreateVersion(c *gin.Context) {
	var body uploadRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}
	body.FileRef = strings.TrimSpace(body.FileRef)
	if body.FileRef == "" {
		RespondError(c, http.StatusBadRequest, CodeInvalidRequest, errors.New("fileRef is required"))
		return
	}

	req := ingest.Request{
		ProviderKey: c.Param("providerId"),
		FileRef:     body.FileRef,
		Actor:       body.Actor,
	}
	if err := h.runs.Submit(c.Request.Context(), req); err != nil {
		if errors.Is(err, ingest.ErrRunnerClosed) {
			RespondError(c, http.StatusServiceUnavailable, CodeUnavailable, err)
			return
		}
		h.log.ErrorWithContext(c.Request.Context(), "could not start catalog ingestion", err, map[string]interface{}{
			"provider_key": req.ProviderKey,
			"file_ref":     req.FileRef,
		})
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}

	h.log.InfoWithContext(c.Request.Context(), "catalog upload accepted", nil, map[string]interface{}{
		"provider_key": req.ProviderKey,
		"file_ref":     req.FileRef,
		"actor":        req.Actor,
	})
	RespondAccepted(c)
}

// ListVersions returns the provider's versions; their status is how
// callers follow a background run.
func (h *Handlers) ListVersions(c *gin.Context) {
	ctx := c.Request.Context()
	key := c.Param("providerId")

	provider, err := h.providers.GetByIDOrCode(ctx, key)
	if err != nil {
		h.log.ErrorWithContext(ctx, "provider lookup failed", err, map[string]interface{}{"provider_key": key})
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if provider == nil {
		RespondError(c, http.StatusNotFound, CodeProviderNotFound, errors.New("provider not found"))
		return
	}

	versions, err := h.versions.List(ctx, provider.ID)
	if err != nil {
		h.log.ErrorWithContext(ctx, "listing catalog versions failed", err, map[string]interface{}{"provider_id": provider.ID})
		RespondError(c, http.StatusInternalServerError, CodeInternal, err)
		return
	}
	if versions == nil {
		versions = []catalog.Version{}
	}
	RespondOK(c, versionsResponse{ProviderID: provider.ID, Versions: versions})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
