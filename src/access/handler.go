package access

import (
	"context"

	reasoncodes "docvault/pkg/reason_codes"
	"docvault/pkg/rest"
	"docvault/pkg/utilities"
	"docvault/src/auth"
	"docvault/src/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, address string) (*model.Identity, error)
}

type Handler struct {
	Service  *Service
	resolver IdentityResolver
}

func NewHandler(service *Service, resolver IdentityResolver) *Handler {
	return &Handler{Service: service, resolver: resolver}
}

type RequestAccessRequest struct {
	DocumentId string `json:"document_id" binding:"required,uuid"`
}

// RequestAccess godoc
// @Summary      Ask a document owner for access
// @Tags         AccessRequests
// @Accept       json
// @Produce      json
// @Param        body  body      RequestAccessRequest  true  "Requested document"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /access-requests [post]
func (h *Handler) RequestAccess(c *gin.Context) {
	var req RequestAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		rest.AbortWithError(c, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "document_id must be a uuid", err))
		return
	}

	caller, ok := h.caller(c)
	if !ok {
		return
	}

	request, err := h.Service.RequestAccess(c.Request.Context(), caller.Id, uuid.MustParse(req.DocumentId))
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.Created(c, gin.H{"request": request.View()})
}

// Approve godoc
// @Summary      Approve an incoming access request
// @Tags         AccessRequests
// @Produce      json
// @Param        id   path      string  true  "Access request ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /access-requests/{id}/approve [post]
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, Approve)
}

// Reject godoc
// @Summary      Reject an incoming access request
// @Tags         AccessRequests
// @Produce      json
// @Param        id   path      string  true  "Access request ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /access-requests/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, Reject)
}

func (h *Handler) decide(c *gin.Context, decision Decision) {
	requestId, ok := pathId(c)
	if !ok {
		return
	}
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	request, err := h.Service.DecideRequest(c.Request.Context(), requestId, caller.Id, decision)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"request": request.View()})
}

// Incoming godoc
// @Summary      List access requests for the caller's documents
// @Tags         AccessRequests
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /access-requests/incoming [get]
func (h *Handler) Incoming(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	requests, err := h.Service.ListIncoming(c.Request.Context(), caller.Id)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"requests": views(requests)})
}

// Outgoing godoc
// @Summary      List access requests the caller has made
// @Tags         AccessRequests
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /access-requests/outgoing [get]
func (h *Handler) Outgoing(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	requests, err := h.Service.ListOutgoing(c.Request.Context(), caller.Id)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"requests": views(requests)})
}

// New godoc
// @Summary      Pending requests created since the caller last looked
// @Tags         AccessRequests
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /access-requests/new [get]
func (h *Handler) New(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	hasNew, requests, err := h.Service.HasNewAccessRequests(c.Request.Context(), caller.Id)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"has_new": hasNew, "requests": views(requests)})
}

// Pending godoc
// @Summary      Whether any request to the caller is still pending
// @Tags         AccessRequests
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /access-requests/pending [get]
func (h *Handler) Pending(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	hasPending, err := h.Service.HasPendingRequests(c.Request.Context(), caller.Id)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"has_pending": hasPending})
}

// MarkSeen godoc
// @Summary      Mark incoming requests as seen
// @Tags         AccessRequests
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /access-requests/mark-seen [post]
func (h *Handler) MarkSeen(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.Service.MarkSeen(c.Request.Context(), caller.Id); err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, nil)
}

// CheckAccess godoc
// @Summary      Whether the caller may read a document
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /documents/{id}/access [get]
func (h *Handler) CheckAccess(c *gin.Context) {
	documentId, ok := pathId(c)
	if !ok {
		return
	}
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	level, err := h.Service.CanAccess(c.Request.Context(), caller.Id, documentId)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"has_access": level.Granted(), "reason": level})
}

// Approved godoc
// @Summary      Documents shared with the caller
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /documents/approved [get]
func (h *Handler) Approved(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	documents, err := h.Service.ListApprovedForRequester(c.Request.Context(), caller.Id)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{
		"documents": utilities.Map(documents, func(d model.Document) model.DocumentView { return d.View() }),
	})
}

func (h *Handler) caller(c *gin.Context) (*model.Identity, bool) {
	identity, err := h.resolver.Resolve(c.Request.Context(), auth.AddressFromContext(c))
	if err != nil {
		rest.AbortWithError(c, err)
		return nil, false
	}
	return identity, true
}

func pathId(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		rest.AbortWithError(c, reasoncodes.Wrap(reasoncodes.ErrInvalidInput, "invalid id", err))
		return uuid.Nil, false
	}
	return id, true
}

func views(requests []model.AccessRequest) []model.AccessRequestView {
	return utilities.Map(requests, func(r model.AccessRequest) model.AccessRequestView { return r.View() })
}
