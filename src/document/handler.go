package document

import (
	"context"
	"io"
	"net/http"

	reasoncodes "docvault/pkg/reason_codes"
	"docvault/pkg/rest"
	"docvault/pkg/utilities"
	"docvault/src/auth"
	"docvault/src/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	fileField      = "file"
	maxUploadBytes = 25 << 20
)

var ErrFileTooLarge = reasoncodes.New(reasoncodes.ErrInvalidInput, "file exceeds the upload limit")

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

// Upload godoc
// @Summary      Upload a document
// @Description  Stores the file in the object store and on IPFS and anchors its sha256 hash when enabled
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Document"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /documents/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	fileName, content, ok := readUpload(c)
	if !ok {
		return
	}
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	document, err := h.Service.Upload(c.Request.Context(), caller.Id, fileName, content)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.Created(c, gin.H{"message": "file uploaded", "document": document.View()})
}

// UserDocuments godoc
// @Summary      List the caller's documents
// @Tags         Documents
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /documents/user-documents [get]
func (h *Handler) UserDocuments(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	documents, err := h.Service.ListForOwner(c.Request.Context(), caller.Id)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{
		"documents": utilities.Map(documents, func(d model.Document) model.DocumentView { return d.View() }),
	})
}

// Delete godoc
// @Summary      Delete an owned document and its access requests
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /documents/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	documentId, ok := pathId(c)
	if !ok {
		return
	}
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), caller.Id, documentId); err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"message": "document deleted"})
}

// Verify godoc
// @Summary      Check whether a file's hash was anchored
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "File to verify"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      502  {object}  map[string]interface{}
// @Router       /documents/verify [post]
func (h *Handler) Verify(c *gin.Context) {
	_, content, ok := readUpload(c)
	if !ok {
		return
	}

	result, err := h.Service.Verify(c.Request.Context(), content)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	rest.OK(c, gin.H{"exists": result.Exists, "hash": result.Hash})
}

// QRCode godoc
// @Summary      QR code linking to the document on the IPFS gateway
// @Tags         Documents
// @Produce      png
// @Param        id   path      string  true  "Document ID"
// @Success      200  {file}    binary
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /documents/{id}/qrcode [get]
func (h *Handler) QRCode(c *gin.Context) {
	documentId, ok := pathId(c)
	if !ok {
		return
	}
	caller, ok := h.caller(c)
	if !ok {
		return
	}

	png, err := h.Service.ShareCode(c.Request.Context(), caller.Id, documentId)
	if err != nil {
		rest.AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func readUpload(c *gin.Context) (string, []byte, bool) {
	header, err := c.FormFile(fileField)
	if err != nil {
		rest.AbortWithError(c, reasoncodes.Wrap(ErrInvalidUpload.Code, ErrInvalidUpload.Message, err))
		return "", nil, false
	}
	if header.Size > maxUploadBytes {
		rest.AbortWithError(c, ErrFileTooLarge)
		return "", nil, false
	}

	file, err := header.Open()
	if err != nil {
		rest.AbortWithError(c, err)
		return "", nil, false
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		rest.AbortWithError(c, err)
		return "", nil, false
	}
	return header.Filename, content, true
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
