package rest

import (
	"net/http"

	"docvault/pkg/logger"
	reasoncodes "docvault/pkg/reason_codes"

	"github.com/gin-gonic/gin"
)

// AbortWithError writes the failure envelope for err. Unclassified errors are
// logged and hidden behind a generic message.
func AbortWithError(c *gin.Context, err error) {
	code := reasoncodes.CodeOf(err)
	status := reasoncodes.HTTPStatus(code)

	message := err.Error()
	if code == reasoncodes.ErrInternal {
		logger.Default().Errorf(err, "%s %s failed", c.Request.Method, c.FullPath())
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    code,
		"error":   message,
	})
}

func OK(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

func Created(c *gin.Context, body gin.H) {
	body["success"] = true
	c.JSON(http.StatusCreated, body)
}
