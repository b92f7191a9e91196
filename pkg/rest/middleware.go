package rest

import "github.com/gin-gonic/gin"

// GlobalGroup registers a middleware on the whole engine.
const GlobalGroup = "*"

type Middleware struct {
	Handler gin.HandlerFunc
	Group   string
}

func NewMiddleware(group string, handler gin.HandlerFunc) Middleware {
	return Middleware{
		Group:   group,
		Handler: handler,
	}
}
