package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver recebe uma observação por requisição concluída
type RequestObserver interface {
	ObserveRequest(route, method string, status int, elapsed time.Duration)
}

// Metrics mede latência e status por rota (padrão registrado, não o path bruto)
func Metrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
