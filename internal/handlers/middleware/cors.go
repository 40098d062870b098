package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS configura CORS para a API a partir da lista separada por vírgulas.
// "*" libera qualquer origem (sem credenciais); lista vazia desativa CORS.
func CORS(allowedOrigins string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range strings.Split(allowedOrigins, ",") {
		o = strings.TrimSpace(o)
		switch {
		case o == "":
			continue
		case o == "*":
			config.AllowAllOrigins = true
		default:
			config.AllowOrigins = append(config.AllowOrigins, o)
		}
	}

	if config.AllowAllOrigins {
		config.AllowOrigins = nil
	} else if len(config.AllowOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	} else {
		config.AllowCredentials = true
	}

	return cors.New(config)
}
