// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware provides CORS configuration for the landing page and the
// signup flow.
func CORSMiddleware() gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://[::1]:3000",
			"https://ettle.app",
			"https://www.ettle.app",
		},
		AllowMethods: []string{
			"GET", "POST", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			"X-Requested-With", "X-Ettle-Run-ID",
		},
		AllowCredentials: true,
		ExposeHeaders: []string{
			"Content-Type", "X-Ettle-Run-ID",
		},
	}

	return cors.New(config)
}
