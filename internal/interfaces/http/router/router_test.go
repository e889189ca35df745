package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingRegistrar struct{}

func (pingRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/integration/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

func TestRouterMountsAtRootWithEmptyPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	NewRouter(engine, WithPrefix("")).Register(pingRegistrar{}).Setup()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/integration/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouterDefaultsToAPIPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	NewRouter(engine).Register(pingRegistrar{}).Setup()

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/integration/ping", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
