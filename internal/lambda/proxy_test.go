package lambda

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cars-api-go/internal/links"
	"cars-api-go/internal/models"
	"cars-api-go/internal/repository"
	"cars-api-go/internal/router"
)

func newProxy(t *testing.T) HTTPHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := router.New(router.Dependencies{
		Logger: zap.NewNop(),
		Cars:   repository.NewMemoryCarRepository(models.Car{ID: 1, Make: "Volvo"}),
		Links:  links.NewBuilder(""),
	})
	return NewProxy(engine)
}

func apiRequest(method, path, body string) events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: path,
		Headers: map[string]string{
			"host":         "abc123.execute-api.eu-west-1.amazonaws.com",
			"content-type": "application/json",
		},
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			DomainName: "abc123.execute-api.eu-west-1.amazonaws.com",
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:   method,
				Path:     path,
				SourceIP: "203.0.113.7",
			},
		},
		Body: body,
	}
}

func TestProxyListCars(t *testing.T) {
	handler := newProxy(t)

	resp, err := handler(context.Background(), apiRequest(http.MethodGet, "/cars", ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Headers["Total-Count"])
	assert.Contains(t, resp.Body, `"href":"https://abc123.execute-api.eu-west-1.amazonaws.com/cars/1"`)
}

func TestProxyCreateWithBase64Body(t *testing.T) {
	handler := newProxy(t)

	request := apiRequest(http.MethodPost, "/cars", base64.StdEncoding.EncodeToString([]byte(`{"make":"Tesla"}`)))
	request.IsBase64Encoded = true

	resp, err := handler(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "https://abc123.execute-api.eu-west-1.amazonaws.com/cars/2", resp.Headers["Location"])
	assert.Empty(t, resp.Body)
}

func TestProxyNotFound(t *testing.T) {
	handler := newProxy(t)

	resp, err := handler(context.Background(), apiRequest(http.MethodGet, "/cars/99", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProxyRejectsInvalidBase64(t *testing.T) {
	handler := newProxy(t)

	request := apiRequest(http.MethodPost, "/cars", "%%%")
	request.IsBase64Encoded = true

	_, err := handler(context.Background(), request)
	assert.Error(t, err)
}
