package lambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// HTTPHandler is the signature passed to lambda.Start for API Gateway HTTP APIs.
type HTTPHandler func(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// NewProxy serves API Gateway v2 events through handler, so the Lambda
// deployment shares the server's router and middleware.
func NewProxy(handler http.Handler) HTTPHandler {
	return func(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		req, err := toHTTPRequest(ctx, request)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, err
		}

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)
		return toResponse(recorder), nil
	}
}

func toHTTPRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (*http.Request, error) {
	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode request body: %w", err)
		}
		body = decoded
	}

	path := request.RawPath
	if path == "" {
		path = request.RequestContext.HTTP.Path
	}
	if path == "" {
		path = "/"
	}
	target := path
	if request.RawQueryString != "" {
		target += "?" + request.RawQueryString
	}

	method := request.RequestContext.HTTP.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for name, value := range request.Headers {
		req.Header.Set(name, value)
	}
	if len(request.Cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(request.Cookies, "; "))
	}

	req.Host = req.Header.Get("Host")
	if req.Host == "" {
		req.Host = request.RequestContext.DomainName
	}
	if req.Header.Get("X-Forwarded-Proto") == "" {
		req.Header.Set("X-Forwarded-Proto", "https")
	}
	req.RemoteAddr = request.RequestContext.HTTP.SourceIP
	req.ContentLength = int64(len(body))

	return req, nil
}

func toResponse(recorder *httptest.ResponseRecorder) events.APIGatewayV2HTTPResponse {
	result := recorder.Result()
	defer result.Body.Close()

	headers := make(map[string]string, len(result.Header))
	var cookies []string
	for name, values := range result.Header {
		if name == "Set-Cookie" {
			cookies = append(cookies, values...)
			continue
		}
		headers[name] = strings.Join(values, ",")
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: result.StatusCode,
		Headers:    headers,
		Cookies:    cookies,
		Body:       recorder.Body.String(),
	}
}
