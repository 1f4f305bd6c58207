// Package links builds the absolute URIs embedded in car representations
// and returned in Location headers.
package links

import (
	"net/http"
	"strconv"
	"strings"

	"cars-api-go/internal/models"
)

// CarsPath is the collection route. A single car lives at CarsPath/{id}.
const CarsPath = "/cars"

// CarPath formats the item route for id.
func CarPath(id int64) string {
	return CarsPath + "/" + strconv.FormatInt(id, 10)
}

type Builder struct {
	publicBaseURL string
}

// NewBuilder returns a Builder. When publicBaseURL is empty the base URL is
// derived from each request.
func NewBuilder(publicBaseURL string) *Builder {
	return &Builder{publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// BaseURL resolves scheme and host for r, honouring X-Forwarded-Proto and
// X-Forwarded-Host set by proxies and API gateways.
func (b *Builder) BaseURL(r *http.Request) string {
	if b.publicBaseURL != "" {
		return b.publicBaseURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
		scheme = strings.ToLower(proto)
	}

	host := r.Host
	if forwarded := firstValue(r.Header.Get("X-Forwarded-Host")); forwarded != "" {
		host = forwarded
	}
	if host == "" {
		host = "localhost"
	}

	return scheme + "://" + host
}

// CarURI is the absolute URI of GET /cars/{id}.
func (b *Builder) CarURI(r *http.Request, id int64) string {
	return b.BaseURL(r) + CarPath(id)
}

// CarSelf is the self link for the car with id.
func (b *Builder) CarSelf(r *http.Request, id int64) models.Link {
	return models.Link{Rel: models.RelSelf, Href: b.CarURI(r, id)}
}

func firstValue(header string) string {
	if i := strings.IndexByte(header, ','); i >= 0 {
		header = header[:i]
	}
	return strings.TrimSpace(header)
}
