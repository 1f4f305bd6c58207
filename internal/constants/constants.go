package constants

// ServiceName is used for tracing and the health endpoint.
const ServiceName = "cars-api-go"

// APIName returns the log prefix shared by all server components.
func APIName() string {
	return "[" + ServiceName + "]"
}
