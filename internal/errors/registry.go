package errors

import "net/http"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Status   int
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Configuration (E100-E199)
	"E100": {Category: CategoryConfig, Message: "Configuration file not found"},
	"E101": {Category: CategoryConfig, Message: "Failed to parse configuration"},
	"E102": {Category: CategoryConfig, Message: "Invalid server port"},
	"E103": {Category: CategoryConfig, Message: "Invalid history mode"},
	"E104": {Category: CategoryConfig, Message: "Invalid asset source"},
	"E105": {Category: CategoryConfig, Message: "S3 bucket required"},
	"E106": {Category: CategoryConfig, Message: "Invalid log level"},
	"E107": {Category: CategoryConfig, Message: "Invalid duration"},
	"E108": {Category: CategoryConfig, Message: "Failed to write configuration"},

	// Routing (E200-E299)
	"E200": {Category: CategoryRouting, Message: "Invalid route table"},
	"E201": {Category: CategoryRouting, Message: "Unknown route name", Status: http.StatusNotFound},
	"E202": {Category: CategoryRouting, Message: "Missing route param", Status: http.StatusBadRequest},
	"E203": {Category: CategoryRouting, Message: "Invalid navigation path", Status: http.StatusBadRequest},
	"E204": {Category: CategoryRouting, Message: "Path did not resolve", Status: http.StatusNotFound},

	// Assets and server (E300-E399)
	"E300": {Category: CategoryAssets, Message: "Asset not found", Status: http.StatusNotFound},
	"E301": {Category: CategoryAssets, Message: "Asset source unavailable", Status: http.StatusBadGateway},
	"E310": {Category: CategoryServer, Message: "Server failed to start"},
	"E311": {Category: CategoryServer, Message: "Server shutdown failed"},
	"E312": {Category: CategoryServer, Message: "Unsupported navigation message", Status: http.StatusBadRequest},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
