package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for health checks and CORS preflights
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration for a request, or nil when the default limit applies.
// An exact path wins; otherwise the longest configured prefix ending in "/" is used.
// An empty Method in a config matches every method.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodOptions || (path == "/health" && method == http.MethodGet) {
		ep := unlimited
		ep.Path = path
		return &ep
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != "" && c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
