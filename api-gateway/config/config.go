package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for a backend service
type ServiceConfig struct {
	Name        string
	BaseURL     string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration. The gateway fronts the
// single storefront-core service; STOREFRONT_SERVICE_URLS takes a
// comma-separated list for round-robin across replicas.
func LoadConfig() *GatewayConfig {
	baseURL := getEnv("STOREFRONT_SERVICE_URL", "http://localhost:8082")
	instances := splitURLs(getEnv("STOREFRONT_SERVICE_URLS", baseURL))

	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"storefront": {
				Name:        "storefront-core",
				BaseURL:     instances[0],
				Instances:   instances,
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func splitURLs(raw string) []string {
	var urls []string
	for _, u := range strings.Split(raw, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		urls = []string{"http://localhost:8082"}
	}
	return urls
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
