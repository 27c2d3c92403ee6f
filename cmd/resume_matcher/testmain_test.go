package main

import (
	"os"
	"testing"

	"github.com/joho/godotenv"
)

// TestMain runs before all tests and loads .env if available
func TestMain(m *testing.M) {
	// Try to load .env file - ignore error if it doesn't exist (CI environment)
	_ = godotenv.Load()

	// Keep provider keys from the developer's environment out of the tests
	for _, k := range []string{"GEMINI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "LLM_PROVIDER", "LLM_MODEL"} {
		_ = os.Unsetenv(k)
	}

	os.Exit(m.Run())
}
