package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_ReplacesTokens(t *testing.T) {
	content := "<h1>Welcome to {{app_name}}</h1><p>Hello {{username}}</p>"
	vars := map[string]any{
		"app_name": "TestApp",
		"username": "TestUser",
	}

	rendered := Render(content, vars)

	assert.Contains(t, rendered, "Welcome to TestApp")
	assert.Contains(t, rendered, "Hello TestUser")
}

func TestRender_ResolvesReferencesBeforeSubstitution(t *testing.T) {
	content := "<p>{{message}}</p>"
	vars := map[string]any{
		"app_name": "TestApp",
		"username": "TestUser",
		"message":  "Hello {username}, welcome to {app_name}",
	}

	rendered := Render(content, vars)

	assert.Equal(t, "<p>Hello TestUser, welcome to TestApp</p>", rendered)
}

func TestRender_UnmatchedTokenStaysVerbatim(t *testing.T) {
	content := "<p>Your code: {{code}}</p>"

	rendered := Render(content, map[string]any{"username": "TestUser"})

	assert.Equal(t, "<p>Your code: {{code}}</p>", rendered)
}

func TestRender_ExtraVariablesIgnored(t *testing.T) {
	content := "<p>{{username}}</p>"
	vars := map[string]any{
		"username": "TestUser",
		"unused":   "nobody asked",
	}

	rendered := Render(content, vars)

	assert.Equal(t, "<p>TestUser</p>", rendered)
}

func TestRender_NonStringValueStringified(t *testing.T) {
	content := "<p>{{count}} new messages</p>"

	rendered := Render(content, map[string]any{"count": 3})

	assert.Equal(t, "<p>3 new messages</p>", rendered)
}
