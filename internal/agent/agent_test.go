package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"simple-agent/internal/credentials"
)

func TestNewDescription(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"search alias", Config{Name: "helpful_assistant", Model: "gemini-2.5-flash-lite", Tools: []string{"search"}}, false},
		{"no tools", Config{Name: "a", Model: "m"}, false},
		{"empty name", Config{Name: "", Model: "m"}, true},
		{"blank name", Config{Name: "  ", Model: "m"}, true},
		{"empty model", Config{Name: "a", Model: ""}, true},
		{"unknown tool", Config{Name: "a", Model: "m", Tools: []string{"calculator"}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, err := NewDescription(tc.cfg)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrConstruction)
				assert.Nil(t, d)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.cfg.Name, d.Name())
			assert.Equal(t, tc.cfg.Model, d.Model())
			assert.Equal(t, tc.cfg.Description, d.Description())
			assert.Equal(t, tc.cfg.Instruction, d.Instruction())
			assert.Equal(t, len(tc.cfg.Tools), len(d.Tools()))
		})
	}
}

func TestDescriptionIsImmutable(t *testing.T) {
	cfg := Config{Name: "helpful_assistant", Model: "gemini-2.5-flash-lite", Tools: []string{"search"}}
	d, err := NewDescription(cfg)
	require.NoError(t, err)

	cfg.Tools[0] = "google_search"
	tools := d.Tools()
	tools[0] = "mutated"

	assert.Equal(t, []string{"search"}, d.Tools())
}

func TestSummary(t *testing.T) {
	d, err := NewDescription(DefaultConfig())
	require.NoError(t, err)

	s := d.Summary()
	assert.Contains(t, s, "Name: helpful_assistant")
	assert.Contains(t, s, "Model: gemini-2.5-flash-lite")
	assert.Contains(t, s, "Tools: [google_search]")
}

func TestClientConfig(t *testing.T) {
	t.Run("gemini api", func(t *testing.T) {
		cc := clientConfig(credentials.Credentials{APIKey: "k"})
		assert.Equal(t, genai.BackendGeminiAPI, cc.Backend)
		assert.Equal(t, "k", cc.APIKey)
	})

	t.Run("vertex with project", func(t *testing.T) {
		cc := clientConfig(credentials.Credentials{APIKey: "k", UseVertexAI: true, Project: "p", Location: "l"})
		assert.Equal(t, genai.BackendVertexAI, cc.Backend)
		assert.Empty(t, cc.APIKey)
		assert.Equal(t, "p", cc.Project)
		assert.Equal(t, "l", cc.Location)
	})

	t.Run("vertex express", func(t *testing.T) {
		cc := clientConfig(credentials.Credentials{APIKey: "k", UseVertexAI: true})
		assert.Equal(t, genai.BackendVertexAI, cc.Backend)
		assert.Equal(t, "k", cc.APIKey)
	})
}
