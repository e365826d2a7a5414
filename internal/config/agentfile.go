package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AgentFile is the optional YAML document named by AGENT_FILE.
// Empty fields keep the built-in defaults.
type AgentFile struct {
	Agent struct {
		Name        string   `yaml:"name"`
		Model       string   `yaml:"model"`
		Description string   `yaml:"description"`
		Instruction string   `yaml:"instruction"`
		Tools       []string `yaml:"tools"`
	} `yaml:"agent"`
	Queries []string `yaml:"queries"`
}

// LoadAgentFile reads and decodes an agent file. Unknown keys are rejected.
func LoadAgentFile(path string) (*AgentFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open agent file: %w", err)
	}
	defer f.Close()

	var af AgentFile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&af); err != nil {
		return nil, fmt.Errorf("failed to parse agent file %s: %w", path, err)
	}
	return &af, nil
}
