package main

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sevigo/codelens/internal/collab"
	"github.com/sevigo/codelens/internal/config"
)

// commandLLMClient implements collab.LLMClient by piping the prompts to an
// external command configured in [llm] and reading its stdout. The engine
// never calls this; only the CLI does, after the prompt bundle has been
// assembled.
type commandLLMClient struct {
	command string
	args    []string
}

func newLLMClient(cfg config.LLMConfig) (collab.LLMClient, bool) {
	if cfg.Command == "" {
		return nil, false
	}
	return &commandLLMClient{command: cfg.Command, args: cfg.Args}, true
}

func (c *commandLLMClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	cmd := exec.CommandContext(ctx, c.command, c.args...)
	cmd.Stdin = strings.NewReader(systemPrompt + "\n\n" + userPrompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("llm command %q failed: %w: %s", c.command, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
