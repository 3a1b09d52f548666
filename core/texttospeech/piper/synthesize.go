package piper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Synthesize runs piper with text on stdin and returns the raw PCM it writes
// to stdout. Cancelling the context kills the process, which is how playback
// interruption stops a clip that is still rendering.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.binary, "--model", s.modelPath, "--output-raw")
	cmd.Stdin = strings.NewReader(text)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("piper failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}
