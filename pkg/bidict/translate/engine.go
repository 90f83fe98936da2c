package translate

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/nordtext/bidict/pkg/bidict/internalerr"
)

// Engine translates the contents of a file on disk and returns the
// translated text. Implementations must be safe for concurrent use.
type Engine interface {
	Translate(ctx context.Context, direction, inputPath string) (string, error)
}

// ApertiumEngine invokes the apertium binary as a subprocess:
//
//	apertium <from>-<to> <inputPath>
//
// with the translated text captured from standard output.
type ApertiumEngine struct {
	// Binary is the engine executable; "apertium" when empty.
	Binary string

	// Timeout bounds a single invocation. Zero disables the bound;
	// an expired timeout surfaces as an engine invocation error.
	Timeout time.Duration
}

// Translate implements Engine.
func (e *ApertiumEngine) Translate(ctx context.Context, direction, inputPath string) (string, error) {
	bin := e.Binary
	if bin == "" {
		bin = "apertium"
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, bin, direction, inputPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := firstLine(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%w: %s %s: %v: %s", internalerr.ErrEngineInvocation, bin, direction, err, detail)
		}
		return "", fmt.Errorf("%w: %s %s: %v", internalerr.ErrEngineInvocation, bin, direction, err)
	}

	return stdout.String(), nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return s
}
