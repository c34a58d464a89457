package cli

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/finddd/finddd/filesystem/interfaces"
)

const placeholder = "{}"

// execCallback runs command once per matched path. Every "{}" argument is
// replaced by the path; without one the path is appended. Output of each
// run is written in one piece.
func execCallback(command []string, p *printer) (interfaces.Callback, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, fmt.Errorf("--exec requires a command")
	}

	hasPlaceholder := false
	for _, arg := range command[1:] {
		if strings.Contains(arg, placeholder) {
			hasPlaceholder = true
			break
		}
	}

	return func(ctx context.Context, path string) error {
		args := make([]string, 0, len(command)+1)
		for _, arg := range command[1:] {
			args = append(args, strings.ReplaceAll(arg, placeholder, path))
		}
		if !hasPlaceholder {
			args = append(args, path)
		}

		cmd := exec.CommandContext(ctx, command[0], args...)
		out, err := cmd.CombinedOutput()
		if len(out) > 0 {
			p.Write(out)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", command[0], err)
		}
		return nil
	}, nil
}
