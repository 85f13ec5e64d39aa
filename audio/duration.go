package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/mediaforge/mediaforge/common/rcontext"
)

var ErrProbeFailed = errors.New("duration probe failed")

// ProbeDuration asks the external inspection tool for the clip duration in
// seconds. It runs under its own (shorter) timeout, independent of the
// waveform tool's.
func ProbeDuration(ctx rcontext.RequestContext, filePath string) (float64, error) {
	cfg := ctx.Config.Audio

	cmdCtx, cancel := context.WithTimeout(ctx.Context, time.Duration(cfg.ProbeTimeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, cfg.ProbeBinary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		filePath,
	)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if cmdCtx.Err() == context.DeadlineExceeded {
			recordToolFailure("ffprobe", "timeout")
			return 0, fmt.Errorf("%w: timed out after %dms", ErrProbeFailed, cfg.ProbeTimeoutMs)
		}
		if errors.Is(err, exec.ErrNotFound) {
			recordToolFailure("ffprobe", "missing")
			return 0, fmt.Errorf("%w: %s not found", ErrProbeFailed, cfg.ProbeBinary)
		}
		recordToolFailure("ffprobe", "exit")
		return 0, fmt.Errorf("%w: %v: %s", ErrProbeFailed, err, stderr.String())
	}

	return ParseDuration(stdout.String())
}

// ParseDuration validates the probe's plain-text seconds output.
func ParseDuration(raw string) (float64, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable duration %q", ErrProbeFailed, strings.TrimSpace(raw))
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: non-finite duration", ErrProbeFailed)
	}
	return seconds, nil
}
