package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func recordToolFailure(tool string, reason string) {
	metrics.SubprocessFailures.With(prometheus.Labels{"tool": tool, "reason": reason}).Inc()
}

var ErrToolMissing = errors.New("waveform tool not found")
var ErrToolTimeout = errors.New("waveform tool timed out")
var ErrToolFailed = errors.New("waveform tool exited abnormally")
var ErrToolOutput = errors.New("waveform tool produced unparseable output")

type waveformOutput struct {
	Data []int `json:"data"`
	Bits int   `json:"bits"`
}

// ExtractPeaks runs the external waveform tool against an on-disk audio file
// and returns targetSamples normalized peaks. The analysis runs at a fixed
// low time-resolution; the resample step compensates for the oversampling.
func ExtractPeaks(ctx rcontext.RequestContext, filePath string, targetSamples int) ([]float64, error) {
	cfg := ctx.Config.Audio

	cmdCtx, cancel := context.WithTimeout(ctx.Context, time.Duration(cfg.WaveformTimeoutMs)*time.Millisecond)
	defer cancel()

	args := []string{
		"-i", filePath,
		"--output-format", "json",
		"--pixels-per-second", fmt.Sprintf("%d", cfg.PixelsPerSecond),
		"-b", fmt.Sprintf("%d", cfg.WaveformBits),
	}

	cmd := exec.CommandContext(cmdCtx, cfg.WaveformBinary, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	startedAt := time.Now()
	err := cmd.Run()
	ctx.Log.Debug("waveform tool finished in ", time.Since(startedAt))
	if err != nil {
		// The context expiring and the process exiting race each other;
		// os/exec resolves the race once, we just classify the outcome.
		if cmdCtx.Err() == context.DeadlineExceeded {
			recordToolFailure("audiowaveform", "timeout")
			return nil, fmt.Errorf("%w after %dms", ErrToolTimeout, cfg.WaveformTimeoutMs)
		}
		if errors.Is(err, exec.ErrNotFound) {
			recordToolFailure("audiowaveform", "missing")
			return nil, fmt.Errorf("%w: %s", ErrToolMissing, cfg.WaveformBinary)
		}
		recordToolFailure("audiowaveform", "exit")
		return nil, fmt.Errorf("%w: %v: %s", ErrToolFailed, err, stderr.String())
	}

	out := waveformOutput{}
	if err = json.Unmarshal(stdout.Bytes(), &out); err != nil {
		recordToolFailure("audiowaveform", "output")
		return nil, fmt.Errorf("%w: %v", ErrToolOutput, err)
	}

	peaks, err := FoldSamples(out.Data, out.Bits)
	if err != nil {
		return nil, err
	}
	return Resample(peaks, targetSamples), nil
}

// FoldSamples converts the tool's interleaved (min,max) integer pairs into
// single non-negative peaks normalized against the declared bit depth.
func FoldSamples(data []int, bits int) ([]float64, error) {
	var maxScale float64
	switch bits {
	case 8:
		maxScale = 128
	case 16:
		maxScale = 32768
	default:
		return nil, fmt.Errorf("%w: unexpected bit depth %d", ErrToolOutput, bits)
	}

	peaks := make([]float64, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		low := intAbs(data[i])
		high := intAbs(data[i+1])
		peak := float64(high)
		if low > high {
			peak = float64(low)
		}
		peak = peak / maxScale
		if peak > 1 {
			peak = 1
		}
		peaks = append(peaks, peak)
	}
	return peaks, nil
}

func intAbs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
