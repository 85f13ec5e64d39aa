package pipeline

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mediaforge/mediaforge/audio"
	"github.com/mediaforge/mediaforge/common"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/metrics"
	"github.com/mediaforge/mediaforge/util"
	"github.com/prometheus/client_golang/prometheus"
)

type plannedVariant struct {
	spec      VariantSpec
	samples   int
	entryPath string
}

type plannedOutput struct {
	file     string
	srcPath  string
	cleanup  func()
	variants []plannedVariant
}

// AudioPlan is a fully validated audio batch: every input is materialized
// on disk, every variant's sample count is resolved and bounds-checked, and
// every archive path is decided - all before the first byte of the archive
// is written.
type AudioPlan struct {
	outputs []plannedOutput
}

type peaksPayload struct {
	Peaks   []float64 `json:"peaks"`
	Samples int       `json:"samples"`
}

// PlanAudioBatch sniffs, materializes and probes each referenced input and
// resolves every variant's sample count upfront. An out-of-range derived
// count therefore fails the whole batch as a 400 instead of truncating the
// archive mid-stream.
func PlanAudioBatch(ctx rcontext.RequestContext, m *Manifest, inputs []BatchInput, trace *Trace) (*AudioPlan, error) {
	byName := indexInputs(inputs)
	plan := &AudioPlan{outputs: make([]plannedOutput, 0, len(m.Outputs))}

	ok := false
	defer func() {
		if !ok {
			plan.Cleanup()
		}
	}()

	for i, output := range m.Outputs {
		in := byName[output.File]

		tag := audio.Classify(in.Data)
		if tag != audio.FormatUnknown && !audio.IsSupported(tag, ctx.Config.Audio.SupportedFormats) {
			return nil, fmt.Errorf("input %q: %w: detected %s", output.File, common.ErrUnsupportedFormat, tag)
		}

		srcPath, cleanup, err := util.MaterializeTempFile(in.Data, filepath.Ext(in.Name))
		if err != nil {
			return nil, err
		}

		planned := plannedOutput{
			file:     output.File,
			srcPath:  srcPath,
			cleanup:  cleanup,
			variants: make([]plannedVariant, 0, len(output.Variants)),
		}
		plan.outputs = append(plan.outputs, planned)

		// One probe per input, and only when some variant derives its
		// count from duration.
		duration := 0.0
		probed := false
		for j, variant := range output.Variants {
			if variant.Samples == nil && !probed {
				probeStart := time.Now()
				duration, err = audio.ProbeDuration(ctx, srcPath)
				if err != nil {
					trace.Fail(err)
					return nil, fmt.Errorf("input %q: %w", output.File, err)
				}
				probed = true
				trace.Step("probe", probeStart, map[string]interface{}{
					"file":            in.Name,
					"durationSeconds": duration,
				})
			}

			samples := ResolveSampleCount(variant, duration)
			if samples < MinSampleCount || samples > MaxSampleCount {
				err = fmt.Errorf("outputs[%d].variants[%d]: %w: resolved %d, must be between %d and %d",
					i, j, common.ErrSampleCountOutOfRange, samples, MinSampleCount, MaxSampleCount)
				trace.Fail(err)
				return nil, err
			}

			base := util.BaseName(in.Name)
			fileName := PeaksVariantFilename(base, variant, samples)
			if !strings.HasSuffix(fileName, ".json") {
				fileName += ".json"
			}
			plan.outputs[len(plan.outputs)-1].variants = append(plan.outputs[len(plan.outputs)-1].variants, plannedVariant{
				spec:      variant,
				samples:   samples,
				entryPath: "peaks/" + base + "/" + fileName,
			})
		}
	}

	ok = true
	return plan, nil
}

// Run extracts peaks for every planned variant in manifest order, streaming
// each artifact into the sink. Each input's temp file is removed as soon as
// its last variant is done, regardless of outcome.
func (p *AudioPlan) Run(ctx rcontext.RequestContext, m *Manifest, sink EntrySink, trace *Trace) error {
	defer p.Cleanup()

	assembler := NewAssembler(sink)
	if err := assembler.AppendManifest(m); err != nil {
		return err
	}

	for _, output := range p.outputs {
		for _, variant := range output.variants {
			variantStart := time.Now()
			peaks, err := audio.ExtractPeaks(ctx, output.srcPath, variant.samples)
			if err != nil {
				trace.Fail(err)
				return fmt.Errorf("input %q: %w", output.file, err)
			}

			payload, err := json.Marshal(peaksPayload{Peaks: peaks, Samples: variant.samples})
			if err != nil {
				return err
			}
			if err = assembler.AppendBytes(variant.entryPath, payload); err != nil {
				trace.Fail(err)
				return err
			}
			metrics.VariantsGenerated.With(prometheus.Labels{"kind": common.KindAudio}).Inc()
			trace.Step("peaks", variantStart, map[string]interface{}{
				"file":    output.file,
				"entry":   variant.entryPath,
				"samples": variant.samples,
			})
		}
		output.cleanup()
	}

	if err := assembler.AppendDebug(trace.Snapshot()); err != nil {
		return err
	}
	return assembler.Finalize()
}

// Cleanup removes any temp files still on disk. Safe to call more than
// once.
func (p *AudioPlan) Cleanup() {
	for _, output := range p.outputs {
		if output.cleanup != nil {
			output.cleanup()
		}
	}
}
