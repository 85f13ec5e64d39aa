package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"
	"time"

	"github.com/mediaforge/mediaforge/common"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/images"
	"github.com/mediaforge/mediaforge/metrics"
	"github.com/mediaforge/mediaforge/util"
	"github.com/prometheus/client_golang/prometheus"
)

const MinSampleCount = 1
const MaxSampleCount = 10000
const DefaultSamplesPerMinute = 120

// BatchInput is one uploaded file, keyed by its original (exact,
// case-sensitive) filename.
type BatchInput struct {
	Name string
	Data []byte
}

func indexInputs(inputs []BatchInput) map[string]BatchInput {
	byName := make(map[string]BatchInput, len(inputs))
	for _, in := range inputs {
		byName[in.Name] = in
	}
	return byName
}

// ResolveSampleCount picks the peak count for an audio variant: an explicit
// samples value wins, otherwise the count is derived from clip duration and
// the requested (or default) per-minute density.
func ResolveSampleCount(v VariantSpec, durationSeconds float64) int {
	if v.Samples != nil {
		return *v.Samples
	}
	spm := DefaultSamplesPerMinute
	if v.SamplesPerMinute != nil {
		spm = *v.SamplesPerMinute
	}
	return int(math.Round(durationSeconds / 60 * float64(spm)))
}

func dimensionLabel(d *int) string {
	if d == nil {
		return "auto"
	}
	return strconv.Itoa(*d)
}

// ImageVariantFilename builds the output filename for one image variant:
// the sanitized name override if given, else
// <base>_<width-or-auto>x<height-or-auto>_<format>.<format>.
func ImageVariantFilename(base string, v VariantSpec, sourceFormat string) string {
	if v.Name != "" {
		return util.SanitizeFilename(v.Name)
	}
	format := v.Format
	if format == "" {
		format = sourceFormat
	}
	return fmt.Sprintf("%s_%sx%s_%s.%s", base, dimensionLabel(v.Width), dimensionLabel(v.Height), format, format)
}

// PeaksVariantFilename builds the output filename (without the .json
// suffix) for one audio variant.
func PeaksVariantFilename(base string, v VariantSpec, samples int) string {
	if v.Name != "" {
		return util.SanitizeFilename(v.Name)
	}
	return fmt.Sprintf("%s_%d", base, samples)
}

// PreflightImages verifies every referenced input decodes, stays within the
// pixel cap, and has an encodable target format for every variant before
// the archive stream starts, so failures surface as a clean 400/500 instead
// of a truncated archive. The format check matters for decode-only source
// formats (webp): a variant omitting its format falls back to the source.
func PreflightImages(ctx rcontext.RequestContext, m *Manifest, inputs []BatchInput) error {
	byName := indexInputs(inputs)
	for i, output := range m.Outputs {
		in := byName[output.File]
		cfg, sourceFormat, err := decodeConfig(in.Data)
		if err != nil {
			return fmt.Errorf("input %q: %w", output.File, err)
		}
		if cfg.Width*cfg.Height > ctx.Config.Images.MaxPixels {
			ctx.Log.Debug("Image too large: too many pixels")
			return fmt.Errorf("input %q: %w", output.File, common.ErrMediaTooLarge)
		}
		for j, variant := range output.Variants {
			format := variant.Format
			if format == "" {
				format = sourceFormat
			}
			if !images.IsEncodableFormat(format) {
				return fmt.Errorf("outputs[%d].variants[%d].format: cannot encode %q", i, j, format)
			}
		}
	}
	return nil
}

func decodeConfig(data []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", errors.New("could not decode image: " + err.Error())
	}
	return cfg, format, nil
}

// RunImageBatch generates every image variant in manifest order, streaming
// each artifact into the sink as it is produced. The manifest entry is
// always first and the debug summary, when enabled, is always last.
func RunImageBatch(ctx rcontext.RequestContext, m *Manifest, inputs []BatchInput, sink EntrySink, trace *Trace) error {
	assembler := NewAssembler(sink)
	if err := assembler.AppendManifest(m); err != nil {
		return err
	}

	byName := indexInputs(inputs)
	for i, output := range m.Outputs {
		in := byName[output.File]
		base := util.BaseName(in.Name)

		decodeStart := time.Now()
		src, sourceFormat, err := images.Decode(in.Data)
		if err != nil {
			trace.Fail(err)
			return fmt.Errorf("input %q: %w", output.File, err)
		}
		trace.Step("decode", decodeStart, map[string]interface{}{
			"file":   in.Name,
			"format": sourceFormat,
			"bytes":  len(in.Data),
		})

		for j, variant := range output.Variants {
			variantStart := time.Now()
			artifact, err := generateImageVariant(src, variant, sourceFormat)
			if err != nil {
				trace.Fail(err)
				return fmt.Errorf("outputs[%d].variants[%d]: %w", i, j, err)
			}

			fileName := ImageVariantFilename(base, variant, sourceFormat)
			entryPath := "images/" + base + "/" + fileName
			if err = assembler.AppendBytes(entryPath, artifact); err != nil {
				trace.Fail(err)
				return err
			}
			metrics.VariantsGenerated.With(prometheus.Labels{"kind": common.KindImage}).Inc()
			trace.Step("transform", variantStart, map[string]interface{}{
				"file":  in.Name,
				"entry": entryPath,
				"bytes": len(artifact),
			})
		}
	}

	if err := assembler.AppendDebug(trace.Snapshot()); err != nil {
		return err
	}
	return assembler.Finalize()
}

func generateImageVariant(src image.Image, v VariantSpec, sourceFormat string) ([]byte, error) {
	width := 0
	if v.Width != nil {
		width = *v.Width
	}
	height := 0
	if v.Height != nil {
		height = *v.Height
	}

	resized, err := images.Resize(src, width, height, v.Fit)
	if err != nil {
		return nil, err
	}

	format := v.Format
	if format == "" {
		format = sourceFormat
	}
	return images.Encode(resized, format)
}
