package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/mediaforge/mediaforge/common"
	"github.com/mediaforge/mediaforge/common/config"
	"github.com/mediaforge/mediaforge/images"
	"github.com/mediaforge/mediaforge/util"
)

// VariantSpec describes one desired output. Image and audio fields share a
// struct because the manifest shape is identical apart from the per-kind
// fields; validation enforces the right subset.
type VariantSpec struct {
	// Image variants
	Width  *int   `json:"width,omitempty"`
	Height *int   `json:"height,omitempty"`
	Fit    string `json:"fit,omitempty"`
	Format string `json:"format,omitempty"`

	// Audio variants
	Samples          *int `json:"samples,omitempty"`
	SamplesPerMinute *int `json:"samplesPerMinute,omitempty"`

	Name string `json:"name,omitempty"`
}

type OutputSpec struct {
	File     string        `json:"file"`
	Variants []VariantSpec `json:"variants"`
}

type Manifest struct {
	Outputs []OutputSpec `json:"outputs"`
}

// ValidationError carries one message per violating field, each naming its
// JSON path. It renders as a 400 with structured details.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

var validFits = []string{images.FitCover, images.FitContain, images.FitFill, images.FitInside, images.FitOutside}

// ValidateFileCount enforces the per-batch upload cardinality cap.
func ValidateFileCount(count int, limits config.BatchConfig) *ValidationError {
	if count > limits.MaxFiles {
		return newValidationError(fmt.Sprintf("too many files in batch: %d uploaded, limit is %d", count, limits.MaxFiles))
	}
	return nil
}

// ParseManifest parses and structurally validates a manifest against the
// set of uploaded filenames. It is a pure gate: it either returns a fully
// valid manifest or an error, before any variant is processed. Duplicate
// archive paths across variants are deliberately not rejected here; both
// entries end up in the archive.
func ParseManifest(raw []byte, kind string, uploaded []string, limits config.BatchConfig) (*Manifest, *ValidationError) {
	m := &Manifest{}
	if err := json.Unmarshal(raw, m); err != nil {
		if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
			return nil, newValidationError(common.ErrInvalidManifest.Error(),
				fmt.Sprintf("%s: expected %s, got %s", typeErr.Field, typeErr.Type.String(), typeErr.Value))
		}
		return nil, newValidationError(common.ErrInvalidManifest.Error())
	}

	if len(m.Outputs) == 0 {
		return nil, newValidationError("manifest has no outputs", "outputs: at least one entry is required")
	}

	details := make([]string, 0)
	for i, output := range m.Outputs {
		if output.File == "" {
			details = append(details, fmt.Sprintf("outputs[%d].file: a filename is required", i))
			continue
		}
		if !util.ArrayContains(uploaded, output.File) {
			details = append(details, fmt.Sprintf("outputs[%d].file: no uploaded file named %q", i, output.File))
		}
		if len(output.Variants) > limits.MaxVariantsPerFile {
			details = append(details, fmt.Sprintf("outputs[%d].variants: %d variants requested for %q, limit is %d", i, len(output.Variants), output.File, limits.MaxVariantsPerFile))
		}

		for j, variant := range output.Variants {
			path := fmt.Sprintf("outputs[%d].variants[%d]", i, j)
			if kind == common.KindImage {
				details = append(details, validateImageVariant(path, variant)...)
			} else {
				details = append(details, validateAudioVariant(path, variant)...)
			}
		}
	}

	if len(details) > 0 {
		return nil, newValidationError("manifest validation failed", details...)
	}
	return m, nil
}

func validateImageVariant(path string, v VariantSpec) []string {
	details := make([]string, 0)
	if v.Width != nil && *v.Width <= 0 {
		details = append(details, path+".width: must be a positive integer")
	}
	if v.Height != nil && *v.Height <= 0 {
		details = append(details, path+".height: must be a positive integer")
	}
	if v.Fit != "" && !util.ArrayContains(validFits, v.Fit) {
		details = append(details, fmt.Sprintf("%s.fit: %q is not one of cover, contain, fill, inside, outside", path, v.Fit))
	}
	if v.Format != "" && !images.IsEncodableFormat(v.Format) {
		details = append(details, fmt.Sprintf("%s.format: %q is not an encodable format", path, v.Format))
	}
	if v.Samples != nil || v.SamplesPerMinute != nil {
		details = append(details, path+": samples fields are not valid for image variants")
	}
	return details
}

func validateAudioVariant(path string, v VariantSpec) []string {
	details := make([]string, 0)
	if v.Samples != nil && (*v.Samples < MinSampleCount || *v.Samples > MaxSampleCount) {
		details = append(details, fmt.Sprintf("%s.samples: must be between %d and %d", path, MinSampleCount, MaxSampleCount))
	}
	if v.SamplesPerMinute != nil && *v.SamplesPerMinute <= 0 {
		details = append(details, path+".samplesPerMinute: must be a positive integer")
	}
	if v.Width != nil || v.Height != nil || v.Fit != "" || v.Format != "" {
		details = append(details, path+": image fields are not valid for audio variants")
	}
	return details
}
