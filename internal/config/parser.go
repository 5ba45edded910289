package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML analysis document into a raw Config. No defaults are
// filled and no validation runs; most callers want Load instead.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML analysis document: %w", err)
	}
	return &cfg, nil
}

// Load builds the fully-resolved configuration from a YAML analysis
// document: parse, fill documented and cross-field defaults, resolve
// relative paths, then validate. workingDir is the fallback for a missing
// working_dir field; it is passed in rather than read from the process so
// that loading stays a pure function.
//
// On failure Load returns either a parse error or a *Report carrying every
// violated rule, never a partial Config.
func Load(data []byte, workingDir string) (*Config, error) {
	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults(workingDir)
	cfg.resolvePaths()

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads an analysis document from disk and loads it with the
// process working directory as the working_dir fallback. This is the only
// impure entry point of the package.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis document %s: %w", path, err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to determine working directory: %w", err)
	}

	cfg, err := Load(data, cwd)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// resolvePaths joins every relative plain-path field onto the working
// directory. The file stem is a template, not a plain path, and is kept
// verbatim. Resolution is purely syntactic: nothing checks that the files
// exist, that is the job of whichever collaborator opens them.
func (c *Config) resolvePaths() {
	base := c.WorkingDir
	if base == "" {
		return
	}

	resolve := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}

	resolve(&c.Material.Definitions)
	resolve(&c.ImageSeries.Dark)
	resolve(&c.Instrument.Parameters)
	if det := c.Instrument.Detector; det != nil {
		resolve(&det.ParametersOld)
	}
	resolve(&c.FindOrientations.OrientationMaps.File)
	resolve(&c.FindOrientations.UseQuaternionGrid)
	resolve(&c.FitGrains.Estimate)
}

// ============================================================================
// Normalizers for flexible-typed YAML fields
// ============================================================================

// normalizeMultiprocessing reduces the flexible multiprocessing field to
// either a policy token or an integer worker count. A nil field resolves to
// the default policy.
func normalizeMultiprocessing(v any) (token string, n int, err error) {
	switch mp := v.(type) {
	case nil:
		return "", DefaultMultiprocessing, nil

	case string:
		if mp == MPAll || mp == MPHalf {
			return mp, 0, nil
		}
		return "", 0, fmt.Errorf("multiprocessing must be %q, %q, or an integer, got %q", MPAll, MPHalf, mp)

	case int:
		return "", mp, nil
	case int64:
		return "", int(mp), nil

	default:
		return "", 0, fmt.Errorf("multiprocessing must be %q, %q, or an integer, got %T", MPAll, MPHalf, v)
	}
}

// normalizeActiveHKLs reduces the flexible active_hkls field to either the
// "all" marker or a list of non-negative hkl indices. A nil field means all.
func normalizeActiveHKLs(v any) (all bool, hkls []int, err error) {
	switch sel := v.(type) {
	case nil:
		return true, nil, nil

	case string:
		if sel == "all" {
			return true, nil, nil
		}
		return false, nil, fmt.Errorf("active_hkls must be \"all\" or a list of integers, got %q", sel)

	case []any:
		result := make([]int, 0, len(sel))
		for i, entry := range sel {
			idx, ok := entry.(int)
			if !ok {
				return false, nil, fmt.Errorf("active_hkls entry %d is not an integer (%T)", i, entry)
			}
			if idx < 0 {
				return false, nil, fmt.Errorf("active_hkls entry %d is negative", i)
			}
			result = append(result, idx)
		}
		return false, result, nil

	case []int:
		for i, idx := range sel {
			if idx < 0 {
				return false, nil, fmt.Errorf("active_hkls entry %d is negative", i)
			}
		}
		return false, sel, nil

	default:
		return false, nil, fmt.Errorf("active_hkls must be \"all\" or a list of integers, got %T", v)
	}
}

// normalizeSeriesIDs converts the file id list to strings ready for stem
// substitution. Integer ids are formatted in decimal; string ids are glob
// patterns and pass through untouched.
func normalizeSeriesIDs(ids []any) ([]string, error) {
	result := make([]string, 0, len(ids))
	for i, entry := range ids {
		switch id := entry.(type) {
		case int:
			result = append(result, strconv.Itoa(id))
		case int64:
			result = append(result, strconv.FormatInt(id, 10))
		case string:
			if id == "" {
				return nil, fmt.Errorf("file id %d is an empty string", i)
			}
			result = append(result, id)
		default:
			return nil, fmt.Errorf("file id %d must be an integer or a glob pattern, got %T", i, entry)
		}
	}
	return result, nil
}

// SeriesIDs returns the normalized file id list.
func (f *FileConfig) SeriesIDs() ([]string, error) {
	return normalizeSeriesIDs(f.IDs)
}
