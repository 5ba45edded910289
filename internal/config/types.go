package config

// Multiprocessing policy tokens. An integer value is also accepted: n > 0
// requests exactly n workers, n <= 0 requests all available CPUs minus |n|.
const (
	MPAll  = "all"
	MPHalf = "half"
)

// DefaultMultiprocessing requests all available CPUs but one.
const DefaultMultiprocessing = -1

// Frame flip transforms applied by the image reader.
const (
	FlipNone       = "none"
	FlipVertical   = "v"
	FlipHorizontal = "h"
	FlipBoth       = "hv"
	FlipBothAlt    = "vh"
	FlipClockwise  = "cw"
	FlipCounter    = "ccw"
)

// Config is the fully-resolved analysis configuration for one omega-scan
// diffraction run. It is built once by Load and must be treated as read-only
// afterwards; every pointer field that has a documented default is non-nil
// after a successful Load.
type Config struct {
	AnalysisName     string                 `yaml:"analysis_name"`
	WorkingDir       string                 `yaml:"working_dir,omitempty"`
	Multiprocessing  any                    `yaml:"multiprocessing,omitempty" validate:"omitempty,mp_policy"` // "all" | "half" | int
	Material         MaterialConfig         `yaml:"material"`
	ImageSeries      ImageSeriesConfig      `yaml:"image_series"`
	Instrument       InstrumentConfig       `yaml:"instrument"`
	FindOrientations FindOrientationsConfig `yaml:"find_orientations"`
	FitGrains        FitGrainsConfig        `yaml:"fit_grains"`
}

// MaterialConfig selects the active material from a materials database.
// Whether Active actually names an entry in Definitions is checked by the
// material loader when it opens the file, not here.
type MaterialConfig struct {
	Definitions string `yaml:"definitions" validate:"required"`
	Active      string `yaml:"active" validate:"required"`
}

// ImageSeriesConfig describes the rotation-series detector frames.
type ImageSeriesConfig struct {
	File   FileConfig  `yaml:"file"`
	Images FrameWindow `yaml:"images"`
	Omega  OmegaRange  `yaml:"omega"`
	Dark   string      `yaml:"dark" validate:"required"`
	Flip   string      `yaml:"flip,omitempty" validate:"omitempty,oneof=none v h hv vh cw ccw"`
}

// FileConfig locates the raw frame files. Stem is a template with one
// integer placeholder filled from IDs; each ID is an integer or a glob
// pattern. Stem may point outside the working directory and is kept
// verbatim, unlike the plain path fields.
type FileConfig struct {
	Stem string `yaml:"stem" validate:"required"`
	IDs  []any  `yaml:"ids" validate:"required,min=1,series_ids"`
}

// FrameWindow selects which frames of each file are read.
type FrameWindow struct {
	Start int `yaml:"start"`
	Stop  int `yaml:"stop"`
	Step  int `yaml:"step"`
}

// OmegaRange is the sample rotation covered by the series, in degrees.
// Step is signed; a negative step means the stage rotated backwards.
type OmegaRange struct {
	Start float64 `yaml:"start"`
	Step  float64 `yaml:"step"`
	Stop  float64 `yaml:"stop"`
}

// InstrumentConfig points at the detector parameter file. The Detector block
// is only needed when migrating a legacy parameter file.
type InstrumentConfig struct {
	Parameters string          `yaml:"parameters" validate:"required"`
	Detector   *DetectorConfig `yaml:"detector,omitempty"`
}

// DetectorConfig carries the pixel geometry required to convert a legacy
// parameter file.
type DetectorConfig struct {
	ParametersOld string      `yaml:"parameters_old" validate:"required"`
	Pixels        PixelConfig `yaml:"pixels"`
}

// PixelConfig is the panel pixel grid; Size is [height, width] in mm.
type PixelConfig struct {
	Rows    int       `yaml:"rows"`
	Columns int       `yaml:"columns"`
	Size    []float64 `yaml:"size"`
}

// FindOrientationsConfig parameterizes the orientation search.
type FindOrientationsConfig struct {
	OrientationMaps         OrientationMapsConfig `yaml:"orientation_maps"`
	UseQuaternionGrid       string                `yaml:"use_quaternion_grid,omitempty"`
	SeedSearch              *SeedSearchConfig     `yaml:"seed_search,omitempty"`
	Threshold               *float64              `yaml:"threshold,omitempty"`
	Omega                   OmegaSettings         `yaml:"omega,omitempty"`
	Period                  []float64             `yaml:"period,omitempty"`
	Eta                     EtaSettings           `yaml:"eta,omitempty"`
	Clustering              *ClusteringConfig     `yaml:"clustering,omitempty"`
	ExtractMeasuredGVectors bool                  `yaml:"extract_measured_g_vectors,omitempty"`
}

// OrientationMapsConfig controls the precomputed eta-omega maps.
// ActiveHKLs is "all" or a list of non-negative hkl indices into the active
// material's plane data.
type OrientationMapsConfig struct {
	File       string   `yaml:"file" validate:"required"`
	Threshold  *float64 `yaml:"threshold" validate:"required"`
	BinFrames  *int     `yaml:"bin_frames,omitempty"`
	ActiveHKLs any      `yaml:"active_hkls,omitempty" validate:"omitempty,hkl_selection"`
}

// SeedSearchConfig seeds the orientation search with fibers through the
// listed hkl families. It is inert when a quaternion grid is supplied.
type SeedSearchConfig struct {
	HKLSeeds  []int    `yaml:"hkl_seeds"`
	FiberStep *float64 `yaml:"fiber_step,omitempty"`
}

// OmegaSettings holds the omega tolerance window, in degrees.
type OmegaSettings struct {
	Tolerance *float64 `yaml:"tolerance,omitempty"`
}

// EtaSettings holds the eta tolerance window and the azimuthal mask around
// the rotation axis, both in degrees.
type EtaSettings struct {
	Tolerance *float64 `yaml:"tolerance,omitempty"`
	Mask      *float64 `yaml:"mask,omitempty"`
}

// ClusteringConfig groups indexed orientations into grains.
type ClusteringConfig struct {
	Radius       *float64 `yaml:"radius" validate:"required"`
	Completeness *float64 `yaml:"completeness" validate:"required"`
	Algorithm    string   `yaml:"algorithm,omitempty" validate:"omitempty,oneof=dbscan sph-dbscan ort-dbscan fclusterdata"`
}

// FitGrainsConfig parameterizes grain parameter refinement. The three
// tolerance lists are index-aligned: entry i of each list defines pass i.
type FitGrainsConfig struct {
	DoFit       *bool           `yaml:"do_fit,omitempty"`
	Estimate    string          `yaml:"estimate,omitempty"`
	NPDiv       *int            `yaml:"npdiv,omitempty"`
	PanelBuffer *int            `yaml:"panel_buffer" validate:"required"`
	Threshold   *float64        `yaml:"threshold" validate:"required"`
	Tolerance   ToleranceConfig `yaml:"tolerance"`
	TThMax      any             `yaml:"tth_max,omitempty" validate:"omitempty,tth_max"` // bool | non-negative number
}

// ToleranceConfig holds the per-pass angular tolerance windows, in degrees.
type ToleranceConfig struct {
	TTh   []float64 `yaml:"tth" validate:"required,min=1"`
	Eta   []float64 `yaml:"eta" validate:"required,min=1"`
	Omega []float64 `yaml:"omega" validate:"required,min=1"`
}

// SearchStrategy is the orientation-search seeding strategy resolved from
// the mutually exclusive use_quaternion_grid and seed_search sections.
type SearchStrategy interface {
	isSearchStrategy()
}

// QuaternionGrid seeds the search from a precomputed quaternion grid file.
type QuaternionGrid struct {
	Path string
}

// SeededSearch seeds the search with fibers through the given hkl families.
type SeededSearch struct {
	HKLSeeds  []int
	FiberStep float64
}

func (QuaternionGrid) isSearchStrategy() {}
func (SeededSearch) isSearchStrategy()   {}

// Strategy returns the resolved orientation-search strategy. A quaternion
// grid always wins over a seed_search block; nil is only possible on a
// config that did not pass Load.
func (f *FindOrientationsConfig) Strategy() SearchStrategy {
	if f.UseQuaternionGrid != "" {
		return QuaternionGrid{Path: f.UseQuaternionGrid}
	}
	if f.SeedSearch != nil {
		var step float64
		if f.SeedSearch.FiberStep != nil {
			step = *f.SeedSearch.FiberStep
		}
		return SeededSearch{HKLSeeds: f.SeedSearch.HKLSeeds, FiberStep: step}
	}
	return nil
}

// SeedSearchInert reports whether a seed_search block was supplied but is
// ignored because a quaternion grid takes precedence. The block is kept on
// the config for round-tripping; downstream stages must not consult it.
func (f *FindOrientationsConfig) SeedSearchInert() bool {
	return f.UseQuaternionGrid != "" && f.SeedSearch != nil
}

// ActiveHKLIndices normalizes the active_hkls field. all is true when every
// hkl family of the material should be used; otherwise hkls holds the
// selected indices.
func (o *OrientationMapsConfig) ActiveHKLIndices() (all bool, hkls []int, err error) {
	return normalizeActiveHKLs(o.ActiveHKLs)
}

// Passes returns the number of sequential refinement passes, defined by the
// tolerance list length.
func (f *FitGrainsConfig) Passes() int {
	return len(f.Tolerance.TTh)
}

// MaxTTh resolves the tth_max field: useMax reports whether spots beyond a
// two-theta cutoff are excluded, and limit is the explicit cutoff in degrees
// (0 when the instrument's own maximum applies).
func (f *FitGrainsConfig) MaxTTh() (useMax bool, limit float64) {
	switch v := f.TThMax.(type) {
	case bool:
		return v, 0
	case int:
		return true, float64(v)
	case int64:
		return true, float64(v)
	case float64:
		return true, v
	default:
		return true, 0
	}
}

// Processes resolves the multiprocessing policy against the number of CPUs
// actually available. The loader never spawns workers itself; this is a
// hint for the analysis engine.
func (c *Config) Processes(available int) int {
	if available < 1 {
		available = 1
	}

	token, n, err := normalizeMultiprocessing(c.Multiprocessing)
	if err != nil {
		// Unreachable on a loaded config; fall back to the default policy.
		n = DefaultMultiprocessing
	}

	switch token {
	case MPAll:
		return available
	case MPHalf:
		return max(available/2, 1)
	}

	if n > 0 {
		return min(n, available)
	}
	// n <= 0 means "all but |n|".
	return max(available+n, 1)
}
