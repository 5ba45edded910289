package config

import (
	"math"
	"path/filepath"
)

// Default values that do not depend on sibling fields.
const (
	DefaultAnalysisName         = "analysis"
	DefaultBinFrames            = 1
	DefaultOrientationThreshold = 1.0
	DefaultEtaMask              = 5.0
	DefaultClusteringAlgorithm  = "dbscan"
	DefaultNPDiv                = 2
)

// applyDefaults fills every documented default after parsing and before
// validation. Cross-field defaults read sibling values that were resolved
// earlier in the pass, so the order below matters: working_dir first, then
// the image-series-derived tolerances.
func (c *Config) applyDefaults(workingDir string) {
	if c.AnalysisName == "" {
		c.AnalysisName = DefaultAnalysisName
	}
	if c.WorkingDir == "" {
		c.WorkingDir = workingDir
	} else if !filepath.IsAbs(c.WorkingDir) {
		// A relative working_dir is itself anchored at the fallback
		// directory, so the path fields resolved onto it stay absolute.
		c.WorkingDir = filepath.Join(workingDir, c.WorkingDir)
	}
	if c.Multiprocessing == nil {
		c.Multiprocessing = DefaultMultiprocessing
	}

	omega := c.ImageSeries.Omega

	fo := &c.FindOrientations
	if fo.OrientationMaps.BinFrames == nil {
		fo.OrientationMaps.BinFrames = intPtr(DefaultBinFrames)
	}
	if fo.OrientationMaps.ActiveHKLs == nil {
		fo.OrientationMaps.ActiveHKLs = "all"
	}
	if fo.Threshold == nil {
		fo.Threshold = floatPtr(DefaultOrientationThreshold)
	}
	if fo.Omega.Tolerance == nil {
		// Twice the scan step: one frame either side of the nominal omega.
		fo.Omega.Tolerance = floatPtr(2 * math.Abs(omega.Step))
	}
	if fo.Period == nil {
		span := 360.0
		if omega.Step < 0 {
			span = -360.0
		}
		fo.Period = []float64{omega.Start, omega.Start + span}
	}
	if fo.Eta.Mask == nil {
		fo.Eta.Mask = floatPtr(DefaultEtaMask)
	}
	if fo.Clustering != nil && fo.Clustering.Algorithm == "" {
		fo.Clustering.Algorithm = DefaultClusteringAlgorithm
	}
	if fo.SeedSearch != nil && fo.SeedSearch.FiberStep == nil {
		fo.SeedSearch.FiberStep = floatPtr(*fo.Omega.Tolerance)
	}

	fg := &c.FitGrains
	if fg.DoFit == nil {
		fg.DoFit = boolPtr(true)
	}
	if fg.NPDiv == nil {
		fg.NPDiv = intPtr(DefaultNPDiv)
	}
	if fg.TThMax == nil {
		fg.TThMax = true
	}
}

func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }
