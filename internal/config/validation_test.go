package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadReport loads a document expected to fail validation and returns the
// aggregated report.
func loadReport(t *testing.T, doc string) *Report {
	t.Helper()

	_, err := Load([]byte(doc), "/work")
	require.Error(t, err)

	var report *Report
	require.ErrorAs(t, err, &report, "expected an aggregated validation report, got: %v", err)
	return report
}

// issueFor returns the first issue reported against the given field path.
func issueFor(t *testing.T, report *Report, field string) Issue {
	t.Helper()
	for _, issue := range report.Issues {
		if issue.Field == field {
			return issue
		}
	}
	t.Fatalf("no issue for field %q in %v", field, report.Fields())
	return Issue{}
}

func TestSchemaErrors(t *testing.T) {
	t.Run("multiprocessing token outside the enumeration", func(t *testing.T) {
		doc := "multiprocessing: full\n" + minimalDoc
		report := loadReport(t, doc)

		issue := issueFor(t, report, "multiprocessing")
		assert.Equal(t, KindSchema, issue.Kind)
		assert.Contains(t, issue.Reason, "integer")
	})

	t.Run("missing required fields are all reported at once", func(t *testing.T) {
		report := loadReport(t, "analysis_name: empty_run\n")

		fields := report.Fields()
		assert.Contains(t, fields, "material.definitions")
		assert.Contains(t, fields, "material.active")
		assert.Contains(t, fields, "image_series.dark")
		assert.Contains(t, fields, "instrument.parameters")
		assert.Contains(t, fields, "find_orientations.orientation_maps.file")
		assert.Contains(t, fields, "fit_grains.panel_buffer")
		assert.Contains(t, fields, "fit_grains.threshold")
	})

	t.Run("bad flip value", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "dark: dark.ge2", "dark: dark.ge2\n  flip: diagonal", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "image_series.flip")
		assert.Equal(t, KindSchema, issue.Kind)
	})

	t.Run("bad clustering algorithm", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "fit_grains:", `  clustering:
    radius: 1.0
    completeness: 0.85
    algorithm: kmeans
fit_grains:`, 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "find_orientations.clustering.algorithm")
		assert.Equal(t, KindSchema, issue.Kind)
	})

	t.Run("active_hkls of the wrong shape", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "threshold: 25\n  seed_search:",
			"threshold: 25\n    active_hkls: strongest\n  seed_search:", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "find_orientations.orientation_maps.active_hkls")
		assert.Equal(t, KindSchema, issue.Kind)
	})

	t.Run("tth_max of the wrong type", func(t *testing.T) {
		doc := minimalDoc + "  tth_max: [1, 2]\n"
		report := loadReport(t, doc)

		issue := issueFor(t, report, "fit_grains.tth_max")
		assert.Equal(t, KindSchema, issue.Kind)
	})

	t.Run("incomplete detector conversion block", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "instrument:\n  parameters: detector.yml",
			`instrument:
  parameters: detector.yml
  detector:
    pixels:
      rows: 2048
      columns: 2048
      size: [0.2, 0.2]`, 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "instrument.detector.parameters_old")
		assert.Equal(t, KindSchema, issue.Kind)
	})
}

func TestConstraintErrors(t *testing.T) {
	t.Run("frame window start past stop", func(t *testing.T) {
		doc := strings.NewReplacer(
			"start: 1", "start: 240",
			"stop: 3600", "stop: 1",
		).Replace(minimalDoc)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "image_series.images")
		assert.Equal(t, KindConstraint, issue.Kind)
	})

	t.Run("zero frame step", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "step: 1", "step: 0", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "image_series.images.step")
		assert.Equal(t, KindConstraint, issue.Kind)
	})

	t.Run("zero omega step", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "step: 0.1", "step: 0.0", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "image_series.omega.step")
		assert.Equal(t, KindConstraint, issue.Kind)
	})

	t.Run("omega range contradicts step sign", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "step: 0.1", "step: -0.1", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "image_series.omega")
		assert.Equal(t, KindConstraint, issue.Kind)
	})

	t.Run("tolerance lists of unequal length", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "eta: [2.0]", "eta: [2.0, 2.0]", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "fit_grains.tolerance")
		assert.Equal(t, KindConstraint, issue.Kind)
		assert.Contains(t, issue.Reason, "equal length")
	})

	t.Run("equal-length tolerance lists pass", func(t *testing.T) {
		doc := strings.NewReplacer(
			"tth: [0.2]", "tth: [0.2, 0.1]",
			"eta: [2.0]", "eta: [2.0, 2.0]",
			"omega: [2.0]", "omega: [2.0, 2.0]",
		).Replace(minimalDoc)

		cfg, err := Load([]byte(doc), "/work")
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.FitGrains.Passes())
	})

	t.Run("period not spanning 360 degrees", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "  seed_search:", "  period: [0, 180]\n  seed_search:", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "find_orientations.period")
		assert.Equal(t, KindConstraint, issue.Kind)
		assert.Contains(t, issue.Reason, "360")
	})

	t.Run("descending period spanning 360 degrees passes", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "  seed_search:", "  period: [180, -180]\n  seed_search:", 1)
		_, err := Load([]byte(doc), "/work")
		require.NoError(t, err)
	})

	t.Run("period with wrong element count", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "  seed_search:", "  period: [0, 180, 360]\n  seed_search:", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "find_orientations.period")
		assert.Equal(t, KindConstraint, issue.Kind)
	})

	t.Run("negative tth_max", func(t *testing.T) {
		doc := minimalDoc + "  tth_max: -3.5\n"
		report := loadReport(t, doc)

		issue := issueFor(t, report, "fit_grains.tth_max")
		assert.Equal(t, KindConstraint, issue.Kind)
	})

	t.Run("no orientation search source", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "  seed_search:\n    hkl_seeds: [0, 1]\n", "", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "find_orientations")
		assert.Equal(t, KindConstraint, issue.Kind)
	})

	t.Run("active seed search without seeds", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "hkl_seeds: [0, 1]", "hkl_seeds: []", 1)
		report := loadReport(t, doc)

		issue := issueFor(t, report, "find_orientations.seed_search.hkl_seeds")
		assert.Equal(t, KindConstraint, issue.Kind)
	})

	t.Run("clustering ranges", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "fit_grains:", `  clustering:
    radius: 0.0
    completeness: 1.5
fit_grains:`, 1)
		report := loadReport(t, doc)

		assert.Equal(t, KindConstraint, issueFor(t, report, "find_orientations.clustering.radius").Kind)
		assert.Equal(t, KindConstraint, issueFor(t, report, "find_orientations.clustering.completeness").Kind)
	})

	t.Run("detector pixel geometry", func(t *testing.T) {
		doc := strings.Replace(minimalDoc, "instrument:\n  parameters: detector.yml",
			`instrument:
  parameters: detector.yml
  detector:
    parameters_old: detector.old
    pixels:
      rows: 0
      columns: 2048
      size: [0.2]`, 1)
		report := loadReport(t, doc)

		assert.Equal(t, KindConstraint, issueFor(t, report, "instrument.detector.pixels.rows").Kind)
		assert.Equal(t, KindConstraint, issueFor(t, report, "instrument.detector.pixels.size").Kind)
	})
}

func TestViolationAggregation(t *testing.T) {
	t.Run("schema and constraint issues are reported together", func(t *testing.T) {
		doc := strings.NewReplacer(
			"active: ruby", "active: \"\"", // schema: required
			"start: 1", "start: 240", // constraint: start > stop
			"stop: 3600", "stop: 1",
		).Replace(minimalDoc)
		doc = "multiprocessing: most\n" + doc // schema: bad token

		report := loadReport(t, doc)

		fields := report.Fields()
		assert.Contains(t, fields, "multiprocessing")
		assert.Contains(t, fields, "material.active")
		assert.Contains(t, fields, "image_series.images")
		assert.GreaterOrEqual(t, len(report.Issues), 3)
	})

	t.Run("report renders one line per violation", func(t *testing.T) {
		doc := strings.NewReplacer(
			"start: 1", "start: 240",
			"stop: 3600", "stop: 1",
		).Replace(minimalDoc)

		report := loadReport(t, doc)
		msg := report.Error()
		assert.Contains(t, msg, "configuration validation failed")
		assert.Contains(t, msg, "image_series.images")
	})
}
