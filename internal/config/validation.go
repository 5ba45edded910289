package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Package-level validator used by validateConfig.
var validate *validator.Validate

// periodTol absorbs float noise when checking the 360 degree period span.
const periodTol = 1e-6

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report violations under the document's YAML key names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation("mp_policy", validateMPPolicy); err != nil {
		panic(fmt.Errorf("register validator mp_policy: %w", err))
	}
	if err := validate.RegisterValidation("hkl_selection", validateHKLSelection); err != nil {
		panic(fmt.Errorf("register validator hkl_selection: %w", err))
	}
	if err := validate.RegisterValidation("series_ids", validateSeriesIDs); err != nil {
		panic(fmt.Errorf("register validator series_ids: %w", err))
	}
	if err := validate.RegisterValidation("tth_max", validateTThMax); err != nil {
		panic(fmt.Errorf("register validator tth_max: %w", err))
	}
}

// validateMPPolicy implements the "mp_policy" tag for the flexible
// multiprocessing field: a policy token or an integer.
func validateMPPolicy(fl validator.FieldLevel) bool {
	_, _, err := normalizeMultiprocessing(fl.Field().Interface())
	return err == nil
}

// validateHKLSelection implements the "hkl_selection" tag for the flexible
// active_hkls field: "all" or a list of non-negative integers.
func validateHKLSelection(fl validator.FieldLevel) bool {
	_, _, err := normalizeActiveHKLs(fl.Field().Interface())
	return err == nil
}

// validateSeriesIDs implements the "series_ids" tag: every entry of the
// file id list is an integer or a non-empty glob pattern.
func validateSeriesIDs(fl validator.FieldLevel) bool {
	ids, ok := fl.Field().Interface().([]any)
	if !ok {
		return false
	}
	_, err := normalizeSeriesIDs(ids)
	return err == nil
}

// validateTThMax implements the "tth_max" tag: a bool or a number. The
// non-negativity of a numeric value is a range check and lives in
// checkConstraints.
func validateTThMax(fl validator.FieldLevel) bool {
	switch fl.Field().Interface().(type) {
	case bool, int, int64, float64:
		return true
	default:
		return false
	}
}

// validateConfig runs tag-based schema validation, then the cross-field
// constraint checks, and aggregates every violation into one *Report.
func validateConfig(c *Config) error {
	report := &Report{}

	if err := validate.Struct(c); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return err
		}
		for _, fe := range fieldErrors {
			report.add(KindSchema, fieldPath(fe), "%s", formatFieldError(fe))
		}
	}

	c.checkConstraints(report)

	if len(report.Issues) > 0 {
		return report
	}
	return nil
}

// fieldPath strips the top-level struct name from the validator namespace,
// leaving the dotted YAML path of the field.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// formatFieldError renders go-playground/validator failures as concise,
// user-facing text.
func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got '%v'", fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "mp_policy":
		return fmt.Sprintf("must be %q, %q, or an integer, got '%v'", MPAll, MPHalf, fe.Value())
	case "hkl_selection":
		return fmt.Sprintf("must be \"all\" or a list of non-negative integers, got '%v'", fe.Value())
	case "series_ids":
		return "entries must be integers or glob patterns"
	case "tth_max":
		return fmt.Sprintf("must be a boolean or a non-negative number, got '%v'", fe.Value())
	default:
		return fmt.Sprintf("failed validation '%s', got '%v'", fe.Tag(), fe.Value())
	}
}

// checkConstraints applies the range and cross-field invariants that are
// easier to express in code than in tags. All violations are appended to
// the report; nothing short-circuits.
func (c *Config) checkConstraints(report *Report) {
	images := c.ImageSeries.Images
	if images.Start > images.Stop {
		report.add(KindConstraint, "image_series.images",
			"start %d must not exceed stop %d", images.Start, images.Stop)
	}
	if images.Step == 0 {
		report.add(KindConstraint, "image_series.images.step", "must be nonzero")
	}

	omega := c.ImageSeries.Omega
	if omega.Step == 0 {
		report.add(KindConstraint, "image_series.omega.step", "must be nonzero")
	} else if (omega.Stop-omega.Start)*omega.Step < 0 {
		report.add(KindConstraint, "image_series.omega",
			"rotation from %g to %g contradicts the sign of step %g", omega.Start, omega.Stop, omega.Step)
	}

	fo := &c.FindOrientations
	if len(fo.Period) != 2 {
		report.add(KindConstraint, "find_orientations.period",
			"must have exactly two elements, got %d", len(fo.Period))
	} else if span := fo.Period[1] - fo.Period[0]; math.Abs(math.Abs(span)-360) > periodTol {
		report.add(KindConstraint, "find_orientations.period",
			"must span exactly 360 degrees, got %g", span)
	}
	if fo.Omega.Tolerance != nil && *fo.Omega.Tolerance <= 0 {
		report.add(KindConstraint, "find_orientations.omega.tolerance",
			"must be positive, got %g", *fo.Omega.Tolerance)
	}
	if fo.Eta.Tolerance != nil && *fo.Eta.Tolerance <= 0 {
		report.add(KindConstraint, "find_orientations.eta.tolerance",
			"must be positive, got %g", *fo.Eta.Tolerance)
	}
	if fo.Eta.Mask != nil && *fo.Eta.Mask < 0 {
		report.add(KindConstraint, "find_orientations.eta.mask",
			"must be non-negative, got %g", *fo.Eta.Mask)
	}
	if fo.UseQuaternionGrid == "" && fo.SeedSearch == nil {
		report.add(KindConstraint, "find_orientations",
			"either use_quaternion_grid or seed_search must be given")
	}
	if fo.UseQuaternionGrid == "" && fo.SeedSearch != nil && len(fo.SeedSearch.HKLSeeds) == 0 {
		report.add(KindConstraint, "find_orientations.seed_search.hkl_seeds",
			"at least one seed hkl family is required")
	}
	if cl := fo.Clustering; cl != nil {
		if cl.Radius != nil && *cl.Radius <= 0 {
			report.add(KindConstraint, "find_orientations.clustering.radius",
				"must be positive, got %g", *cl.Radius)
		}
		if cl.Completeness != nil && (*cl.Completeness <= 0 || *cl.Completeness > 1) {
			report.add(KindConstraint, "find_orientations.clustering.completeness",
				"must be in (0, 1], got %g", *cl.Completeness)
		}
	}

	if det := c.Instrument.Detector; det != nil {
		if det.Pixels.Rows <= 0 {
			report.add(KindConstraint, "instrument.detector.pixels.rows",
				"must be positive, got %d", det.Pixels.Rows)
		}
		if det.Pixels.Columns <= 0 {
			report.add(KindConstraint, "instrument.detector.pixels.columns",
				"must be positive, got %d", det.Pixels.Columns)
		}
		if len(det.Pixels.Size) != 2 {
			report.add(KindConstraint, "instrument.detector.pixels.size",
				"must be [height, width], got %d elements", len(det.Pixels.Size))
		} else {
			for _, dim := range det.Pixels.Size {
				if dim <= 0 {
					report.add(KindConstraint, "instrument.detector.pixels.size",
						"dimensions must be positive, got %v", det.Pixels.Size)
					break
				}
			}
		}
	}

	tol := c.FitGrains.Tolerance
	if len(tol.TTh) != len(tol.Eta) || len(tol.Eta) != len(tol.Omega) {
		report.add(KindConstraint, "fit_grains.tolerance",
			"tth, eta and omega lists must have equal length, got %d/%d/%d",
			len(tol.TTh), len(tol.Eta), len(tol.Omega))
	}
	if c.FitGrains.NPDiv != nil && *c.FitGrains.NPDiv < 1 {
		report.add(KindConstraint, "fit_grains.npdiv",
			"must be at least 1, got %d", *c.FitGrains.NPDiv)
	}
	if c.FitGrains.PanelBuffer != nil && *c.FitGrains.PanelBuffer < 0 {
		report.add(KindConstraint, "fit_grains.panel_buffer",
			"must be non-negative, got %d", *c.FitGrains.PanelBuffer)
	}
	switch v := c.FitGrains.TThMax.(type) {
	case int:
		if v < 0 {
			report.add(KindConstraint, "fit_grains.tth_max", "must be non-negative, got %d", v)
		}
	case int64:
		if v < 0 {
			report.add(KindConstraint, "fit_grains.tth_max", "must be non-negative, got %d", v)
		}
	case float64:
		if v < 0 {
			report.add(KindConstraint, "fit_grains.tth_max", "must be non-negative, got %g", v)
		}
	}
}
