// Package config provides functionality for loading, defaulting, and
// validating the YAML analysis document that drives a rotation-series
// (omega-scan) X-ray diffraction analysis: material selection, image-series
// loading, instrument calibration, orientation search, and grain fitting.
//
// The package owns only the configuration contract. It never opens the
// referenced material databases, frame files, or parameter files; existence
// checks belong to the collaborators that consume the resolved value.
//
// # Basic Usage
//
// The main entry point is [LoadFile], which reads a document, fills every
// documented default, resolves relative paths against the working
// directory, and validates the result:
//
//	cfg, err := config.LoadFile("analysis.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	passes := cfg.FitGrains.Passes()
//	workers := cfg.Processes(runtime.NumCPU())
//
// [Load] is the pure-function variant: it takes the document bytes and the
// fallback working directory as arguments and touches no ambient process
// state, which is what tests should use.
//
// # Two-Phase Loading
//
// Loading is parse-then-default: the document is first decoded into an
// optional-valued structure (pointer fields distinguish "absent" from
// "zero"), then a defaulting pass fills in values that may depend on
// already-parsed siblings. Cross-field defaults include:
//
//   - find_orientations.omega.tolerance defaults to twice the image-series
//     omega step
//   - find_orientations.period defaults to a full rotation starting at the
//     image-series omega start, directed by the sign of the omega step
//   - seed_search.fiber_step defaults to the resolved omega tolerance
//
// After a successful load every defaulted pointer field is non-nil and the
// Config must be treated as read-only; it is safe to share across workers.
//
// # Orientation Search Strategy
//
// The use_quaternion_grid and seed_search sections are mutually exclusive.
// When both appear the grid wins: the seed_search block is preserved on the
// config for round-tripping but marked inert, and
// [FindOrientationsConfig.Strategy] returns the [QuaternionGrid] arm of the
// strategy union so downstream stages cannot misread the ignored block.
//
// # Flexible Fields
//
// Several fields accept more than one YAML shape:
//
//	multiprocessing: all      # or "half", or an integer (-1 = all but one)
//	active_hkls: all          # or a list of hkl indices: [0, 1, 4]
//	tth_max: true             # or an explicit cutoff in degrees: 14.25
//	ids: [240, "*_cal"]       # integers or glob patterns
//
// Normalizer methods ([Config.Processes], [OrientationMapsConfig.ActiveHKLIndices],
// [FitGrainsConfig.MaxTTh], [FileConfig.SeriesIDs]) reduce them to one
// canonical shape.
//
// # Validation
//
// Validation never stops at the first problem. Schema issues (missing
// required fields, wrong types, bad enum values) and constraint issues
// (frame window start past stop, tolerance list length mismatch, period not
// spanning 360 degrees) are collected together and returned as a single
// *[Report] listing every violated rule with its dotted field path. On
// failure no partial Config is returned.
package config
