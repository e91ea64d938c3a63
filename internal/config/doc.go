// Package config loads the sheet template and tuning parameters.
//
// Defaults describe the production CONAB answer sheet at its 2338x1653
// reference resolution. The loaded Config is treated as immutable and passed
// by reference into every component.
//
// # Override Layers
//
// Values are resolved in precedence order:
//
//  1. CONAB_-prefixed environment variables, with dots replaced by
//     underscores (CONAB_DETECT_DARKNESS_THRESHOLD overrides
//     detect.darkness_threshold).
//  2. A YAML config file: either one named explicitly, or a conab.yaml found
//     in the working directory or ~/.conab.
//  3. The built-in template defaults.
package config
