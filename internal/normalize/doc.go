// Package normalize turns an arbitrary scanned raster into the grayscale
// working buffer the rest of the pipeline expects.
//
// The stages run in a fixed order: decode, Lanczos resize to the template's
// reference resolution (never crop), grayscale conversion, mild Gaussian
// blur, and tile-based adaptive histogram equalization to flatten uneven
// lighting. Normalization is deterministic; the same input always produces an
// identical buffer.
//
// Decode failure, reported via ErrDecode, is the pipeline's only fatal
// condition.
package normalize
