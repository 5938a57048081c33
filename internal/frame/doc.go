// Package frame synthesizes the placeholder detector frames shown by the
// console. The image is a procedural, GIWAXS-looking intensity field (rings,
// anisotropy, background, module seams, vignette, beamstop and noise) driven
// by a handful of instrument parameters. It is not physics-accurate.
//
// Synthesis is deterministic apart from the injected Noise source, which is
// sampled once per pixel in row-major order.
package frame
