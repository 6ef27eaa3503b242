// Package domain models the encoded hydrography rasters served to the NHD
// flowline map and the per-pixel rules that recolor them.
//
// # Data tiles
//
// The upstream map server rasterizes NHD flowlines and gage locations with an
// attribute encoded in the pixel color instead of a display color. Read as
// non-premultiplied RGBA bytes, a data pixel packs into a 32-bit [Pixel]:
//
//	bits 31..24  alpha
//	bits 23..16  blue
//	bits 15..8   green
//	bits  7..0   red
//
// The low 24 bits carry the encoded value, red being the least significant
// byte. Two encodings are in use:
//
//	Stream order ("StreamOrde" attribute): Strahler order 1 (headwater) to 7.
//	Percentile rank ("QACDecile" attribute): 0 to 100.
//
// Special values:
//
//	alpha == 0        nothing was drawn at this pixel
//	value == 0xFFFFFF no data (white background or missing attribute)
//
// # Classifiers
//
// [ClassifyStreamOrder] keeps pixels whose stream order passes the clip
// threshold and paints them with the highlight color. [ClassifyDecile] maps a
// percentile through a four-segment jet ramp ([Jet]). [MarkGage] draws a circle
// onto a [Canvas] for each gage pixel that passes the threshold.
//
// Output pixels use the same packed layout, so 0xFFFF0000 (below the ramp
// minimum) lands in the blue byte and 0xFF0000FF (above the maximum) in the
// red byte once written back to an image.
//
// # Thresholds per zoom
//
// [ThresholdTable] stores one clip threshold per map zoom level (0-20). With
// lock enabled the table stays non-increasing in zoom: zooming in never hides
// streams that were visible further out.
package domain
