// Package analysis measures how recorded ropes move over time.
//
//   - [PowerSpectrum]: magnitude spectrum of one state column
//   - [Dominant]: strongest sway frequency in hertz
//   - [Settle]: first frame after which a column stays within a band
//
// Columns come from a stored run: column 2i is x of point i, 2i+1 is y.
package analysis
