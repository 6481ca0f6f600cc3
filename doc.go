// Package flurry is a Pixelflut server: it holds a fixed-size RGBA canvas
// in memory, accepts unbounded concurrent TCP connections each speaking one
// of three interchangeable wire protocols, and streams a live JPEG encoding
// of the canvas to HTTP spectators.
//
// See cmd/flurryd for the runnable server; canvas, codec, session,
// snapshot, flutserver and httpapi are its component packages.
package flurry
