// Package features answers one question: is this flag on? A flag reads
// from three layers in order: process overrides set by CLI flags, the
// user's config file, and the compiled-in default.
package features
