// Package gloss turns translated ISL gloss text into an ordered sequence of
// words, each tagged with whether a sign video exists for it and where that
// video lives under the asset root. The vocabulary and alias table are plain
// configuration values so callers can substitute their own.
package gloss
