// Package target defines the persisted per-workspace document describing
// named configure, build, and run targets, and the store that loads and
// saves it.
package target
