// Package settings loads the optional tool-level configuration file
// controlling logging, history, and cache placement.
package settings
