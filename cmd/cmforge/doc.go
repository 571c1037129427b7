// Command cmforge manages named configure, build, and run targets for a
// project workspace and dispatches to the configured external tools.
package main
