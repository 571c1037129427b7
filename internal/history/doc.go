// Package history persists one record per configure/build/run invocation in
// a per-user SQLite database, backing `cmforge history`.
package history
