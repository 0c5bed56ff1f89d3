// Package shared holds code used across packages that belongs to no single
// stage of a run. Its testutil subpackage captures slog records and writes
// wide-report fixtures for package tests.
package shared
