// Package ui renders git activity as short console messages while the
// structured logger keeps the detailed record.
package ui
