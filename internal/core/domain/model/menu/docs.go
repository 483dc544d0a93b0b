// Package menu is the read model of the restaurant catalog as seen by
// pricing: items, their sizes and their add-on options with current prices
// and availability. Menu management lives elsewhere; this package never
// mutates a catalog.
package menu
