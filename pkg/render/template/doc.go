// Package template defines the renderer-facing template contracts: the
// backend engine interface plus the manifest naming every template and the
// subset that gates first paint.
package template
