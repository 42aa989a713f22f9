// Package ui renders git command lifecycle events as short sentences for
// console-format logging, while structured output keeps using zap fields.
package ui
