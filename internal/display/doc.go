// Package display keeps the set of tooltips shown on a host: it styles
// them from the theme, enforces the active limit, expires them and reports
// closes with a reason.
package display
