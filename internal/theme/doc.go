// Package theme handles tooltip color palettes and the CSS rendered from them.
// Themes are loaded from ~/.config/anchortip/themes/ with embedded defaults
// used when no user theme of that name exists.
package theme
