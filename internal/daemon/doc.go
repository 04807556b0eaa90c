// Package daemon ties the anchortipd pieces together. It answers D-Bus
// calls through the display manager on the UI loop, keeps the theme and
// configuration hot-reloaded and reports reloads with tooltips of its own.
//
// Nothing in this package touches GTK: the UI loop is reached through a
// poster and the stylesheet through a Styler, so a terminal host can stand
// in for the desktop in tests.
package daemon
