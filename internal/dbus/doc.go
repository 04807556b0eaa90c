// Package dbus implements the io.github.jmylchreest.Anchortip D-Bus
// interface. The server lets other processes show tooltips at screen
// points and rectangles, dismiss and list them; the client and the signal
// watcher are its counterparts for the CLI.
package dbus
