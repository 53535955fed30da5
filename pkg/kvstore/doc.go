// Package kvstore provides access to the typed key-value settings daemon
// used by the gsettings backend.
//
// GSettings reads and writes values through the gsettings tool and listens
// for ca.desrt.dconf.Writer Notify signals on the session bus for change
// notifications. Memory is an in-process implementation for tests and for
// hosts without a session bus.
//
// Keys are addressed as "schema.key":
//
//	schema, key, err := kvstore.SplitKey("org.gnome.desktop.interface.gtk-theme")
//	v, err := store.Get(ctx, schema, key, kvstore.KindString)
package kvstore
