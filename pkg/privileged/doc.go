// Package privileged launches the helper that applies staged sysfs and
// on-screen keyboard values with elevated privileges.
//
// The helper is invoked as "pkexec pk-tweaks-action <path>" where path is
// an INI file produced by settings.Tree.SaveStaged.
package privileged
