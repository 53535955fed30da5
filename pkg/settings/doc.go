// Package settings binds setting definitions to their backends and
// assembles them into a weight-sorted tree.
//
// A Tree merges definition directories in load order: the first page,
// section or setting with a given name wins. Settings whose backend cannot
// bind on this host are dropped with a diagnostic.
//
//	tree := settings.NewTree(env, settings.WithCatalog(catalog))
//	for _, dir := range dirs {
//	    if err := tree.LoadDir(ctx, dir); err != nil {
//	        return err
//	    }
//	}
//	s, ok := tree.Lookup("Dark theme")
//	v, err := s.Get(ctx)
//
// Privileged settings (sysfs, osksdl) only stage writes. SaveStaged renders
// the staged values as an INI file for the privileged helper.
package settings
