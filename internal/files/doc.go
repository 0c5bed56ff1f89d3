// Package files locates input reports and writes outputs safely.
//
// Discovery lists the reports of an input directory: regular files whose
// names match the include globs and none of the exclude globs, compared
// case-insensitively and returned sorted by name.
//
//	discovery := files.NewDiscovery(paths.WorkingDir)
//	reports, err := discovery.FindInputFiles("gh_data", []string{"*.csv", "*.xlsx"}, []string{"~$*", ".*"})
//
// Manager resolves paths against the working directory. Its WriteAtomic
// writes an output to a hidden sibling first and moves it into place only
// when the write succeeded.
package files
