package flags

import "github.com/spf13/pflag"

const (
	// RootFlagName names the repeatable scan root flag.
	RootFlagName = "root"
	// RootFlagUsage describes the scan root flag.
	RootFlagUsage = "Directory to scan for repositories (repeatable, combined with positional roots)"
)

// BindRootFlag registers the repeatable --root flag once and returns the slice it populates.
func BindRootFlag(flagSet *pflag.FlagSet, defaultRoots []string) *[]string {
	roots := append([]string(nil), defaultRoots...)
	if flagSet == nil || flagSet.Lookup(RootFlagName) != nil {
		return &roots
	}
	flagSet.StringSliceVar(&roots, RootFlagName, roots, RootFlagUsage)
	return &roots
}
