package files

// Exported aliases for testing internal types and
// functions from files_test package.

// SHALookup is an alias for shaLookup.
type SHALookup = shaLookup

// Lookup outcomes.
const (
	LookupFound        = lookupFound
	LookupNotFound     = lookupNotFound
	LookupErrorIgnored = lookupErrorIgnored
)

// LookupSHAForTest exposes Writer.lookupSHA.
var LookupSHAForTest = (*Writer).lookupSHA

// ValidateEditsForTest exposes validateEdits.
var ValidateEditsForTest = validateEdits
