/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package contract

// IsRepositoryContract reports whether t is a repository contract: a
// non-generic interface whose one and only direct supertype is the Marker.
//
// Supertypes are compared by qualified name. An interface that repeats the
// marker's methods without embedding it does not qualify, and neither does
// one that embeds the marker next to another interface.
func IsRepositoryContract(t Type) bool {
	if t.Kind != Interface || t.TypeParams > 0 {
		return false
	}
	return len(t.Supertypes) == 1 && t.Supertypes[0] == Marker
}
