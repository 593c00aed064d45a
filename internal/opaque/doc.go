// Package opaque guards statements with always-true predicates and fills the
// unreachable alternatives with junk code.
//
// Predicates are built only from integer variables that are bound at every
// statement of the function: a synthetic sentinel defined in a prologue plus
// whatever the caller vouches for (int parameters, encoded parameters).
// Every leaf is an exact identity under arbitrary-precision integers, so any
// AND/OR tree of leaves is true.
package opaque
