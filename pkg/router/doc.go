// Package router resolves client-side navigation paths against an ordered
// route table.
//
// The router provides:
//   - Path patterns with static segments, params and repeatable params
//   - An immutable, validated route table where the first match wins
//   - Redirect entries that are followed until a view is reached
//   - Named routes for programmatic navigation
//   - Web (path) and hash history modes for href/location mapping
//   - A per-client navigation stack (push, replace, back, forward)
//
// # Patterns
//
//	/                     → root
//	/manager-user         → static segment
//	/users/:id            → one segment, captured as "id"
//	/users/:id(\d+)       → one segment matching a custom regexp
//	/docs/:slug+          → one or more segments
//	/:pathMatch(.*)*      → zero or more segments (catch-all)
//
// Matching is exact by default: "/Manager-User", "/manager-user/" and
// "//manager-user" do not match "/manager-user". WithIgnoreCase,
// WithIgnoreTrailingSlash and WithCanonicalPaths relax it one rule at a
// time and WithLenient relaxes all of them.
//
// # Usage
//
//	table, err := router.NewTable(
//	    router.Entry{Pattern: "/", Name: "Home", Target: router.View("Home")},
//	    router.Entry{Pattern: "/:pathMatch(.*)*", Target: router.RedirectTo("/")},
//	)
//	r, err := router.NewResolver(table, router.WithHistory(router.NewWebHistory("")))
//
//	res, ok := r.Resolve("/unknown/segment")
//	// ok == true, res.View() == "Home", res.RedirectedFrom == "/unknown/segment"
package router
