package console

import (
	"testing"

	"github.com/TuanAnhhh123/M26-HKT/pkg/router"
)

func mustResolver(t *testing.T, opts ...router.Option) *router.Resolver {
	t.Helper()
	r, err := NewResolver(opts...)
	if err != nil {
		t.Fatalf("NewResolver() error: %v", err)
	}
	return r
}

func TestTableShape(t *testing.T) {
	table, err := Table()
	if err != nil {
		t.Fatalf("Table() error: %v", err)
	}

	entries := table.Entries()
	want := []struct {
		pattern string
		name    string
		target  router.Target
	}{
		{"/", "Dashboard", router.View(Dashboard)},
		{"/manager-user", "ManagerUser", router.View(ManagerUser)},
		{"/manager-product", "ManagerProduct", router.View(ManagerProduct)},
		{"/:pathMatch(.*)*", "", router.RedirectTo("/")},
	}
	if len(entries) != len(want) {
		t.Fatalf("len(entries) = %d, want %d", len(entries), len(want))
	}
	for i, w := range want {
		e := entries[i]
		if e.Pattern != w.pattern || e.Name != w.name || e.Target != w.target {
			t.Errorf("entry %d = {%q %q %v}, want {%q %q %v}", i, e.Pattern, e.Name, e.Target, w.pattern, w.name, w.target)
		}
	}

	roots, catchAlls := 0, 0
	for _, e := range entries {
		if e.Pattern == "/" {
			roots++
		}
		if e.IsCatchAll() {
			catchAlls++
			if !e.Target.IsRedirect() || e.Target.Redirect != "/" {
				t.Errorf("catch-all target = %v, want redirect /", e.Target)
			}
		}
	}
	if roots != 1 || catchAlls != 1 {
		t.Errorf("roots=%d catchAlls=%d, want 1/1", roots, catchAlls)
	}
	if !entries[len(entries)-1].IsCatchAll() {
		t.Error("catch-all must be the last entry")
	}
}

func TestNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range Entries() {
		if e.Name == "" {
			continue
		}
		if seen[e.Name] {
			t.Errorf("duplicate name %q", e.Name)
		}
		seen[e.Name] = true
	}
	if len(seen) != 3 {
		t.Errorf("named entries = %d, want 3", len(seen))
	}
}

func TestLiteralPathsResolveToViews(t *testing.T) {
	r := mustResolver(t)

	tests := map[string]router.ViewID{
		"/":                Dashboard,
		"/manager-user":    ManagerUser,
		"/manager-product": ManagerProduct,
	}
	for path, view := range tests {
		res, ok := r.Resolve(path)
		if !ok {
			t.Errorf("Resolve(%q) failed", path)
			continue
		}
		if res.Redirected() {
			t.Errorf("Resolve(%q) redirected", path)
		}
		if res.View() != view {
			t.Errorf("Resolve(%q) = %s, want %s", path, res.View(), view)
		}
	}
}

func TestUnknownPathsRedirectToDashboard(t *testing.T) {
	r := mustResolver(t)

	paths := []string{
		"/foo",
		"/unknown/segment",
		"/manager-user/extra/segments",
		"/manager-product/1",
		"/manager",
		"/manager-users",
		"/dashboard",
		"/a/b/c/d/e/f",
	}
	for _, path := range paths {
		res, ok := r.Resolve(path)
		if !ok {
			t.Errorf("Resolve(%q) failed", path)
			continue
		}
		if !res.Redirected() || res.Hops != 1 {
			t.Errorf("Resolve(%q) hops = %d, want 1", path, res.Hops)
		}
		if res.Path != "/" || res.View() != Dashboard {
			t.Errorf("Resolve(%q) = %s at %q, want Dashboard at /", path, res.View(), res.Path)
		}

		again, _ := r.Resolve(res.Path)
		if again.Redirected() || again.View() != Dashboard {
			t.Errorf("re-resolving %q redirected again", res.Path)
		}
	}
}

func TestNearMissPathsRedirectToDashboard(t *testing.T) {
	r := mustResolver(t)

	paths := []string{
		"/Manager-User",
		"/MANAGER-PRODUCT",
		"/manager-user/",
		"/manager-product/",
		"//manager-user",
		"/x/../manager-user",
		"/./manager-product",
		"/manager%2Duser",
		"manager-user",
		"",
	}
	for _, path := range paths {
		res, ok := r.Resolve(path)
		if !ok {
			t.Errorf("Resolve(%q) failed", path)
			continue
		}
		if !res.Redirected() || res.Path != "/" || res.View() != Dashboard {
			t.Errorf("Resolve(%q) = %s at %q (redirected=%v), want Dashboard at / via redirect", path, res.View(), res.Path, res.Redirected())
		}
	}

	// The query string is not part of the route path.
	if res, _ := r.Resolve("/manager-user?page=3"); res.Redirected() || res.View() != ManagerUser {
		t.Errorf("Resolve(/manager-user?page=3) = %s (redirected=%v)", res.View(), res.Redirected())
	}
}

func TestLenientMatchingIsOptIn(t *testing.T) {
	r := mustResolver(t, router.WithLenient())
	for _, path := range []string{"/manager-user/", "/Manager-User", "//manager-user", "/x/../manager-user"} {
		res, _ := r.Resolve(path)
		if res.Redirected() || res.View() != ManagerUser {
			t.Errorf("lenient Resolve(%q) = %s (redirected=%v), want ManagerUser", path, res.View(), res.Redirected())
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := mustResolver(t)
	for _, path := range []string{"/", "/manager-product", "/x/y"} {
		a, _ := r.Resolve(path)
		b, _ := r.Resolve(path)
		if a.View() != b.View() || a.Path != b.Path || a.RedirectedFrom != b.RedirectedFrom {
			t.Errorf("Resolve(%q) not deterministic: %+v vs %+v", path, a, b)
		}
	}
}

func TestHrefByName(t *testing.T) {
	r := mustResolver(t)
	for name, want := range map[string]string{
		"Dashboard":      "/",
		"ManagerUser":    "/manager-user",
		"ManagerProduct": "/manager-product",
	} {
		got, err := r.Href(name, nil)
		if err != nil || got != want {
			t.Errorf("Href(%q) = %q, %v; want %q", name, got, err, want)
		}
	}
}

func TestViewsMatchTable(t *testing.T) {
	rendered := make(map[router.ViewID]int)
	for _, e := range Entries() {
		if !e.Target.IsRedirect() {
			rendered[e.Target.View]++
		}
	}
	views := Views()
	if len(views) != len(rendered) {
		t.Errorf("Views() = %v, table renders %v", views, rendered)
	}
	for _, v := range views {
		if rendered[v] != 1 {
			t.Errorf("view %s is rendered by %d entries, want 1", v, rendered[v])
		}
	}
}
