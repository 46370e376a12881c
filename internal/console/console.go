// Package console declares the admin console route table: the dashboard,
// the user manager, the product manager, and a catch-all that sends every
// other path home.
package console

import "github.com/TuanAnhhh123/M26-HKT/pkg/router"

// Views rendered by the admin client.
const (
	Dashboard      router.ViewID = "Dashboard"
	ManagerUser    router.ViewID = "ManagerUser"
	ManagerProduct router.ViewID = "ManagerProduct"
)

// Route paths.
const (
	RootPath           = "/"
	ManagerUserPath    = "/manager-user"
	ManagerProductPath = "/manager-product"
	CatchAllPattern    = "/:pathMatch(.*)*"
)

// Views lists every view the table can render.
func Views() []router.ViewID {
	return []router.ViewID{Dashboard, ManagerUser, ManagerProduct}
}

// Entries returns the route entries in match order.
func Entries() []router.Entry {
	return []router.Entry{
		{Pattern: RootPath, Name: "Dashboard", Target: router.View(Dashboard)},
		{Pattern: ManagerUserPath, Name: "ManagerUser", Target: router.View(ManagerUser)},
		{Pattern: ManagerProductPath, Name: "ManagerProduct", Target: router.View(ManagerProduct)},
		{Pattern: CatchAllPattern, Target: router.RedirectTo(RootPath)},
	}
}

// Table builds the console route table.
func Table() (*router.Table, error) {
	return router.NewTable(Entries()...)
}

// NewResolver builds a resolver over the console table.
func NewResolver(opts ...router.Option) (*router.Resolver, error) {
	t, err := Table()
	if err != nil {
		return nil, err
	}
	return router.NewResolver(t, opts...)
}
