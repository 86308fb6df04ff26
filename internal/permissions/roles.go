package permissions

import (
	"errors"
	"slices"
)

// Role is a role a user holds on a business or a location.
type Role string

const (
	SuperAdmin    Role = "super_admin"
	BusinessAdmin Role = "business_admin"
	LocationAdmin Role = "location_admin"
	Manager       Role = "manager"
	Viewer        Role = "viewer"
)

// Role sets used by the route guards. A super_admin assignment on any business
// passes every check.
var (
	BusinessAdminRoles = []Role{SuperAdmin, BusinessAdmin}
	BusinessWriteRoles = []Role{SuperAdmin, BusinessAdmin, LocationAdmin, Manager}
	BusinessReadRoles  = []Role{SuperAdmin, BusinessAdmin, LocationAdmin, Manager, Viewer}
	LocationWriteRoles = []Role{LocationAdmin, Manager}
	LocationReadRoles  = []Role{LocationAdmin, Manager, Viewer}
)

// AnyBusiness is the business ID used for platform-wide assignments such as super_admin.
const AnyBusiness = "*"

var ErrInvalidRole = errors.New("invalid role")

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return slices.Contains(BusinessReadRoles, r)
}
