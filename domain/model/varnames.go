package model

import "fmt"

// Role identifies one of the seven fixed logical variables of the model.
type Role string

const (
	RoleMeanA     Role = "mean_a"
	RoleMeanB     Role = "mean_b"
	RoleSdA       Role = "sd_a"
	RoleSdB       Role = "sd_b"
	RoleNu        Role = "nu"
	RoleDiffMeans Role = "diff_means"
	RoleDiffSds   Role = "diff_sds"
)

// Roles lists the logical roles in canonical order. Reporting output
// follows this order.
var Roles = []Role{
	RoleMeanA, RoleMeanB, RoleSdA, RoleSdB, RoleNu, RoleDiffMeans, RoleDiffSds,
}

// VarNames maps the seven logical roles to externally visible variable
// names derived from the two sample labels. Built once at construction
// and never mutated; plotting and summary code addresses trace columns
// through this map rather than through fixed fields.
type VarNames struct {
	names map[Role]string
	order []string
}

// DeriveVarNames builds the name map for a pair of sample labels.
// Derivation is deterministic: identical labels yield identical maps.
func DeriveVarNames(labelA, labelB string) VarNames {
	names := map[Role]string{
		RoleMeanA:     fmt.Sprintf("%s_mean", labelA),
		RoleMeanB:     fmt.Sprintf("%s_mean", labelB),
		RoleSdA:       fmt.Sprintf("%s_sd", labelA),
		RoleSdB:       fmt.Sprintf("%s_sd", labelB),
		RoleNu:        "nu",
		RoleDiffMeans: "difference_of_means",
		RoleDiffSds:   "difference_of_sds",
	}
	order := make([]string, 0, len(Roles))
	for _, role := range Roles {
		order = append(order, names[role])
	}
	return VarNames{names: names, order: order}
}

// Name returns the external name for a logical role.
func (v VarNames) Name(role Role) string {
	return v.names[role]
}

// All returns the ordered list of the seven external variable names.
func (v VarNames) All() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Contains reports whether name is one of the seven model variables.
func (v VarNames) Contains(name string) bool {
	for _, n := range v.order {
		if n == name {
			return true
		}
	}
	return false
}
