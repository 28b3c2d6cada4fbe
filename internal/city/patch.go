package city

import (
	"fmt"
	"strings"

	"github.com/mbd888/cityinfo/internal/validation"
)

// PatchOperation is one field-level operation in a PATCH request body.
// The operation set is closed: a point of interest has exactly two writable
// scalar fields, so only set/replace semantics exist. There is no
// add/remove/move/copy.
type PatchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

// PointOfInterestUpdate is a point of interest projected onto its
// caller-writable fields. PUT binds one directly; PATCH builds one from the
// stored entity and applies operations to it.
type PointOfInterestUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateOf projects a stored entity into its partial-update representation.
func UpdateOf(poi PointOfInterest) PointOfInterestUpdate {
	return PointOfInterestUpdate{Name: poi.Name, Description: poi.Description}
}

// ApplyTo copies the candidate values onto the tracked entity. Call only
// after Validate passed; persistence still requires staging the update and
// committing the repository.
func (u PointOfInterestUpdate) ApplyTo(poi *PointOfInterest) {
	poi.Name = u.Name
	poi.Description = u.Description
}

// Validate checks the field constraints shared by create, full update, and
// patch: name required and at most 50 chars, description at most 200 chars.
func (u PointOfInterestUpdate) Validate() validation.ValidationErrors {
	return validation.Validate(
		validation.Required("name", u.Name),
		validation.MaxLength("name", u.Name, MaxNameLength),
		validation.MaxLength("description", u.Description, MaxDescriptionLength),
	)
}

// ApplyPatch applies an ordered sequence of operations to a base
// representation and returns the candidate result. An unknown op or path
// fails the whole patch; the base is never modified. Callers validate the
// candidate afterwards so a late validation failure cannot leave a partial
// field commit.
func ApplyPatch(base PointOfInterestUpdate, ops []PatchOperation) (PointOfInterestUpdate, error) {
	out := base
	for i, op := range ops {
		switch strings.ToLower(op.Op) {
		case "replace", "set":
		default:
			return base, fmt.Errorf("operation %d: unsupported op %q", i, op.Op)
		}
		switch op.Path {
		case "/name":
			out.Name = op.Value
		case "/description":
			out.Description = op.Value
		default:
			return base, fmt.Errorf("operation %d: unsupported path %q", i, op.Path)
		}
	}
	return out, nil
}
