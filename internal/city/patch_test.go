package city

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPatch_ReplaceBothFields(t *testing.T) {
	base := PointOfInterestUpdate{Name: "Old Name", Description: "Old description"}

	out, err := ApplyPatch(base, []PatchOperation{
		{Op: "replace", Path: "/name", Value: "New Name"},
		{Op: "replace", Path: "/description", Value: "New description"},
	})
	require.NoError(t, err)

	assert.Equal(t, "New Name", out.Name)
	assert.Equal(t, "New description", out.Description)
	// Base must be untouched
	assert.Equal(t, "Old Name", base.Name)
}

func TestApplyPatch_SetIsAliasForReplace(t *testing.T) {
	out, err := ApplyPatch(PointOfInterestUpdate{Name: "A"}, []PatchOperation{
		{Op: "set", Path: "/name", Value: "B"},
		{Op: "REPLACE", Path: "/description", Value: "d"},
	})
	require.NoError(t, err)
	assert.Equal(t, "B", out.Name)
	assert.Equal(t, "d", out.Description)
}

func TestApplyPatch_LastOperationWins(t *testing.T) {
	out, err := ApplyPatch(PointOfInterestUpdate{}, []PatchOperation{
		{Op: "replace", Path: "/name", Value: "first"},
		{Op: "replace", Path: "/name", Value: "second"},
	})
	require.NoError(t, err)
	assert.Equal(t, "second", out.Name)
}

func TestApplyPatch_UnknownOp(t *testing.T) {
	base := PointOfInterestUpdate{Name: "Keep"}
	out, err := ApplyPatch(base, []PatchOperation{
		{Op: "add", Path: "/name", Value: "x"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported op")
	assert.Equal(t, base, out)
}

func TestApplyPatch_UnknownPath(t *testing.T) {
	base := PointOfInterestUpdate{Name: "Keep"}
	out, err := ApplyPatch(base, []PatchOperation{
		{Op: "replace", Path: "/name", Value: "x"},
		{Op: "replace", Path: "/id", Value: "99"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported path")
	// A failing op anywhere in the sequence discards earlier ops too
	assert.Equal(t, base, out)
}

func TestApplyPatch_EmptySequence(t *testing.T) {
	base := PointOfInterestUpdate{Name: "Same", Description: "Same"}
	out, err := ApplyPatch(base, nil)
	require.NoError(t, err)
	assert.Equal(t, base, out)
}

func TestPointOfInterestUpdate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		update  PointOfInterestUpdate
		wantErr bool
		field   string
	}{
		{"valid", PointOfInterestUpdate{Name: "Eiffel Tower", Description: "Iron lattice"}, false, ""},
		{"empty name", PointOfInterestUpdate{Description: "d"}, true, "name"},
		{"whitespace name", PointOfInterestUpdate{Name: "   "}, true, "name"},
		{"name too long", PointOfInterestUpdate{Name: strings.Repeat("a", MaxNameLength+1)}, true, "name"},
		{"description too long", PointOfInterestUpdate{Name: "ok", Description: strings.Repeat("d", MaxDescriptionLength+1)}, true, "description"},
		{"max lengths exactly", PointOfInterestUpdate{Name: strings.Repeat("a", MaxNameLength), Description: strings.Repeat("d", MaxDescriptionLength)}, false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.update.Validate()
			if !tc.wantErr {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Equal(t, tc.field, errs[0].Field)
		})
	}
}

func TestUpdateOf_RoundTrip(t *testing.T) {
	poi := PointOfInterest{ID: 7, CityID: 3, Name: "Central Park", Description: "Big park"}

	u := UpdateOf(poi)
	u.Name = "Renamed Park"
	u.ApplyTo(&poi)

	assert.Equal(t, "Renamed Park", poi.Name)
	assert.Equal(t, "Big park", poi.Description)
	// Identity fields are never writable through an update
	assert.Equal(t, int64(7), poi.ID)
	assert.Equal(t, int64(3), poi.CityID)
}
