package album

import (
	"testing"

	"github.com/shaankhosla/gphotosreconcile/internal/assets"
)

func TestResolveAttachesMissedAlbumLabel(t *testing.T) {
	a := &assets.Asset{Files: map[string]string{assets.None: "/in/ALL_PHOTOS/img.jpg"}}
	col := assets.NewCollection([]*assets.Asset{a})

	listing := NewListing()
	listing.Add("Vacation", "img.jpg")

	Resolve(col, listing)

	if _, ok := a.Files["Vacation"]; !ok {
		t.Error("expected Vacation label to be attached")
	}
	if _, ok := a.Files[assets.None]; !ok {
		t.Error("expected None entry to be preserved outside nothing mode")
	}
}

func TestResolveDoesNotOverwriteExistingLabel(t *testing.T) {
	a := &assets.Asset{Files: map[string]string{
		assets.None: "/in/ALL_PHOTOS/img.jpg",
		"Vacation":  "/in/Vacation/img.jpg",
	}}
	col := assets.NewCollection([]*assets.Asset{a})

	listing := NewListing()
	listing.Add("Vacation", "img.jpg")

	Resolve(col, listing)

	if a.Files["Vacation"] != "/in/Vacation/img.jpg" {
		t.Errorf("expected existing label path preserved, got %q", a.Files["Vacation"])
	}
}

func TestEnforceNothingConflictRuleStripsAlbumLabelsWhenNonePresent(t *testing.T) {
	a := &assets.Asset{Files: map[string]string{
		assets.None: "/in/ALL_PHOTOS/img.jpg",
		"Vacation":  "/in/Vacation/img.jpg",
	}}
	col := assets.NewCollection([]*assets.Asset{a})

	EnforceNothingConflictRule(col)

	if _, ok := a.Files[assets.None]; !ok {
		t.Error("expected None entry to survive: it has a canonical copy outside any album")
	}
	if _, ok := a.Files["Vacation"]; ok {
		t.Error("expected album label to be stripped once moveNothing only materializes None")
	}
}

func TestEnforceNothingConflictRuleLeavesAlbumOnlyEntityUntouched(t *testing.T) {
	a := &assets.Asset{Files: map[string]string{"Vacation": "/in/Vacation/img.jpg"}}
	col := assets.NewCollection([]*assets.Asset{a})

	EnforceNothingConflictRule(col)

	if _, ok := a.Files[assets.None]; ok {
		t.Error("did not expect a None entry to appear")
	}
	if _, ok := a.Files["Vacation"]; !ok {
		t.Error("expected the album-only entity's label to remain (moveNothing drops it by finding no None entry)")
	}
}
