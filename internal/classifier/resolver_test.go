package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/fenilsonani/declutter/internal/catalog"
	"github.com/fenilsonani/declutter/internal/testutil"
)

// =============================================================================
// Resolve
// =============================================================================

func TestResolveRulesFirst(t *testing.T) {
	rules := []Rule{
		{Type: RuleKeyword, Pattern: "invoice", Category: catalog.CategoryDocuments},
	}
	fake := &testutil.FakeClassifier{Response: map[string]catalog.Category{}}
	resolver := NewResolver(rules, fake)

	ruled := record("invoice-07.png")
	if err := resolver.Resolve(testutil.Ctx(), []*catalog.FileRecord{ruled}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if ruled.Category != catalog.CategoryDocuments {
		t.Errorf("Category = %q, want Documents from rule", ruled.Category)
	}
	if len(fake.Calls) != 0 {
		t.Error("rule-resolved files must not reach the external classifier")
	}
}

func TestResolveBatchesUnknownNames(t *testing.T) {
	fake := &testutil.FakeClassifier{Response: map[string]catalog.Category{
		"thesis-draft": catalog.CategoryDocuments,
	}}
	resolver := NewResolver(nil, fake)

	a := record("thesis-draft")
	b := record("holiday.mp4")
	if err := resolver.Resolve(testutil.Ctx(), []*catalog.FileRecord{a, b}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if len(fake.Calls) != 1 {
		t.Fatalf("got %d remote calls, want 1 batch", len(fake.Calls))
	}
	if len(fake.Calls[0]) != 2 {
		t.Errorf("batch had %d names, want 2", len(fake.Calls[0]))
	}
	if a.Category != catalog.CategoryDocuments {
		t.Errorf("a.Category = %q, want Documents from remote", a.Category)
	}
	if b.Category != catalog.CategoryVideos {
		t.Errorf("b.Category = %q, want Videos from fallback", b.Category)
	}
}

func TestResolveRemoteFailureFallsBack(t *testing.T) {
	fake := &testutil.FakeClassifier{Err: errors.New("api down")}
	resolver := NewResolver(nil, fake)

	installer := record("setup.exe")
	mystery := record("notes")
	if err := resolver.Resolve(testutil.Ctx(), []*catalog.FileRecord{installer, mystery}); err != nil {
		t.Fatalf("remote failure must not surface, got %v", err)
	}
	if installer.Category != catalog.CategoryInstallers {
		t.Errorf("setup.exe = %q, want Installers from fallback", installer.Category)
	}
	if mystery.Category != catalog.CategoryUnknown {
		t.Errorf("notes = %q, want Unknown", mystery.Category)
	}
}

func TestResolveNilRemote(t *testing.T) {
	resolver := NewResolver(nil, nil)

	r := record("track.mp3")
	if err := resolver.Resolve(testutil.Ctx(), []*catalog.FileRecord{r}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Category != catalog.CategoryAudio {
		t.Errorf("Category = %q, want Audio", r.Category)
	}
}

func TestResolveDropsInvalidRemoteLabels(t *testing.T) {
	fake := &testutil.FakeClassifier{Response: map[string]catalog.Category{
		"weird.bin": catalog.Category("Binaries"),
	}}
	resolver := NewResolver(nil, fake)

	r := record("weird.bin")
	if err := resolver.Resolve(testutil.Ctx(), []*catalog.FileRecord{r}); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Category != catalog.CategoryUnknown {
		t.Errorf("Category = %q, want Unknown after dropping invalid label", r.Category)
	}
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := NewResolver(nil, &testutil.FakeClassifier{})
	err := resolver.Resolve(ctx, []*catalog.FileRecord{record("a.bin")})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// =============================================================================
// Reclassify
// =============================================================================

func TestReclassifySkipsManual(t *testing.T) {
	fake := &testutil.FakeClassifier{Response: map[string]catalog.Category{
		"a.bin": catalog.CategoryArchives,
		"b.bin": catalog.CategoryArchives,
	}}
	resolver := NewResolver(nil, fake)

	manual := record("a.bin")
	manual.Category = catalog.CategoryDocuments
	manual.ManuallySet = true
	auto := record("b.bin")

	if err := resolver.Reclassify(testutil.Ctx(), []*catalog.FileRecord{manual, auto}, false); err != nil {
		t.Fatalf("Reclassify: %v", err)
	}
	if manual.Category != catalog.CategoryDocuments || !manual.ManuallySet {
		t.Error("manual override must survive an unforced reclassify")
	}
	if auto.Category != catalog.CategoryArchives {
		t.Errorf("auto.Category = %q, want Archives", auto.Category)
	}
}

func TestReclassifyForceOverwritesManual(t *testing.T) {
	fake := &testutil.FakeClassifier{Response: map[string]catalog.Category{
		"a.bin": catalog.CategoryArchives,
	}}
	resolver := NewResolver(nil, fake)

	manual := record("a.bin")
	manual.Category = catalog.CategoryDocuments
	manual.ManuallySet = true

	if err := resolver.Reclassify(testutil.Ctx(), []*catalog.FileRecord{manual}, true); err != nil {
		t.Fatalf("Reclassify: %v", err)
	}
	if manual.Category != catalog.CategoryArchives {
		t.Errorf("Category = %q, want Archives from forced remote", manual.Category)
	}
	if manual.ManuallySet {
		t.Error("forced reclassify must clear the manual flag")
	}
}

func TestReclassifyRemoteFailureFallsBack(t *testing.T) {
	fake := &testutil.FakeClassifier{Err: errors.New("timeout")}
	resolver := NewResolver(nil, fake)

	r := record("archive.rar")
	r.Category = catalog.CategoryUnknown

	if err := resolver.Reclassify(testutil.Ctx(), []*catalog.FileRecord{r}, false); err != nil {
		t.Fatalf("Reclassify: %v", err)
	}
	if r.Category != catalog.CategoryArchives {
		t.Errorf("Category = %q, want Archives from fallback", r.Category)
	}
}
