package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"catalogue_back_end/internal/models"
	"catalogue_back_end/internal/store"
)

func seededStore() *store.MemoryStore {
	st := store.NewMemoryStore()
	st.Seed(store.Categories, "tools", map[string]any{"name": "Tools"})
	st.Seed(store.Categories, "bags", map[string]any{"name": "Bags"})
	st.Seed(store.Products, "p1", map[string]any{"name": "Wrench", "categoryRef": catRef("tools")})
	st.Seed(store.Products, "p2", map[string]any{"name": "Hammer", "categoryRef": catRef("tools")})
	st.Seed(store.Products, "p3", map[string]any{"name": "Tote", "category": "bags"})
	return st
}

func TestGetAllCategoriesSorted(t *testing.T) {
	cats := New(seededStore()).GetAllCategories(context.Background())
	if len(cats) != 2 || cats[0].Name != "Bags" || cats[1].Name != "Tools" {
		t.Fatalf("unexpected categories %+v", cats)
	}
}

func TestGetByIDFoundAndMissing(t *testing.T) {
	s := New(seededStore())
	ctx := context.Background()

	if c, ok := s.GetCategoryByID(ctx, "tools"); !ok || c.Name != "Tools" {
		t.Fatalf("expected tools, got %+v %v", c, ok)
	}
	if _, ok := s.GetCategoryByID(ctx, "nope"); ok {
		t.Fatal("missing category should not be found")
	}
	if p, ok := s.GetProductByID(ctx, "p1"); !ok || p.Category != "tools" {
		t.Fatalf("expected p1, got %+v %v", p, ok)
	}
	res := s.getProduct(ctx, "nope")
	if res.FallbackUsed || res.Value != nil {
		t.Fatalf("missing product is an empty answer, not a failure: %+v", res)
	}
}

func TestGetProductsByCategory(t *testing.T) {
	s := New(seededStore())
	ctx := context.Background()

	tools := s.GetProductsByCategory(ctx, "tools")
	if len(tools) != 2 || tools[0].Name != "Hammer" || tools[1].Name != "Wrench" {
		t.Fatalf("expected sorted ref matches, got %+v", tools)
	}
	bags := s.GetProductsByCategory(ctx, "bags")
	if len(bags) != 1 || bags[0].ID != "p3" {
		t.Fatalf("expected string field fallback, got %+v", bags)
	}
	if none := s.GetProductsByCategory(ctx, "ghost"); none == nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %#v", none)
	}
}

func TestReadsFallBackOnError(t *testing.T) {
	s := New(brokenStore{}, WithTimeouts(shortTimeouts()))
	ctx := context.Background()

	if cats := s.GetAllCategories(ctx); len(cats) != 3 {
		t.Fatalf("expected fallback categories, got %+v", cats)
	}
	if products := s.GetAllProducts(ctx); len(products) != 3 {
		t.Fatalf("expected fallback products, got %+v", products)
	}
	if p, ok := s.GetProductByID(ctx, "fallback-cnc-router"); !ok || p.Category != "machinery" {
		t.Fatalf("expected fallback product, got %+v %v", p, ok)
	}
	if _, ok := s.GetCategoryByID(ctx, "unknown"); ok {
		t.Fatal("unknown id has no fallback")
	}
	if in := s.GetProductsByCategory(ctx, "textiles"); len(in) != 1 {
		t.Fatalf("expected one fallback textile product, got %+v", in)
	}
}

func TestReadsTimeOutAndCancel(t *testing.T) {
	st := &hangingStore{}
	s := New(st, WithTimeouts(shortTimeouts()))

	start := time.Now()
	res := s.listProducts(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("read should give up quickly, took %s", elapsed)
	}
	if !res.FallbackUsed || !res.TimedOut {
		t.Fatalf("expected timed out fallback, got %+v", res)
	}
	if len(res.Value) != 3 {
		t.Fatalf("expected fallback products, got %d", len(res.Value))
	}

	deadline := time.Now().Add(time.Second)
	for st.cancellations() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if st.cancellations() == 0 {
		t.Fatal("abandoned store call should see its context cancelled")
	}
}

func TestFallbackIsNotShared(t *testing.T) {
	s := New(brokenStore{}, WithTimeouts(shortTimeouts()))
	ctx := context.Background()

	first := s.GetAllProducts(ctx)
	first[0].Name = "changed"
	first[0].Variations[0].Attributes[0].Value = "changed"

	second := s.GetAllProducts(ctx)
	if second[0].Name == "changed" || second[0].Variations[0].Attributes[0].Value == "changed" {
		t.Fatal("callers must not be able to alter the fallback data")
	}
}

func TestSubmissionsStampStatus(t *testing.T) {
	st := store.NewMemoryStore()
	n := &fakeNotifier{}
	s := New(st, WithNotifier(n))
	ctx := context.Background()

	cases := []struct {
		name       string
		add        func(context.Context, map[string]any) (string, bool)
		collection string
		stamp      string
		status     string
	}{
		{"lead", s.AddLead, store.Leads, models.FieldSubmittedAt, models.StatusNew},
		{"contact", s.AddContactForm, store.ContactForms, models.FieldSubmittedAt, models.StatusNew},
		{"catalogue", s.AddCatalogueRequest, store.CatalogueRequests, models.FieldRequestedAt, models.StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := map[string]any{"email": "x@example.com", "status": "spoofed"}
			id, ok := tc.add(ctx, fields)
			if !ok || id == "" {
				t.Fatalf("expected success, got %q %v", id, ok)
			}
			doc, err := st.Get(ctx, tc.collection, id)
			if err != nil {
				t.Fatal(err)
			}
			if doc.Data["status"] != tc.status {
				t.Fatalf("expected status %s, got %v", tc.status, doc.Data["status"])
			}
			if _, ok := doc.Data[tc.stamp].(time.Time); !ok {
				t.Fatalf("expected %s timestamp, got %T", tc.stamp, doc.Data[tc.stamp])
			}
			if doc.Data["email"] != "x@example.com" {
				t.Fatalf("caller fields should be stored, got %v", doc.Data)
			}
			if fields["status"] != "spoofed" {
				t.Fatal("caller map must not be modified")
			}
		})
	}
	if len(n.sent) != 3 || n.sent[2].kind != CatalogueRequestSubmission.Kind {
		t.Fatalf("expected three notifications, got %+v", n.sent)
	}
}

func TestSubmissionsFail(t *testing.T) {
	n := &fakeNotifier{}
	s := New(brokenStore{}, WithTimeouts(shortTimeouts()), WithNotifier(n))
	if id, ok := s.AddLead(context.Background(), map[string]any{"email": "x@example.com"}); ok || id != "" {
		t.Fatalf("expected failure, got %q %v", id, ok)
	}

	hs := &hangingStore{}
	s = New(hs, WithTimeouts(shortTimeouts()), WithNotifier(n))
	if _, ok := s.AddCatalogueRequest(context.Background(), map[string]any{}); ok {
		t.Fatal("hanging insert should fail")
	}
	if len(n.sent) != 0 {
		t.Fatalf("failed submissions must not notify, got %+v", n.sent)
	}
}

func TestProductMaintenance(t *testing.T) {
	st := store.NewMemoryStore()
	idx := &fakeIndex{}
	s := New(st, WithSearchIndex(idx))
	ctx := context.Background()

	id, ok := s.AddProduct(ctx, map[string]any{"name": "Drill", "categoryRef": "tools"})
	if !ok {
		t.Fatal("expected product creation")
	}
	doc, err := st.Get(ctx, store.Products, id)
	if err != nil {
		t.Fatal(err)
	}
	if ref, ok := doc.Data["categoryRef"].(store.Ref); !ok || ref != catRef("tools") {
		t.Fatalf("expected category reference, got %#v", doc.Data["categoryRef"])
	}
	if _, ok := doc.Data[FieldCreatedAt].(time.Time); !ok {
		t.Fatal("expected createdAt")
	}
	if len(idx.indexed) != 1 || idx.indexed[0].ID != id {
		t.Fatalf("new product should be indexed, got %+v", idx.indexed)
	}

	if !s.UpdateProduct(ctx, id, map[string]any{"name": "Cordless Drill"}) {
		t.Fatal("expected update")
	}
	if p, _ := s.GetProductByID(ctx, id); p.Name != "Cordless Drill" || p.Category != "tools" {
		t.Fatalf("unexpected product after update %+v", p)
	}
	if s.UpdateProduct(ctx, "ghost", map[string]any{"name": "x"}) {
		t.Fatal("updating a missing product should fail")
	}

	if !s.DeleteProduct(ctx, id) {
		t.Fatal("expected delete")
	}
	if s.DeleteProduct(ctx, id) {
		t.Fatal("second delete should report nothing deleted")
	}
	if len(idx.deleted) != 1 || idx.deleted[0] != id {
		t.Fatalf("deleted product should leave the index, got %+v", idx.deleted)
	}
}

func TestLoadFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fallback.yaml")
	content := `categories:
  - id: z
    name: Zinc
  - id: a
    name: Acier
products:
  - id: f1
    name: Tôle
    category: a
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := LoadFallback(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Categories) != 2 || f.Categories[0].ID != "a" {
		t.Fatalf("expected categories sorted by name, got %+v", f.Categories)
	}
	if f.Categories[0].Image != DefaultCategoryImage {
		t.Fatalf("expected default image, got %q", f.Categories[0].Image)
	}
	if p := f.Products[0]; p.Image != DefaultImage || p.Variations == nil {
		t.Fatalf("expected filled product defaults, got %+v", p)
	}

	s := New(brokenStore{}, WithTimeouts(shortTimeouts()), WithFallback(f))
	if products := s.GetProductsByCategory(context.Background(), "a"); len(products) != 1 {
		t.Fatalf("expected file fallback, got %+v", products)
	}

	if _, err := LoadFallback(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestCategoryRefWinsOverCategoryField(t *testing.T) {
	st := store.NewMemoryStore()
	st.Seed(store.Categories, "a", map[string]any{"name": "Alpha"})
	st.Seed(store.Categories, "b", map[string]any{"name": "Beta"})
	st.Seed(store.Products, "both", map[string]any{"name": "Both", "category": "b", "categoryRef": catRef("a")})
	s := New(st)
	ctx := context.Background()

	if p, ok := s.GetProductByID(ctx, "both"); !ok || p.Category != "a" {
		t.Fatalf("expected category a from the reference, got %+v %v", p, ok)
	}
	if got := s.GetProductsByCategory(ctx, "a"); len(got) != 1 || got[0].ID != "both" {
		t.Fatalf("expected the product under a, got %+v", got)
	}
	if got := s.GetProductsByCategory(ctx, "b"); len(got) != 0 {
		t.Fatalf("product referencing a must not be listed under b, got %+v", got)
	}
	g := s.GroupByCategory(ctx)
	if len(g.ByCategoryID["a"].Products) != 1 || len(g.ByCategoryID["b"].Products) != 0 {
		t.Fatalf("expected the product grouped under a only, got %+v", g.ByCategoryID)
	}
}

func TestListsKeepDocumentsWithoutName(t *testing.T) {
	st := seededStore()
	st.Seed(store.Categories, "misc", map[string]any{"description": "Various"})
	st.Seed(store.Products, "p4", map[string]any{"category": "misc"})
	s := New(st)
	ctx := context.Background()

	cats := s.GetAllCategories(ctx)
	if len(cats) != 3 || cats[2].ID != "misc" || cats[2].Name != DefaultCategoryName {
		t.Fatalf("expected the unnamed category sorted by its default name, got %+v", cats)
	}
	products := s.GetAllProducts(ctx)
	if len(products) != 4 || products[2].ID != "p4" || products[2].Name != DefaultProductName {
		t.Fatalf("expected the unnamed product sorted by its default name, got %+v", products)
	}
	g := s.GroupByCategory(ctx)
	if misc := g.ByCategoryID["misc"]; misc == nil || len(misc.Products) != 1 {
		t.Fatalf("expected the unnamed product grouped under misc, got %+v", misc)
	}
}
