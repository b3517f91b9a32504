package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

func TestTransactionCommitsAtomically(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx biota.Tx) error {
		return tx.InsertTerms(biota.EntityGO, []biota.Term{
			{SourceID: "GO:0000001", Name: "mitochondrion inheritance"},
		})
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	boom := errors.New("boom")
	err = store.RunInTransaction(ctx, func(tx biota.Tx) error {
		if err := tx.InsertTerms(biota.EntityGO, []biota.Term{{SourceID: "GO:0000002"}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected rollback error, got %v", err)
	}

	counts, err := store.Counts(ctx, biota.EntityGO)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[biota.EntityGO] != 1 {
		t.Fatalf("rolled-back row leaked: count = %d", counts[biota.EntityGO])
	}
}

func TestResetDropsOnlyListedKinds(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx biota.Tx) error {
		if err := tx.InsertTerms(biota.EntityGO, []biota.Term{{SourceID: "GO:0000001"}}); err != nil {
			return err
		}
		return tx.InsertTaxa([]biota.Taxon{{TaxID: "9606", Name: "Homo sapiens", AncestorTaxID: "9605"}})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := store.Reset(ctx, biota.EntityGO); err != nil {
		t.Fatalf("reset: %v", err)
	}
	counts, err := store.Counts(ctx, biota.EntityGO, biota.EntityTaxon)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[biota.EntityGO] != 0 {
		t.Fatalf("go survived reset: %d", counts[biota.EntityGO])
	}
	if counts[biota.EntityTaxon] != 1 {
		t.Fatalf("taxon dropped by unrelated reset: %d", counts[biota.EntityTaxon])
	}
}

func TestEnzymeInsertAssignsDistinctIDs(t *testing.T) {
	store := New()
	ctx := context.Background()

	var stored []biota.Enzyme
	err := store.RunInTransaction(ctx, func(tx biota.Tx) error {
		var err error
		stored, err = tx.InsertEnzymes([]biota.Enzyme{
			{ECNumber: "1.1.1.1", Organism: "Homo sapiens"},
			{ECNumber: "1.1.1.1", Organism: "Mus musculus"},
		})
		return err
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d rows, want 2", len(stored))
	}
	if stored[0].ID == "" || stored[0].ID == stored[1].ID {
		t.Fatalf("ids not distinct: %q vs %q", stored[0].ID, stored[1].ID)
	}

	store.View(func(tx biota.Tx) {
		if got := tx.EnzymesByEC("1.1.1.1"); len(got) != 2 {
			t.Fatalf("EnzymesByEC returned %d rows, want 2", len(got))
		}
	})
}

func TestTaxonNameLookup(t *testing.T) {
	store := New()
	ctx := context.Background()

	err := store.RunInTransaction(ctx, func(tx biota.Tx) error {
		return tx.InsertTaxa([]biota.Taxon{
			{TaxID: "9606", Name: "Homo sapiens", Rank: "species", AncestorTaxID: "9605"},
		})
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	store.View(func(tx biota.Tx) {
		taxon, ok := tx.FindTaxonByName("Homo sapiens")
		if !ok || taxon.TaxID != "9606" {
			t.Fatalf("lookup by name failed: %+v ok=%v", taxon, ok)
		}
		if _, ok := tx.FindTaxonByName("Homo neanderthalensis"); ok {
			t.Fatal("unknown name resolved")
		}
	})
}

func TestUpdateMissingRowReturnsNotFound(t *testing.T) {
	store := New()
	err := store.RunInTransaction(context.Background(), func(tx biota.Tx) error {
		return tx.UpdateReaction("99999", func(*biota.Reaction) error { return nil })
	})
	var notFound biota.ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if notFound.Kind != biota.EntityReaction {
		t.Fatalf("wrong kind: %s", notFound.Kind)
	}
}

func TestCompoundLookupThroughTermInterface(t *testing.T) {
	store := New()
	err := store.RunInTransaction(context.Background(), func(tx biota.Tx) error {
		err := tx.InsertCompounds([]biota.Compound{{
			Term:    biota.Term{SourceID: "CHEBI:15377", Name: "water"},
			ChEBIID: "CHEBI:15377",
			Formula: "H2O",
		}})
		if err != nil {
			return err
		}
		if !tx.HasTerm(biota.EntityCompound, "CHEBI:15377") {
			t.Fatal("HasTerm misses staged compound")
		}
		term, ok := tx.FindTerm(biota.EntityCompound, "CHEBI:15377")
		if !ok || term.Name != "water" {
			t.Fatalf("FindTerm: %+v ok=%v", term, ok)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}
}

func TestManifestsRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()
	manifest := biota.Manifest{RunID: "run-1", Counts: map[biota.EntityKind]int{biota.EntityGO: 3}}
	if err := store.PutManifest(ctx, manifest); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Manifests(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].RunID != "run-1" {
		t.Fatalf("unexpected manifests: %+v", got)
	}
}

func TestClosedStoreRefusesWork(t *testing.T) {
	store := New()
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Reset(context.Background(), biota.EntityGO); err == nil {
		t.Fatal("reset succeeded on closed store")
	}
}
