package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/Constellab/gws-biota-sub001/internal/infra/persistence/memory"
	"github.com/Constellab/gws-biota-sub001/internal/parse/brenda"
	"github.com/Constellab/gws-biota-sub001/internal/parse/rhea"
	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

func seedStore(t *testing.T, store *memory.Store, fn func(tx biota.Tx) error) {
	t.Helper()
	if err := store.RunInTransaction(context.Background(), fn); err != nil {
		t.Fatalf("seed store: %v", err)
	}
}

func TestRankProjectionGuardsAgainstCycles(t *testing.T) {
	store := memory.New()
	// A malformed dump where genus and species reference each other.
	seedStore(t, store, func(tx biota.Tx) error {
		return tx.InsertTaxa([]biota.Taxon{
			{TaxID: "10", Name: "Homo", Rank: "genus", AncestorTaxID: "20"},
			{TaxID: "20", Name: "Homo sapiens", Rank: "species", AncestorTaxID: "10"},
		})
	})

	store.View(func(tx biota.Tx) {
		taxon, ok := tx.FindTaxon("20")
		if !ok {
			t.Fatal("seed taxon missing")
		}
		ranks := rankProjection(tx, taxon)
		if ranks.Species != "20" || ranks.Genus != "10" {
			t.Errorf("ranks = %+v, want species 20 and genus 10", ranks)
		}
	})
}

func TestRankProjectionStopsAtSelfReferencingRoot(t *testing.T) {
	store := memory.New()
	seedStore(t, store, func(tx biota.Tx) error {
		return tx.InsertTaxa([]biota.Taxon{
			{TaxID: "1", Name: "root", Rank: "no rank", AncestorTaxID: "1"},
			{TaxID: "2", Name: "Bacteria", Rank: "superkingdom", AncestorTaxID: "1"},
		})
	})

	store.View(func(tx biota.Tx) {
		taxon, _ := tx.FindTaxon("2")
		ranks := rankProjection(tx, taxon)
		if ranks.Superkingdom != "2" {
			t.Errorf("ranks = %+v, want superkingdom 2", ranks)
		}
	})
}

func TestApplyBKMSSkipsUnknownECs(t *testing.T) {
	store := memory.New()
	metrics := newCaptureMetrics()
	svc := NewService(store, Sources{}, WithMetrics(metrics))

	seedStore(t, store, func(tx biota.Tx) error {
		return tx.InsertEnzymePathways([]biota.EnzymePathway{{ECNumber: "1.1.1.1"}})
	})
	err := store.RunInTransaction(context.Background(), func(tx biota.Tx) error {
		return svc.applyBKMS(tx, []brenda.BKMSRow{
			{
				ECNumber:           "1.1.1.1",
				BrendaPathwayName:  "ethanol degradation",
				KeggPathwayID:      "rn00010",
				KeggPathwayName:    "Glycolysis / Gluconeogenesis",
				MetacycPathwayID:   "PWY66-21",
				MetacycPathwayName: "ethanol degradation II",
			},
			{ECNumber: "9.9.9.9", BrendaPathwayName: "orphan pathway"},
		})
	})
	if err != nil {
		t.Fatalf("applyBKMS: %v", err)
	}

	rows := store.EnzymePathways()
	if len(rows) != 1 {
		t.Fatalf("enzyme pathway rows = %v, want 1", rows)
	}
	row := rows[0]
	if row.Brenda == nil || row.Brenda.Name != "ethanol degradation" {
		t.Errorf("brenda ref = %+v", row.Brenda)
	}
	if row.Kegg == nil || row.Kegg.ID != "rn00010" || row.Kegg.Name != "Glycolysis / Gluconeogenesis" {
		t.Errorf("kegg ref = %+v", row.Kegg)
	}
	if row.Metacyc == nil || row.Metacyc.ID != "PWY66-21" {
		t.Errorf("metacyc ref = %+v", row.Metacyc)
	}
	if got := metrics.skipped["enzyme/unmatched_bkms_ec"]; got != 1 {
		t.Errorf("unmatched bkms ecs = %d, want 1", got)
	}
}

func TestApplyDirectionsSkipsUnloadedVariants(t *testing.T) {
	store := memory.New()
	metrics := newCaptureMetrics()
	svc := NewService(store, Sources{}, WithMetrics(metrics))

	seedStore(t, store, func(tx biota.Tx) error {
		return tx.InsertReactions([]biota.Reaction{
			{RheaID: "10000", Direction: biota.DirectionUndefined},
			{RheaID: "10001", Direction: biota.DirectionUndefined},
		})
	})
	err := store.RunInTransaction(context.Background(), func(tx biota.Tx) error {
		return svc.applyDirections(tx, []rhea.DirectionRow{
			{Master: "10000", LR: "10001", RL: "10002", BI: "10003"},
		})
	})
	if err != nil {
		t.Fatalf("applyDirections: %v", err)
	}

	store.View(func(tx biota.Tx) {
		variant, _ := tx.FindReaction("10001")
		if variant.Direction != biota.DirectionLeftToRight {
			t.Errorf("variant direction = %s", variant.Direction)
		}
		if variant.MasterID != "10000" {
			t.Errorf("variant master = %q", variant.MasterID)
		}
	})
	// Two missing bucket entries plus two missing master stamps.
	if got := metrics.skipped["reaction/unresolved_direction"]; got != 4 {
		t.Errorf("unresolved direction rows = %d, want 4", got)
	}
}

func TestApplyXrefsRejectsUnknownTable(t *testing.T) {
	store := memory.New()
	svc := NewService(store, Sources{})

	seedStore(t, store, func(tx biota.Tx) error {
		return tx.InsertReactions([]biota.Reaction{{RheaID: "10000"}})
	})
	err := store.RunInTransaction(context.Background(), func(tx biota.Tx) error {
		return svc.applyXrefs(tx, "bogus", []rhea.XrefRow{{RheaID: "10000", ID: "X1"}})
	})
	if err == nil || !strings.Contains(err.Error(), `unknown xref table "bogus"`) {
		t.Fatalf("applyXrefs error = %v", err)
	}
}

func TestApplyXrefsAppendsBiocycWithoutDeduplication(t *testing.T) {
	store := memory.New()
	svc := NewService(store, Sources{})

	seedStore(t, store, func(tx biota.Tx) error {
		return tx.InsertReactions([]biota.Reaction{{RheaID: "10000"}})
	})
	err := store.RunInTransaction(context.Background(), func(tx biota.Tx) error {
		rows := []rhea.XrefRow{
			{RheaID: "10000", ID: "RXN-1"},
			{RheaID: "10000", ID: "RXN-1"},
		}
		return svc.applyXrefs(tx, "metacyc", rows)
	})
	if err != nil {
		t.Fatalf("applyXrefs: %v", err)
	}

	store.View(func(tx biota.Tx) {
		reaction, _ := tx.FindReaction("10000")
		if len(reaction.BiocycIDs) != 2 {
			t.Errorf("biocyc ids = %v, want repeated entries kept", reaction.BiocycIDs)
		}
	})
}

func TestLinkEnzymeTissuesResolvesAgainstLoadedTerms(t *testing.T) {
	store := memory.New()
	metrics := newCaptureMetrics()
	svc := NewService(store, Sources{}, WithMetrics(metrics))

	var stored []biota.Enzyme
	seedStore(t, store, func(tx biota.Tx) error {
		err := tx.InsertTerms(biota.EntityBTO, []biota.Term{
			{SourceID: "BTO:0000142", Name: "liver"},
		})
		if err != nil {
			return err
		}
		stored, err = tx.InsertEnzymes([]biota.Enzyme{{
			ECNumber: "1.1.1.1",
			Organism: "Homo sapiens",
			Params: []biota.Parameter{{
				Code: "ST",
				Measurements: []biota.Measurement{
					{Value: "liver", Comment: "cells from BTO:0000142"},
					{Value: "kidney", Comment: "in BTO:9999999"},
				},
			}},
		}})
		return err
	})

	err := store.RunInTransaction(context.Background(), func(tx biota.Tx) error {
		return svc.linkEnzymeTissues(tx, stored)
	})
	if err != nil {
		t.Fatalf("linkEnzymeTissues: %v", err)
	}

	rows := store.EnzymeTissues()
	if len(rows) != 1 || rows[0].BTOID != "BTO:0000142" || rows[0].EnzymeID != stored[0].ID {
		t.Errorf("tissue rows = %v", rows)
	}
	store.View(func(tx biota.Tx) {
		enzymes := tx.EnzymesByEC("1.1.1.1")
		if len(enzymes) != 1 || len(enzymes[0].TissueIDs) != 1 {
			t.Errorf("enzyme tissue ids = %+v", enzymes)
		}
	})
	if got := metrics.skipped["enzyme/unresolved_tissue"]; got != 1 {
		t.Errorf("unresolved tissue refs = %d, want 1", got)
	}
}
