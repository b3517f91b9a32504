package ingest

import (
	"testing"

	"github.com/Constellab/gws-biota-sub001/internal/infra/persistence/memory"
	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

func TestSelectNewEnzymesFollowsTransferChain(t *testing.T) {
	store := memory.New()
	seedStore(t, store, func(tx biota.Tx) error {
		if _, err := tx.InsertEnzymes([]biota.Enzyme{{ECNumber: "1.1.1.3", Organism: "Homo sapiens"}}); err != nil {
			return err
		}
		return tx.InsertDeprecatedEnzymes([]biota.DeprecatedEnzyme{
			{OldEC: "1.1.1.1", NewECs: []string{"1.1.1.2"}, Reason: "transferred to EC 1.1.1.2"},
			{OldEC: "1.1.1.2", NewECs: []string{"1.1.1.3"}, Reason: "transferred to EC 1.1.1.3"},
		})
	})

	store.View(func(tx biota.Tx) {
		live := SelectNewEnzymes(tx, "1.1.1.1")
		if len(live) != 1 || live[0].ECNumber != "1.1.1.3" {
			t.Errorf("resolved enzymes = %+v, want the 1.1.1.3 row", live)
		}
	})
}

func TestSelectNewEnzymesPrefersLiveRows(t *testing.T) {
	store := memory.New()
	seedStore(t, store, func(tx biota.Tx) error {
		if _, err := tx.InsertEnzymes([]biota.Enzyme{{ECNumber: "1.1.1.1", Organism: "Homo sapiens"}}); err != nil {
			return err
		}
		// A stale deprecation record must not shadow the live rows.
		return tx.InsertDeprecatedEnzymes([]biota.DeprecatedEnzyme{
			{OldEC: "1.1.1.1", NewECs: []string{"1.1.1.2"}},
		})
	})

	store.View(func(tx biota.Tx) {
		live := SelectNewEnzymes(tx, "1.1.1.1")
		if len(live) != 1 || live[0].ECNumber != "1.1.1.1" {
			t.Errorf("resolved enzymes = %+v, want the live 1.1.1.1 row", live)
		}
	})
}

func TestSelectNewEnzymesSurvivesTransferCycles(t *testing.T) {
	store := memory.New()
	seedStore(t, store, func(tx biota.Tx) error {
		return tx.InsertDeprecatedEnzymes([]biota.DeprecatedEnzyme{
			{OldEC: "1.1.1.1", NewECs: []string{"1.1.1.2"}},
			{OldEC: "1.1.1.2", NewECs: []string{"1.1.1.1"}},
		})
	})

	store.View(func(tx biota.Tx) {
		if live := SelectNewEnzymes(tx, "1.1.1.1"); len(live) != 0 {
			t.Errorf("cycle resolved to %+v, want nothing", live)
		}
	})
}

func TestSelectNewEnzymesResolvesDeletionsToNothing(t *testing.T) {
	store := memory.New()
	seedStore(t, store, func(tx biota.Tx) error {
		return tx.InsertDeprecatedEnzymes([]biota.DeprecatedEnzyme{
			{OldEC: "3.4.2.1", Reason: "deleted"},
		})
	})

	store.View(func(tx biota.Tx) {
		if live := SelectNewEnzymes(tx, "3.4.2.1"); len(live) != 0 {
			t.Errorf("deleted EC resolved to %+v", live)
		}
		if live := SelectNewEnzymes(tx, "9.9.9.9"); len(live) != 0 {
			t.Errorf("unknown EC resolved to %+v", live)
		}
	})
}
