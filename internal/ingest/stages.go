package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/Constellab/gws-biota-sub001/internal/correct"
	"github.com/Constellab/gws-biota-sub001/internal/parse/brenda"
	"github.com/Constellab/gws-biota-sub001/internal/parse/bto"
	"github.com/Constellab/gws-biota-sub001/internal/parse/obo"
	"github.com/Constellab/gws-biota-sub001/internal/parse/reactome"
	"github.com/Constellab/gws-biota-sub001/internal/parse/rhea"
	"github.com/Constellab/gws-biota-sub001/internal/parse/taxdump"
	"github.com/Constellab/gws-biota-sub001/internal/parse/uniprot"
	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// Every stage parses its sources completely before touching the store, so a
// malformed input never leaves a kind's tables dropped but unfilled.

// LoadECO loads the evidence ontology after normalizing its citation lists.
func (s *Service) LoadECO(ctx context.Context, _ biota.BuildContext) error {
	return s.loadOBO(ctx, biota.EntityECO, s.sources.ECO, correct.ECO)
}

// LoadGO loads the gene ontology. GO releases parse as shipped.
func (s *Service) LoadGO(ctx context.Context, _ biota.BuildContext) error {
	return s.loadOBO(ctx, biota.EntityGO, s.sources.GO, nil)
}

// LoadSBO loads the systems-biology ontology after repairing its synonym
// scopes and dropping its malformed property values.
func (s *Service) LoadSBO(ctx context.Context, _ biota.BuildContext) error {
	return s.loadOBO(ctx, biota.EntitySBO, s.sources.SBO, correct.SBO)
}

func (s *Service) loadOBO(ctx context.Context, kind biota.EntityKind, path string, corrector func(string) (string, error)) error {
	if corrector != nil {
		corrected, err := corrector(path)
		if err != nil {
			return fmt.Errorf("correct %s source: %w", kind, err)
		}
		path = corrected
	}
	doc, err := obo.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse %s source: %w", kind, err)
	}
	return s.loadTerms(ctx, kind, obo.Terms(doc))
}

// LoadBTO loads the tissue ontology from its JSON export. Its ancestor lists
// arrive as full transitive chains and are persisted as-is.
func (s *Service) LoadBTO(ctx context.Context, _ biota.BuildContext) error {
	terms, err := bto.ParseFile(s.sources.BTO)
	if err != nil {
		return fmt.Errorf("parse bto source: %w", err)
	}
	return s.loadTerms(ctx, biota.EntityBTO, terms)
}

func (s *Service) loadTerms(ctx context.Context, kind biota.EntityKind, terms []biota.Term) error {
	if err := s.store.Reset(ctx, kind); err != nil {
		return fmt.Errorf("reset %s tables: %w", kind, err)
	}
	return s.store.RunInTransaction(ctx, func(tx biota.Tx) error {
		err := insertChunked(terms, s.batch.Records, func(chunk []biota.Term) error {
			return tx.InsertTerms(kind, chunk)
		})
		if err != nil {
			return fmt.Errorf("insert %s terms: %w", kind, err)
		}
		s.metrics.AddRows(string(kind), "terms", len(terms))
		return s.closeAncestors(tx, kind, terms)
	})
}

func (s *Service) closeAncestors(tx biota.Tx, kind biota.EntityKind, terms []biota.Term) error {
	ont, ok := biota.OntologyFor(kind)
	if !ok || !ont.HasAncestors {
		return nil
	}
	written, skipped, err := s.materializeAncestors(tx, kind, terms)
	if err != nil {
		return err
	}
	s.metrics.AddRows(string(kind), "ancestors", written)
	if skipped > 0 {
		s.metrics.AddSkipped(string(kind), "unresolved_ancestor", skipped)
		s.log.Warnf("%s: %d ancestor references did not resolve", kind, skipped)
	}
	return nil
}

// LoadCompounds loads ChEBI chemical entities, first rewriting the xref
// values that upstream ships with embedded spaces.
func (s *Service) LoadCompounds(ctx context.Context, _ biota.BuildContext) error {
	path, err := correct.ChEBI(s.sources.ChEBI)
	if err != nil {
		return fmt.Errorf("correct chebi source: %w", err)
	}
	doc, err := obo.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parse chebi source: %w", err)
	}
	compounds := obo.Compounds(doc)
	if err := s.store.Reset(ctx, biota.EntityCompound); err != nil {
		return fmt.Errorf("reset compound tables: %w", err)
	}
	return s.store.RunInTransaction(ctx, func(tx biota.Tx) error {
		err := insertChunked(compounds, s.batch.Records, tx.InsertCompounds)
		if err != nil {
			return fmt.Errorf("insert compounds: %w", err)
		}
		s.metrics.AddRows(string(biota.EntityCompound), "compounds", len(compounds))
		terms := make([]biota.Term, len(compounds))
		for i := range compounds {
			terms[i] = compounds[i].Term
		}
		return s.closeAncestors(tx, biota.EntityCompound, terms)
	})
}

// LoadPathways loads Reactome pathways plus their hierarchy and
// compound-membership association rows. Relation and membership rows naming
// an unloaded pathway or compound are dropped and counted.
func (s *Service) LoadPathways(ctx context.Context, _ biota.BuildContext) error {
	pathways, err := reactome.ParsePathwaysFile(s.sources.ReactomePathways)
	if err != nil {
		return fmt.Errorf("parse reactome pathways: %w", err)
	}
	relations, err := reactome.ParseRelationsFile(s.sources.ReactomeRelations)
	if err != nil {
		return fmt.Errorf("parse reactome relations: %w", err)
	}
	members, err := reactome.ParseCompoundPathwaysFile(s.sources.ReactomeCompounds)
	if err != nil {
		return fmt.Errorf("parse reactome compound pathways: %w", err)
	}
	if err := s.store.Reset(ctx, biota.EntityPathway); err != nil {
		return fmt.Errorf("reset pathway tables: %w", err)
	}
	const kind = string(biota.EntityPathway)
	return s.store.RunInTransaction(ctx, func(tx biota.Tx) error {
		if err := insertChunked(pathways, s.batch.Records, tx.InsertPathways); err != nil {
			return fmt.Errorf("insert pathways: %w", err)
		}
		s.metrics.AddRows(kind, "pathways", len(pathways))

		kept := relations[:0:0]
		skipped := 0
		for _, rel := range relations {
			if _, ok := tx.FindPathway(rel.PathwayID); !ok {
				skipped++
				continue
			}
			if _, ok := tx.FindPathway(rel.AncestorID); !ok {
				skipped++
				continue
			}
			kept = append(kept, rel)
		}
		if err := insertChunked(kept, s.batch.Edges, tx.InsertPathwayAncestors); err != nil {
			return fmt.Errorf("insert pathway ancestors: %w", err)
		}
		s.metrics.AddRows(kind, "ancestors", len(kept))
		if skipped > 0 {
			s.metrics.AddSkipped(kind, "unresolved_relation", skipped)
		}

		keptMembers := members[:0:0]
		skipped = 0
		for _, m := range members {
			if _, ok := tx.FindPathway(m.PathwayID); !ok {
				skipped++
				continue
			}
			if _, ok := tx.FindCompound(m.ChEBIID); !ok {
				skipped++
				continue
			}
			keptMembers = append(keptMembers, m)
		}
		if err := insertChunked(keptMembers, s.batch.Records, tx.InsertPathwayCompounds); err != nil {
			return fmt.Errorf("insert pathway compounds: %w", err)
		}
		s.metrics.AddRows(kind, "compound_members", len(keptMembers))
		if skipped > 0 {
			s.metrics.AddSkipped(kind, "unresolved_member", skipped)
		}
		return nil
	})
}

// LoadTaxonomy loads the NCBI taxdump.
func (s *Service) LoadTaxonomy(ctx context.Context, _ biota.BuildContext) error {
	taxa, err := taxdump.ParseDir(s.sources.TaxdumpDir)
	if err != nil {
		return fmt.Errorf("parse taxdump: %w", err)
	}
	if err := s.store.Reset(ctx, biota.EntityTaxon); err != nil {
		return fmt.Errorf("reset taxon tables: %w", err)
	}
	return s.store.RunInTransaction(ctx, func(tx biota.Tx) error {
		if err := insertChunked(taxa, s.batch.Records, tx.InsertTaxa); err != nil {
			return fmt.Errorf("insert taxa: %w", err)
		}
		s.metrics.AddRows(string(biota.EntityTaxon), "taxa", len(taxa))
		return nil
	})
}

// LoadProteins loads UniProt records from FASTA.
func (s *Service) LoadProteins(ctx context.Context, _ biota.BuildContext) error {
	proteins, err := uniprot.ParseFile(s.sources.Uniprot)
	if err != nil {
		return fmt.Errorf("parse uniprot source: %w", err)
	}
	if err := s.store.Reset(ctx, biota.EntityProtein); err != nil {
		return fmt.Errorf("reset protein tables: %w", err)
	}
	return s.store.RunInTransaction(ctx, func(tx biota.Tx) error {
		if err := insertChunked(proteins, s.batch.Records, tx.InsertProteins); err != nil {
			return fmt.Errorf("insert proteins: %w", err)
		}
		s.metrics.AddRows(string(biota.EntityProtein), "proteins", len(proteins))
		return nil
	})
}

// LoadEnzymes loads BRENDA enzyme records, deprecated EC records, and the
// per-EC pathway rows, then resolves tissue and taxonomy references and
// applies the BKMS pathway enrichment. Tissue, taxonomy, and pathway data
// must already be loaded: enzymes are the join point between them.
func (s *Service) LoadEnzymes(ctx context.Context, _ biota.BuildContext) error {
	err := s.requireLoaded(ctx, biota.EntityEnzyme,
		biota.EntityBTO, biota.EntityTaxon, biota.EntityPathway)
	if err != nil {
		return err
	}
	entries, deprecated, err := brenda.ParseFile(s.sources.Brenda)
	if err != nil {
		return fmt.Errorf("parse brenda source: %w", err)
	}
	var bkmsRows []brenda.BKMSRow
	if s.sources.BKMS != "" {
		if bkmsRows, err = brenda.ParseBKMSFile(s.sources.BKMS); err != nil {
			return fmt.Errorf("parse bkms table: %w", err)
		}
	}
	enzymes := brenda.Enzymes(entries)
	err = s.store.Reset(ctx, biota.EntityEnzyme, biota.EntityDeprecatedEnzyme, biota.EntityEnzymePathway)
	if err != nil {
		return fmt.Errorf("reset enzyme tables: %w", err)
	}
	const kind = string(biota.EntityEnzyme)
	return s.store.RunInTransaction(ctx, func(tx biota.Tx) error {
		stored := make([]biota.Enzyme, 0, len(enzymes))
		err := insertChunked(enzymes, s.batch.Records, func(chunk []biota.Enzyme) error {
			rows, err := tx.InsertEnzymes(chunk)
			if err != nil {
				return err
			}
			stored = append(stored, rows...)
			return nil
		})
		if err != nil {
			return fmt.Errorf("insert enzymes: %w", err)
		}
		s.metrics.AddRows(kind, "enzymes", len(stored))

		if err := insertChunked(deprecated, s.batch.Records, tx.InsertDeprecatedEnzymes); err != nil {
			return fmt.Errorf("insert deprecated enzymes: %w", err)
		}
		s.metrics.AddRows(kind, "deprecated", len(deprecated))

		pathwayRows := enzymePathwaySeeds(entries)
		if err := insertChunked(pathwayRows, s.batch.Records, tx.InsertEnzymePathways); err != nil {
			return fmt.Errorf("insert enzyme pathways: %w", err)
		}
		s.metrics.AddRows(kind, "enzyme_pathways", len(pathwayRows))

		if err := s.linkEnzymeTissues(tx, stored); err != nil {
			return err
		}
		if err := s.denormalizeEnzymeTaxa(tx, stored); err != nil {
			return err
		}
		return s.applyBKMS(tx, bkmsRows)
	})
}

// enzymePathwaySeeds emits one empty pathway row per distinct live EC, in
// first-seen order, for BKMS enrichment to fill.
func enzymePathwaySeeds(entries []brenda.Entry) []biota.EnzymePathway {
	seen := make(map[string]struct{}, len(entries))
	var rows []biota.EnzymePathway
	for _, e := range entries {
		if e.EC == "" {
			continue
		}
		if _, dup := seen[e.EC]; dup {
			continue
		}
		seen[e.EC] = struct{}{}
		rows = append(rows, biota.EnzymePathway{ECNumber: e.EC})
	}
	return rows
}

// LoadReactions loads Rhea reactions, applies the direction and
// cross-reference tables, and emits substrate, product, and enzyme
// association rows. Compounds and enzymes must already be loaded.
func (s *Service) LoadReactions(ctx context.Context, _ biota.BuildContext) error {
	err := s.requireLoaded(ctx, biota.EntityReaction, biota.EntityCompound, biota.EntityEnzyme)
	if err != nil {
		return err
	}
	reactions, err := rhea.ParseFile(s.sources.RheaReactions)
	if err != nil {
		return fmt.Errorf("parse rhea reactions: %w", err)
	}
	directions, err := rhea.ParseDirectionsFile(s.sources.RheaDirections)
	if err != nil {
		return fmt.Errorf("parse rhea directions: %w", err)
	}
	xrefs := make(map[string][]rhea.XrefRow, len(s.sources.RheaXrefs))
	tables := make([]string, 0, len(s.sources.RheaXrefs))
	for table, path := range s.sources.RheaXrefs {
		rows, err := rhea.ParseXrefsFile(path)
		if err != nil {
			return fmt.Errorf("parse rhea %s xrefs: %w", table, err)
		}
		xrefs[table] = rows
		tables = append(tables, table)
	}
	sort.Strings(tables)
	if err := s.store.Reset(ctx, biota.EntityReaction); err != nil {
		return fmt.Errorf("reset reaction tables: %w", err)
	}
	return s.store.RunInTransaction(ctx, func(tx biota.Tx) error {
		if err := insertChunked(reactions, s.batch.Records, tx.InsertReactions); err != nil {
			return fmt.Errorf("insert reactions: %w", err)
		}
		s.metrics.AddRows(string(biota.EntityReaction), "reactions", len(reactions))
		if err := s.applyDirections(tx, directions); err != nil {
			return err
		}
		for _, table := range tables {
			if err := s.applyXrefs(tx, table, xrefs[table]); err != nil {
				return err
			}
		}
		return s.linkReactions(tx, reactions)
	})
}
