package ingest

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Constellab/gws-biota-sub001/internal/parse/brenda"
	"github.com/Constellab/gws-biota-sub001/internal/parse/rhea"
	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

var btoRef = regexp.MustCompile(`BTO:\d{7}`)

// linkEnzymeTissues scans each enzyme's source-tissue measurements for BTO
// references, keeps the ones that resolve against the loaded tissue
// ontology, and writes both the denormalized TissueIDs set and the
// enzyme-tissue association rows. Unresolved references are dropped and
// counted, never fatal.
func (s *Service) linkEnzymeTissues(tx biota.Tx, enzymes []biota.Enzyme) error {
	const kind = string(biota.EntityEnzyme)
	var (
		rows    []biota.EnzymeTissue
		skipped int
	)
	for i := range enzymes {
		enzyme := &enzymes[i]
		seen := make(map[string]struct{})
		var tissueIDs []string
		for _, param := range enzyme.Params {
			if param.Code != "ST" {
				continue
			}
			for _, m := range param.Measurements {
				for _, id := range btoRef.FindAllString(m.Comment, -1) {
					if _, dup := seen[id]; dup {
						continue
					}
					seen[id] = struct{}{}
					if !tx.HasTerm(biota.EntityBTO, id) {
						skipped++
						continue
					}
					tissueIDs = append(tissueIDs, id)
					rows = append(rows, biota.EnzymeTissue{EnzymeID: enzyme.ID, BTOID: id})
				}
			}
		}
		if len(tissueIDs) == 0 {
			continue
		}
		err := tx.UpdateEnzyme(enzyme.ID, func(e *biota.Enzyme) error {
			e.TissueIDs = tissueIDs
			return nil
		})
		if err != nil {
			return fmt.Errorf("set enzyme %s tissues: %w", enzyme.ID, err)
		}
	}
	if err := insertChunked(rows, s.batch.Records, tx.InsertEnzymeTissues); err != nil {
		return fmt.Errorf("insert enzyme tissues: %w", err)
	}
	s.metrics.AddRows(kind, "tissue_links", len(rows))
	if skipped > 0 {
		s.metrics.AddSkipped(kind, "unresolved_tissue", skipped)
		s.log.Warnf("enzymes: %d tissue references did not resolve", skipped)
	}
	return nil
}

// denormalizeEnzymeTaxa resolves each enzyme's organism name against the
// loaded taxonomy and flattens the ancestor chain into per-rank tax_id
// fields. Enzymes whose organism is unknown to the taxonomy keep an empty
// projection.
func (s *Service) denormalizeEnzymeTaxa(tx biota.Tx, enzymes []biota.Enzyme) error {
	const kind = string(biota.EntityEnzyme)
	skipped := 0
	for i := range enzymes {
		enzyme := &enzymes[i]
		taxon, ok := tx.FindTaxon(enzyme.TaxonID)
		if !ok {
			taxon, ok = tx.FindTaxonByName(enzyme.Organism)
		}
		if !ok {
			skipped++
			continue
		}
		ranks := rankProjection(tx, taxon)
		err := tx.UpdateEnzyme(enzyme.ID, func(e *biota.Enzyme) error {
			e.TaxonID = taxon.TaxID
			e.Ranks = ranks
			return nil
		})
		if err != nil {
			return fmt.Errorf("set enzyme %s taxonomy: %w", enzyme.ID, err)
		}
	}
	if skipped > 0 {
		s.metrics.AddSkipped(kind, "unresolved_organism", skipped)
		s.log.Warnf("enzymes: %d organisms did not resolve against the taxonomy", skipped)
	}
	return nil
}

// rankProjection walks the ancestor chain from taxon to the root, recording
// the tax_id of every recognized rank it passes. The root references itself,
// which terminates the walk; a visited set guards against malformed dumps.
func rankProjection(tx biota.Tx, taxon biota.Taxon) biota.TaxonRanks {
	var ranks biota.TaxonRanks
	visited := make(map[string]struct{})
	current, ok := taxon, true
	for ok {
		if _, cycle := visited[current.TaxID]; cycle {
			break
		}
		visited[current.TaxID] = struct{}{}
		setRank(&ranks, current.Rank, current.TaxID)
		if current.AncestorTaxID == current.TaxID {
			break
		}
		current, ok = tx.FindTaxon(current.AncestorTaxID)
	}
	return ranks
}

func setRank(ranks *biota.TaxonRanks, rank, taxID string) {
	switch rank {
	case "superkingdom":
		ranks.Superkingdom = taxID
	case "clade":
		ranks.Clade = taxID
	case "kingdom":
		ranks.Kingdom = taxID
	case "subkingdom":
		ranks.Subkingdom = taxID
	case "class":
		ranks.Class = taxID
	case "phylum":
		ranks.Phylum = taxID
	case "subphylum":
		ranks.Subphylum = taxID
	case "order":
		ranks.Order = taxID
	case "family":
		ranks.Family = taxID
	case "genus":
		ranks.Genus = taxID
	case "species":
		ranks.Species = taxID
	}
}

// applyBKMS fills the per-EC pathway rows from the BKMS reconciliation
// table. Rows naming an EC without a live enzyme-pathway record are dropped
// and counted.
func (s *Service) applyBKMS(tx biota.Tx, rows []brenda.BKMSRow) error {
	const kind = string(biota.EntityEnzyme)
	matched, skipped := 0, 0
	for _, row := range rows {
		n, err := tx.UpdateEnzymePathways(row.ECNumber, func(ep *biota.EnzymePathway) error {
			if row.BrendaPathwayName != "" {
				ep.Brenda = &biota.PathwayRef{Name: row.BrendaPathwayName}
			}
			if row.KeggPathwayID != "" || row.KeggPathwayName != "" {
				ep.Kegg = &biota.PathwayRef{ID: row.KeggPathwayID, Name: row.KeggPathwayName}
			}
			if row.MetacycPathwayID != "" || row.MetacycPathwayName != "" {
				ep.Metacyc = &biota.PathwayRef{ID: row.MetacycPathwayID, Name: row.MetacycPathwayName}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("apply bkms row for EC %s: %w", row.ECNumber, err)
		}
		if n == 0 {
			skipped++
			continue
		}
		matched += n
	}
	s.metrics.AddRows(kind, "bkms_pathways", matched)
	if skipped > 0 {
		s.metrics.AddSkipped(kind, "unmatched_bkms_ec", skipped)
	}
	return nil
}

// applyDirections partitions the rhea-directions table into the four
// direction buckets and stamps each reaction, then records every variant's
// master id. Table rows naming an unloaded reaction are dropped and counted.
func (s *Service) applyDirections(tx biota.Tx, rows []rhea.DirectionRow) error {
	const kind = string(biota.EntityReaction)
	skipped := 0
	for direction, ids := range rhea.DirectionBuckets(rows) {
		for _, id := range ids {
			err := tx.UpdateReaction(id, func(r *biota.Reaction) error {
				r.Direction = direction
				return nil
			})
			if err != nil {
				var notFound biota.ErrNotFound
				if errors.As(err, &notFound) {
					skipped++
					continue
				}
				return fmt.Errorf("set reaction %s direction: %w", id, err)
			}
		}
	}
	for variant, master := range rhea.MasterIDs(rows) {
		err := tx.UpdateReaction(variant, func(r *biota.Reaction) error {
			r.MasterID = master
			return nil
		})
		if err != nil {
			var notFound biota.ErrNotFound
			if errors.As(err, &notFound) {
				skipped++
				continue
			}
			return fmt.Errorf("set reaction %s master: %w", variant, err)
		}
	}
	if skipped > 0 {
		s.metrics.AddSkipped(kind, "unresolved_direction", skipped)
	}
	return nil
}

// applyXrefs folds one rhea cross-reference table into the loaded
// reactions. The biocyc family of tables appends to the list-valued
// BiocycIDs field without deduplication, matching how the source tables
// repeat entries; kegg and reactome set scalar fields; the ec table feeds
// the enzyme linker by appending to EnzymeECs.
func (s *Service) applyXrefs(tx biota.Tx, table string, rows []rhea.XrefRow) error {
	const kind = string(biota.EntityReaction)
	skipped := 0
	for _, row := range rows {
		err := tx.UpdateReaction(row.RheaID, func(r *biota.Reaction) error {
			switch table {
			case "ecocyc", "metacyc", "macie":
				r.BiocycIDs = append(r.BiocycIDs, row.ID)
			case "kegg":
				r.KeggID = row.ID
			case "ec":
				r.EnzymeECs = append(r.EnzymeECs, row.ID)
			case "reactome":
				if row.MasterID != "" {
					r.MasterID = row.MasterID
				}
			default:
				return fmt.Errorf("unknown xref table %q", table)
			}
			return nil
		})
		if err != nil {
			var notFound biota.ErrNotFound
			if errors.As(err, &notFound) {
				skipped++
				continue
			}
			return fmt.Errorf("apply %s xref for rhea %s: %w", table, row.RheaID, err)
		}
	}
	if skipped > 0 {
		s.metrics.AddSkipped(kind, "unresolved_"+table+"_xref", skipped)
	}
	return nil
}

// linkReactions emits substrate, product, and enzyme association rows for
// every loaded reaction. Equation participants that resolve to no compound
// and ECs with no live enzyme are dropped and counted.
func (s *Service) linkReactions(tx biota.Tx, reactions []biota.Reaction) error {
	const kind = string(biota.EntityReaction)
	var (
		substrates []biota.ReactionCompound
		products   []biota.ReactionCompound
		enzymeRows []biota.ReactionEnzyme
		skipped    int
	)
	for i := range reactions {
		// Re-read the row: the xref tables may have appended ECs.
		reaction, ok := tx.FindReaction(reactions[i].RheaID)
		if !ok {
			continue
		}
		for _, id := range reaction.SubstrateIDs {
			if _, ok := tx.FindCompound(id); !ok {
				skipped++
				continue
			}
			substrates = append(substrates, biota.ReactionCompound{
				RheaID:      reaction.RheaID,
				ChEBIID:     id,
				Coefficient: reaction.SubstrateCoefficients[id],
			})
		}
		for _, id := range reaction.ProductIDs {
			if _, ok := tx.FindCompound(id); !ok {
				skipped++
				continue
			}
			products = append(products, biota.ReactionCompound{
				RheaID:      reaction.RheaID,
				ChEBIID:     id,
				Coefficient: reaction.ProductCoefficients[id],
			})
		}
		seen := make(map[string]struct{})
		for _, ec := range reaction.EnzymeECs {
			live := SelectNewEnzymes(tx, ec)
			if len(live) == 0 {
				skipped++
				continue
			}
			for _, enzyme := range live {
				if _, dup := seen[enzyme.ID]; dup {
					continue
				}
				seen[enzyme.ID] = struct{}{}
				enzymeRows = append(enzymeRows, biota.ReactionEnzyme{
					RheaID:   reaction.RheaID,
					EnzymeID: enzyme.ID,
				})
			}
		}
	}
	if err := insertChunked(substrates, s.batch.Records, tx.InsertReactionSubstrates); err != nil {
		return fmt.Errorf("insert reaction substrates: %w", err)
	}
	if err := insertChunked(products, s.batch.Records, tx.InsertReactionProducts); err != nil {
		return fmt.Errorf("insert reaction products: %w", err)
	}
	if err := insertChunked(enzymeRows, s.batch.Records, tx.InsertReactionEnzymes); err != nil {
		return fmt.Errorf("insert reaction enzymes: %w", err)
	}
	s.metrics.AddRows(kind, "substrate_links", len(substrates))
	s.metrics.AddRows(kind, "product_links", len(products))
	s.metrics.AddRows(kind, "enzyme_links", len(enzymeRows))
	if skipped > 0 {
		s.metrics.AddSkipped(kind, "unresolved_participant", skipped)
		s.log.Warnf("reactions: %d participants did not resolve", skipped)
	}
	return nil
}
