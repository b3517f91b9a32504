// Command biota-load runs a full reference-database build: it stages the
// source dumps, parses them, and loads the result into the configured
// store. Storage and archive backends are selected via BIOTA_* environment
// variables; input locations come from flags.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Constellab/gws-biota-sub001/internal/infra/blob"
	"github.com/Constellab/gws-biota-sub001/internal/infra/persistence"
	"github.com/Constellab/gws-biota-sub001/internal/ingest"
	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

var exitFunc = os.Exit

// xrefFlags collects repeated -rhea-xref table=path pairs.
type xrefFlags map[string]string

func (x xrefFlags) String() string {
	parts := make([]string, 0, len(x))
	for table, path := range x {
		parts = append(parts, table+"="+path)
	}
	return strings.Join(parts, ",")
}

func (x xrefFlags) Set(value string) error {
	table, path, ok := strings.Cut(value, "=")
	if !ok || table == "" || path == "" {
		return fmt.Errorf("expected table=path, got %q", value)
	}
	x[table] = path
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Printf("biota-load: %v", err)
		exitFunc(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("biota-load", flag.ContinueOnError)
	var src ingest.Sources
	xrefs := make(xrefFlags)

	fs.StringVar(&src.ECO, "eco", "", "ECO ontology (OBO)")
	fs.StringVar(&src.GO, "go", "", "Gene Ontology (OBO)")
	fs.StringVar(&src.SBO, "sbo", "", "Systems Biology Ontology (OBO)")
	fs.StringVar(&src.BTO, "bto", "", "BRENDA Tissue Ontology (JSON export)")
	fs.StringVar(&src.ChEBI, "chebi", "", "ChEBI ontology (OBO)")
	fs.StringVar(&src.TaxdumpDir, "taxdump", "", "NCBI taxdump directory")
	fs.StringVar(&src.ReactomePathways, "reactome-pathways", "", "Reactome pathway list (TSV)")
	fs.StringVar(&src.ReactomeRelations, "reactome-relations", "", "Reactome pathway hierarchy (TSV)")
	fs.StringVar(&src.ReactomeCompounds, "reactome-compounds", "", "Reactome ChEBI mapping (TSV)")
	fs.StringVar(&src.Uniprot, "uniprot", "", "UniProt FASTA")
	fs.StringVar(&src.Brenda, "brenda", "", "BRENDA flat file")
	fs.StringVar(&src.BKMS, "bkms", "", "BKMS-react table (TSV)")
	fs.StringVar(&src.RheaReactions, "rhea-reactions", "", "Rhea reactions flat file")
	fs.StringVar(&src.RheaDirections, "rhea-directions", "", "Rhea directions table (TSV)")
	fs.Var(xrefs, "rhea-xref", "Rhea cross-reference table as table=path (repeatable)")

	mode := fs.String("mode", string(biota.ModeProd), "build mode: prod|dev|test")
	allowWrite := fs.Bool("allow-write", true, "permit table writes; false makes the build fail with a write-protection error")
	fromArchive := fs.Bool("from-archive", false, "treat source paths as archive keys and stage them first")
	workDir := fs.String("work-dir", "", "staging directory when -from-archive is set (default temp dir)")
	metricsAddr := fs.String("metrics-addr", "", "expose prometheus metrics on this address (e.g. :9090)")
	edgeBatch := fs.Int("edge-batch", 0, "ancestor edges per bulk insert (0 = default)")
	recordBatch := fs.Int("record-batch", 0, "entity rows per bulk insert (0 = default)")
	verbose := fs.Bool("v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(xrefs) > 0 {
		src.RheaXrefs = xrefs
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *fromArchive {
		archive, err := blob.Open(ctx)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		dir := *workDir
		if dir == "" {
			tmp, err := os.MkdirTemp("", "biota-load-*")
			if err != nil {
				return err
			}
			defer func() { _ = os.RemoveAll(tmp) }()
			dir = tmp
		}
		staged, err := ingest.StageSources(ctx, archive, src, dir)
		if err != nil {
			return err
		}
		src = staged
	}

	store, err := persistence.OpenStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	opts := []ingest.Option{}
	if *verbose {
		opts = append(opts, ingest.WithLogger(ingest.StdLogger{L: log.New(os.Stderr, "", log.LstdFlags)}))
	}
	if *edgeBatch > 0 || *recordBatch > 0 {
		opts = append(opts, ingest.WithBatchSizes(ingest.BatchSizes{Edges: *edgeBatch, Records: *recordBatch}))
	}
	if *metricsAddr != "" {
		rec, err := ingest.NewPrometheusMetricsRecorder(prometheus.DefaultRegisterer)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, ingest.WithMetrics(rec))
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	bc := biota.BuildContext{AllowWrite: *allowWrite, Mode: biota.BuildMode(*mode)}
	manifest, err := ingest.NewService(store, src, opts...).Build(ctx, bc)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
