package integrity

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/ficlit-unibo/evangelisti-ingest/pkg/log"
	"github.com/ficlit-unibo/evangelisti-ingest/pkg/storeclient"
	"github.com/rs/zerolog"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitPartial      = 1
	ExitHashCorrupt  = 2
)

// dsStore is excluded from every comparison
const dsStore = ".DS_Store"

// Checker runs IntegrityChecker's two sub-checks against a per-medium
// named graph.
type Checker struct {
	client *storeclient.Client
	logger zerolog.Logger
}

// New creates a Checker on top of an already-configured storeclient.Client.
func New(client *storeclient.Client) *Checker {
	return &Checker{client: client, logger: log.WithComponent("integrity")}
}

// DiscoverEndpoint probes candidates in order and returns the first one
// that answers a COUNT(*) query with HTTP 200. It does not mutate c;
// callers rebuild a storeclient.Client against the winner.
func DiscoverEndpoint(ctx context.Context, candidates []storeclient.Config) (storeclient.Config, error) {
	for _, cfg := range candidates {
		client := storeclient.New(cfg)
		if _, err := client.Query(ctx, "integrity", "select", "SELECT (COUNT(*) as ?c) WHERE { ?s ?p ?o }"); err == nil {
			return cfg, nil
		}
	}
	return storeclient.Config{}, fmt.Errorf("no candidate endpoint responded to COUNT(*)")
}

// CountInventory is the JSON shape {dir_path: {files, dirs}}
type CountInventory map[string]DirCount

// DirCount is one directory's expected file/subdirectory counts.
type DirCount struct {
	Files int `json:"files"`
	Dirs  int `json:"dirs"`
}

// CountMismatch reports one directory whose graph-derived counts differ
// from the JSON inventory.
type CountMismatch struct {
	Dir                    string
	JSONFiles, JSONDirs    int
	GraphFiles, GraphDirs  int
}

// CountResult is the Count check's outcome.
type CountResult struct {
	Missing    []string // directories present in the JSON inventory but absent from the graph
	Mismatched []CountMismatch
}

// Success reports whether the count check found no discrepancies.
func (r CountResult) Success() bool { return len(r.Missing) == 0 && len(r.Mismatched) == 0 }

type pathEntry struct {
	Path string
	Kind string
}

// CountCheck loads a JSON count inventory, queries the graph for every
// (path, kind) pair via Location labels, reconstructs absolute paths by
// prefixing basePath, groups by parent directory, and reports mismatches
// against the inventory.
func (c *Checker) CountCheck(ctx context.Context, graphIRI, basePath, inventoryPath string) (CountResult, error) {
	var result CountResult

	data, err := os.ReadFile(inventoryPath)
	if err != nil {
		return result, fmt.Errorf("read count inventory %s: %w", inventoryPath, err)
	}
	var inventory CountInventory
	if err := json.Unmarshal(data, &inventory); err != nil {
		return result, fmt.Errorf("parse count inventory %s: %w", inventoryPath, err)
	}

	entries, err := c.fetchPathEntries(ctx, graphIRI)
	if err != nil {
		return result, err
	}

	graphCounts := map[string]DirCount{}
	for _, e := range entries {
		if path.Base(e.Path) == dsStore {
			continue
		}
		abs := basePath + e.Path
		dir := path.Dir(abs)
		dc := graphCounts[dir]
		if e.Kind == "record" {
			dc.Files++
		} else {
			dc.Dirs++
		}
		graphCounts[dir] = dc
	}

	for dir, expected := range inventory {
		actual, ok := graphCounts[dir]
		if !ok {
			result.Missing = append(result.Missing, dir)
			continue
		}
		if actual.Files != expected.Files || actual.Dirs != expected.Dirs {
			result.Mismatched = append(result.Mismatched, CountMismatch{
				Dir:        dir,
				JSONFiles:  expected.Files,
				JSONDirs:   expected.Dirs,
				GraphFiles: actual.Files,
				GraphDirs:  actual.Dirs,
			})
		}
	}

	return result, nil
}

func (c *Checker) fetchPathEntries(ctx context.Context, graphIRI string) ([]pathEntry, error) {
	query := fmt.Sprintf(`
PREFIX rico: <https://www.ica.org/standards/RiC/ontology#>
PREFIX prov: <http://www.w3.org/ns/prov#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
SELECT ?path ?kind WHERE {
  GRAPH <%s> {
    ?entity rico:hasOrHadInstantiation ?inst .
    ?inst prov:atLocation ?loc .
    ?loc rdfs:label ?path .
    ?entity a ?kind .
  }
}`, graphIRI)

	res, err := c.client.Query(ctx, "integrity", "select", query)
	if err != nil {
		return nil, fmt.Errorf("path enumeration query: %w", err)
	}

	return parseSelectPathKind(res.Body)
}

// hashJSONEntry mirrors the "file_hashes" array shape of the hash
// inventory JSON
type hashJSONEntry struct {
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Error  string `json:"error"`
}

type hashInventory struct {
	FileHashes []hashJSONEntry `json:"file_hashes"`
}

// HashResult is the Hash check's four-set outcome
type HashResult struct {
	ExactMatches []string
	JSONOnly     []string
	GraphOnly    []string
	Mismatches   []string
}

// Success reports whether the hash check passed: no mismatches and
// every JSON path was found in the graph.
func (r HashResult) Success() bool { return len(r.Mismatches) == 0 && len(r.JSONOnly) == 0 }

// ExitCode maps a HashResult to the exit codes.
func (r HashResult) ExitCode() int {
	switch {
	case len(r.Mismatches) > 0:
		return ExitHashCorrupt
	case len(r.JSONOnly) > 0 || len(r.GraphOnly) > 0:
		return ExitPartial
	default:
		return ExitSuccess
	}
}

// HashCheck reads the hash inventory at hashInventoryPath, queries the
// graph for (relative_path, hash) pairs, reconstructs absolute paths by
// prefixing basePath, and reports the four-way set comparison. The
// SHA-256 comparison is case-insensitive; .DS_Store entries are excluded
// from both sides.
func (c *Checker) HashCheck(ctx context.Context, graphIRI, basePath, hashInventoryPath string) (HashResult, error) {
	var result HashResult

	data, err := os.ReadFile(hashInventoryPath)
	if err != nil {
		return result, fmt.Errorf("read hash inventory %s: %w", hashInventoryPath, err)
	}
	var inv hashInventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return result, fmt.Errorf("parse hash inventory %s: %w", hashInventoryPath, err)
	}

	jsonHashes := map[string]string{}
	for _, e := range inv.FileHashes {
		if e.Error != "" || path.Base(e.Path) == dsStore {
			continue
		}
		jsonHashes[e.Path] = strings.ToLower(e.SHA256)
	}

	graphHashes, err := c.fetchPathHashes(ctx, graphIRI, basePath)
	if err != nil {
		return result, err
	}

	for p, jsonHash := range jsonHashes {
		graphHash, ok := graphHashes[p]
		if !ok {
			result.JSONOnly = append(result.JSONOnly, p)
			continue
		}
		if graphHash != jsonHash {
			result.Mismatches = append(result.Mismatches, p)
			continue
		}
		result.ExactMatches = append(result.ExactMatches, p)
	}
	for p := range graphHashes {
		if _, ok := jsonHashes[p]; !ok {
			result.GraphOnly = append(result.GraphOnly, p)
		}
	}

	return result, nil
}

func (c *Checker) fetchPathHashes(ctx context.Context, graphIRI, basePath string) (map[string]string, error) {
	query := fmt.Sprintf(`
PREFIX prov: <http://www.w3.org/ns/prov#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>
PREFIX bodi: <http://w3id.org/bodi#>
SELECT ?path ?hash WHERE {
  GRAPH <%s> {
    ?inst prov:atLocation ?loc .
    ?loc rdfs:label ?path .
    ?inst bodi:hasHashCode ?fixity .
    ?fixity <http://www.w3.org/1999/02/22-rdf-syntax-ns#value> ?hash .
  }
}`, graphIRI)

	res, err := c.client.Query(ctx, "integrity", "select", query)
	if err != nil {
		return nil, fmt.Errorf("hash enumeration query: %w", err)
	}

	rows, err := parseSelectPathHash(res.Body)
	if err != nil {
		return nil, err
	}

	out := make(map[string]string, len(rows))
	for relPath, hash := range rows {
		if path.Base(relPath) == dsStore {
			continue
		}
		out[basePath+relPath] = strings.ToLower(hash)
	}
	return out, nil
}
