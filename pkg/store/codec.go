package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// timeLayout is RFC 3339 with fixed-width nanoseconds, so stored
// timestamps sort lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// reportRow is the column form of a report shared by the SQL backends.
// Sums are decimal text because SQL integers are signed 64-bit.
type reportRow struct {
	id            string
	rows          int
	spans         int
	partNumberSum string
	gearRatioSum  string
	partsJSON     string
	gearsJSON     string
	analyzedAt    string
}

func encodeReport(r *types.Report) (reportRow, error) {
	parts, err := json.Marshal(r.Parts)
	if err != nil {
		return reportRow{}, fmt.Errorf("marshaling parts: %w", err)
	}
	gears, err := json.Marshal(r.Gears)
	if err != nil {
		return reportRow{}, fmt.Errorf("marshaling gears: %w", err)
	}
	return reportRow{
		id:            r.ID.Hex(),
		rows:          r.Rows,
		spans:         r.Spans,
		partNumberSum: strconv.FormatUint(r.PartNumberSum, 10),
		gearRatioSum:  strconv.FormatUint(r.GearRatioSum, 10),
		partsJSON:     string(parts),
		gearsJSON:     string(gears),
		analyzedAt:    r.AnalyzedAt.UTC().Format(timeLayout),
	}, nil
}

func (row reportRow) decode() (*types.Report, error) {
	var r types.Report
	var err error

	if r.ID, err = types.ParseSchematicID(row.id); err != nil {
		return nil, fmt.Errorf("parsing schematic ID: %w", err)
	}
	r.Rows = row.rows
	r.Spans = row.spans
	if r.PartNumberSum, err = strconv.ParseUint(row.partNumberSum, 10, 64); err != nil {
		return nil, fmt.Errorf("parsing part number sum: %w", err)
	}
	if r.GearRatioSum, err = strconv.ParseUint(row.gearRatioSum, 10, 64); err != nil {
		return nil, fmt.Errorf("parsing gear ratio sum: %w", err)
	}
	if err := json.Unmarshal([]byte(row.partsJSON), &r.Parts); err != nil {
		return nil, fmt.Errorf("unmarshaling parts: %w", err)
	}
	if err := json.Unmarshal([]byte(row.gearsJSON), &r.Gears); err != nil {
		return nil, fmt.Errorf("unmarshaling gears: %w", err)
	}
	if r.AnalyzedAt, err = time.Parse(timeLayout, row.analyzedAt); err != nil {
		return nil, fmt.Errorf("parsing analyzed_at: %w", err)
	}
	return &r, nil
}

// provenanceRow is the column form of a provenance. Absent values are ""
// so the UNIQUE constraint deduplicates rows.
type provenanceRow struct {
	kind       string
	path       string
	repoPath   string
	commitHash string
}

func encodeProvenance(prov types.Provenance) (provenanceRow, error) {
	row := provenanceRow{kind: prov.Kind(), path: prov.Path()}
	switch p := prov.(type) {
	case types.FileProvenance, types.StdinProvenance, types.ExtendedProvenance:
	case types.GitProvenance:
		row.repoPath = p.RepoPath
		if p.Commit != nil {
			row.commitHash = p.Commit.CommitID
		}
	default:
		return provenanceRow{}, fmt.Errorf("unknown provenance type: %T", prov)
	}
	return row, nil
}

func (row provenanceRow) decode() (types.Provenance, error) {
	switch row.kind {
	case "file":
		return types.FileProvenance{FilePath: row.path}, nil
	case "stdin":
		return types.StdinProvenance{}, nil
	case "extended":
		return types.ExtendedProvenance{Source: row.path}, nil
	case "git":
		prov := types.GitProvenance{RepoPath: row.repoPath, BlobPath: row.path}
		if row.commitHash != "" {
			prov.Commit = &types.CommitMetadata{CommitID: row.commitHash}
		}
		return prov, nil
	default:
		return nil, fmt.Errorf("unknown provenance kind: %q", row.kind)
	}
}
