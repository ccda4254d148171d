package transcode

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mmynk/rollbook/internal/models"
)

// Defaults applied to imported groups with blank fields.
const (
	DefaultLeader = "Unknown"
	DefaultPeriod = "JANUARY 2026 - APRIL 2026"
)

// Options configures ImportCSV.
type Options struct {
	DefaultLeader string
	DefaultPeriod string
}

func (o Options) withDefaults() Options {
	if o.DefaultLeader == "" {
		o.DefaultLeader = DefaultLeader
	}
	if o.DefaultPeriod == "" {
		o.DefaultPeriod = DefaultPeriod
	}
	return o
}

// RowIssue describes a skipped data row.
type RowIssue struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Report summarises an import.
type Report struct {
	Rows        int        `json:"rows"`
	Imported    int        `json:"imported"`
	Skipped     []RowIssue `json:"skipped,omitempty"`
	Groups      int        `json:"groups"`
	Members     int        `json:"members"`
	DateColumns []string   `json:"dateColumns"`
}

// Result is the outcome of a successful parse.
type Result struct {
	Groups []models.Group
	Report Report
}

// ImportCSV parses the flat layout into groups, in first-seen order of the
// group ID column. Rows that cannot be used are skipped and listed in the
// report. When no group results, ErrNoGroups is returned along with the report.
func ImportCSV(r io.Reader, opts Options) (Result, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: empty input", ErrBadHeader)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to read csv header: %w", err)
	}
	schema, err := MapSchema(header)
	if err != nil {
		return Result{}, err
	}

	var (
		res    = Result{Report: Report{DateColumns: schema.DateStrings()}}
		index  = make(map[string]int)
		report = &res.Report
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return Result{}, fmt.Errorf("failed to read csv: %w", err)
			}
			report.Rows++
			report.Skipped = append(report.Skipped, RowIssue{Line: perr.StartLine, Reason: perr.Err.Error()})
			continue
		}
		if blank(record) {
			continue
		}
		report.Rows++
		line, _ := cr.FieldPos(0)

		if len(record) < minColumns {
			report.Skipped = append(report.Skipped, RowIssue{
				Line:   line,
				Reason: "expected at least " + strconv.Itoa(minColumns) + " columns, got " + strconv.Itoa(len(record)),
			})
			continue
		}
		groupID := field(record, colGroupID)
		memberName := field(record, colMemberName)
		if groupID == "" {
			report.Skipped = append(report.Skipped, RowIssue{Line: line, Reason: "missing group id"})
			continue
		}
		if memberName == "" {
			report.Skipped = append(report.Skipped, RowIssue{Line: line, Reason: "missing member name"})
			continue
		}

		i, ok := index[groupID]
		if !ok {
			i = len(res.Groups)
			index[groupID] = i
			res.Groups = append(res.Groups, newGroup(record, groupID, opts))
		}
		g := &res.Groups[i]

		member := models.Member{
			ID:    groupID + "_" + strconv.Itoa(len(g.Members)+1),
			Name:  memberName,
			Phone: field(record, colPhone),
		}
		g.Members = append(g.Members, member)
		for _, dc := range schema.Dates {
			if status := models.ParseStatus(field(record, dc.Index)); status.Marked() {
				g.Attendance = g.Attendance.With(member.ID, dc.Date, status)
			}
		}
		report.Imported++
	}

	report.Groups = len(res.Groups)
	for _, g := range res.Groups {
		report.Members += len(g.Members)
	}
	if len(res.Groups) == 0 {
		return res, ErrNoGroups
	}
	return res, nil
}

func newGroup(record []string, groupID string, opts Options) models.Group {
	g := models.Group{
		ID:         groupID,
		Name:       field(record, colGroupName),
		Leader:     field(record, colLeader),
		CoLeader:   field(record, colCoLeader),
		Period:     field(record, colPeriod),
		Attendance: models.AttendanceTable{},
	}
	if g.Name == "" {
		g.Name = groupID
	}
	if g.Leader == "" {
		g.Leader = opts.DefaultLeader
	}
	if g.Period == "" {
		g.Period = opts.DefaultPeriod
	}
	return g
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Header returns the export header for dates.
func Header(dates []string) []string {
	header := []string{"Group_Name", "Group_Id", "Leader", "Co_Leader", "Period", "Member_Name", "Phone"}
	for _, d := range dates {
		iso, err := models.ToISODate(d)
		if err != nil {
			iso = d
		}
		header = append(header, iso)
	}
	return header
}

// Rows returns one export row per member, in group then member order.
func Rows(groups []models.Group, dates []string) [][]string {
	var rows [][]string
	for _, g := range groups {
		for _, m := range g.Members {
			row := []string{g.Name, g.ID, g.Leader, g.CoLeader, g.Period, m.Name, m.Phone}
			for _, d := range dates {
				row = append(row, string(g.Attendance.Get(m.ID, d)))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ExportCSV writes groups in the flat layout. It is the inverse of ImportCSV
// up to member IDs.
func ExportCSV(w io.Writer, groups []models.Group, dates []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(dates)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(Rows(groups, dates)); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}
