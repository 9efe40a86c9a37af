package models

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// columnAliases maps raw instrument headers to standard columns, with a
// factor to convert into SI storage units. BioLogic exports current in
// milliamps and flips the imaginary impedance sign.
var columnAliases = map[string]struct {
	name   string
	factor float64
}{
	"time/s":        {ColTime, 1},
	"t/s":           {ColTime, 1},
	"ewe/v":         {ColPotential, 1},
	"e/v":           {ColPotential, 1},
	"vf":            {ColPotential, 1},
	"<i>/ma":        {ColCurrent, 1e-3},
	"i/ma":          {ColCurrent, 1e-3},
	"im":            {ColCurrent, 1},
	"re(z)/ohm":     {ColZReal, 1},
	"-im(z)/ohm":    {ColZImag, -1},
	"im(z)/ohm":     {ColZImag, 1},
	"|z|/ohm":       {ColZMag, 1},
	"phase(z)/deg":  {ColZPhase, 1},
	"freq/hz":       {ColFrequency, 1},
	"cycle number":  {ColCycle, 1},
	"cycle":         {ColCycle, 1},
	"time_s":        {ColTime, 1},
	"potential_v":   {ColPotential, 1},
	"current_a":     {ColCurrent, 1},
	"z_real_ohm":    {ColZReal, 1},
	"z_imag_ohm":    {ColZImag, 1},
	"z_mag_ohm":     {ColZMag, 1},
	"z_phase_deg":   {ColZPhase, 1},
	"frequency_hz":  {ColFrequency, 1},
}

// normalizeHeader resolves a raw header to its standard column name and
// unit factor. Unrecognized headers are kept as-is, sanitized.
func normalizeHeader(raw string) (string, float64) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := columnAliases[key]; ok {
		return alias.name, alias.factor
	}
	name := strings.ReplaceAll(key, " ", "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name, 1
}

// LoadFile reads one data file into a normalized dataset. EC-Lab ASCII
// exports (.mpt) and plain CSV are supported; the format is detected
// from the content, not the extension.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	name := filepath.Base(path)
	d, err := ReadData(f, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %v", name, err)
	}
	if d.Meta.Timestamp == "" {
		if info, err := os.Stat(path); err == nil {
			d.Meta.Timestamp = info.ModTime().Format("2006-01-02T15:04:05")
		}
	}
	return d, nil
}

// ReadData parses a data stream named filename into a dataset. Metadata
// defaults come from the file name convention; an EC-Lab header block
// additionally supplies the acquisition timestamp.
func ReadData(r io.Reader, filename string) (*Dataset, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(len(eclabMagic))
	var (
		timestamp string
		err       error
	)
	if string(peek) == eclabMagic {
		timestamp, err = skipECLabHeader(br)
		if err != nil {
			return nil, err
		}
	}

	columns, err := readTable(br)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		Meta: FileMeta{
			ID:        filename,
			Label:     DeriveLabel(filename),
			Technique: ExtractTechnique(filename),
			Timestamp: timestamp,
		},
		Columns: columns,
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

const eclabMagic = "EC-Lab ASCII FILE"

// skipECLabHeader consumes the EC-Lab preamble. The second line states
// the header line count; the block may carry the acquisition timestamp.
func skipECLabHeader(br *bufio.Reader) (string, error) {
	if _, err := br.ReadString('\n'); err != nil {
		return "", fmt.Errorf("truncated header: %v", err)
	}
	countLine, err := br.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("truncated header: %v", err)
	}
	_, after, found := strings.Cut(countLine, ":")
	if !found {
		return "", fmt.Errorf("malformed header line count: %q", strings.TrimSpace(countLine))
	}
	count, err := strconv.Atoi(strings.TrimSpace(after))
	if err != nil {
		return "", fmt.Errorf("malformed header line count: %v", err)
	}

	timestamp := ""
	// Two lines consumed already; the count includes them and the
	// column header line, which readTable consumes itself.
	for i := 2; i < count-1; i++ {
		line, err := br.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("truncated header: %v", err)
		}
		if key, val, found := strings.Cut(line, " : "); found {
			if strings.TrimSpace(key) == "Acquisition started on" {
				if t, err := ParseTimestamp(strings.TrimSpace(val)); err == nil {
					timestamp = t.Format("2006-01-02T15:04:05")
				}
			}
		}
	}
	return timestamp, nil
}

// readTable reads a delimited table with a header row. The delimiter is
// detected from the header line: tab for instrument exports, comma for
// CSV.
func readTable(br *bufio.Reader) (map[string][]float64, error) {
	headerLine, err := br.ReadString('\n')
	if err != nil && headerLine == "" {
		return nil, fmt.Errorf("empty data table")
	}
	delim := ','
	if strings.ContainsRune(headerLine, '\t') {
		delim = '\t'
	}

	cr := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	cr.Comma = delim
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %v", err)
	}

	names := make([]string, len(header))
	factors := make([]float64, len(header))
	for i, h := range header {
		names[i], factors[i] = normalizeHeader(h)
	}

	columns := make(map[string][]float64, len(header))
	for _, name := range names {
		columns[name] = nil
	}

	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row %d: %v", row+1, err)
		}
		row++
		for i, field := range record {
			if i >= len(names) {
				break
			}
			v, err := parseNumber(field)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %v", row, header[i], err)
			}
			columns[names[i]] = append(columns[names[i]], v*factors[i])
		}
	}
	if row == 0 {
		return nil, fmt.Errorf("data table has no rows")
	}
	return columns, nil
}

// parseNumber handles both dot and comma decimal separators, since
// EC-Lab exports follow the workstation locale.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return v, nil
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		if v, err2 := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64); err2 == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("invalid number %q", s)
}
