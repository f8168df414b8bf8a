// Package roster reads registrant CSV exports and selects the rows that
// receive certificates.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/models"
)

// Columns names the CSV headers holding each registrant field.
type Columns struct {
	Location    string `yaml:"location"`
	ChineseName string `yaml:"chineseName"`
	DharmaName  string `yaml:"dharmaName"`
}

// DefaultColumns are the headers of the registration form export.
func DefaultColumns() Columns {
	return Columns{
		Location:    "我要参与的地点：（请选择一个）",
		ChineseName: "中文姓名 Chinese Name",
		DharmaName:  "法名",
	}
}

// Supported input encodings.
const (
	EncodingUTF8    = "utf-8"
	EncodingGB18030 = "gb18030"
)

func decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case EncodingGB18030, "gbk":
		return transform.NewReader(r, simplifiedchinese.GB18030.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("%w: unsupported roster encoding %q", certificate.ErrData, encoding)
	}
}

// Read parses every data row of a CSV roster. Cell values are trimmed.
func Read(r io.Reader, cols Columns, encoding string) ([]models.Registrant, error) {
	dr, err := decoder(r, encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(dr)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: roster is empty", certificate.ErrData)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read roster header: %v", certificate.ErrData, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	locIdx, err := columnIndex(index, cols.Location)
	if err != nil {
		return nil, err
	}
	nameIdx, err := columnIndex(index, cols.ChineseName)
	if err != nil {
		return nil, err
	}
	dharmaIdx, err := columnIndex(index, cols.DharmaName)
	if err != nil {
		return nil, err
	}

	var rows []models.Registrant
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read roster: %v", certificate.ErrData, err)
		}
		rows = append(rows, models.Registrant{
			Location:    cell(rec, locIdx),
			ChineseName: cell(rec, nameIdx),
			DharmaName:  cell(rec, dharmaIdx),
		})
	}
	return rows, nil
}

func columnIndex(index map[string]int, name string) (int, error) {
	i, ok := index[strings.TrimSpace(name)]
	if !ok {
		return 0, fmt.Errorf("%w: required column %q is missing", certificate.ErrData, name)
	}
	return i, nil
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// Filter keeps the rows at location that have a dharma name.
func Filter(rows []models.Registrant, location string) []models.Registrant {
	var out []models.Registrant
	for _, r := range rows {
		if r.Location == location && r.HasDharmaName() {
			out = append(out, r)
		}
	}
	return out
}

// Locations lists the distinct non-empty locations in first-seen order.
func Locations(rows []models.Registrant) []models.LocationSummary {
	var out []models.LocationSummary
	pos := make(map[string]int)
	for _, r := range rows {
		if r.Location == "" {
			continue
		}
		i, ok := pos[r.Location]
		if !ok {
			i = len(out)
			pos[r.Location] = i
			out = append(out, models.LocationSummary{Location: r.Location})
		}
		out[i].Total++
		if r.HasDharmaName() {
			out[i].Qualifying++
		}
	}
	return out
}
