package roster_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/Lllllllleong/certificateflow/internal/certificate"
	"github.com/Lllllllleong/certificateflow/internal/certificate/certtest"
	"github.com/Lllllllleong/certificateflow/internal/models"
	"github.com/Lllllllleong/certificateflow/internal/roster"
)

func TestRead(t *testing.T) {
	csv := certtest.Roster(
		[3]string{"新加坡", "张三", "慧明"},
		[3]string{"新加坡", " 李四 ", ""},
		[3]string{"吉隆坡", "王五", "净心"},
	)

	rows, err := roster.Read(strings.NewReader(csv), roster.DefaultColumns(), roster.EncodingUTF8)
	require.NoError(t, err)

	assert.Equal(t, []models.Registrant{
		{Location: "新加坡", ChineseName: "张三", DharmaName: "慧明"},
		{Location: "新加坡", ChineseName: "李四", DharmaName: ""},
		{Location: "吉隆坡", ChineseName: "王五", DharmaName: "净心"},
	}, rows)
}

func TestRead_StripsBOM(t *testing.T) {
	csv := "\ufeff" + certtest.Roster([3]string{"A", "张三", "慧明"})

	rows, err := roster.Read(strings.NewReader(csv), roster.DefaultColumns(), "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "慧明", rows[0].DharmaName)
}

func TestRead_GB18030(t *testing.T) {
	csv := certtest.Roster([3]string{"新加坡", "张三", "慧明"})
	var buf bytes.Buffer
	w := transform.NewWriter(&buf, simplifiedchinese.GB18030.NewEncoder())
	_, err := w.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rows, err := roster.Read(&buf, roster.DefaultColumns(), roster.EncodingGB18030)
	require.NoError(t, err)
	assert.Equal(t, []models.Registrant{{Location: "新加坡", ChineseName: "张三", DharmaName: "慧明"}}, rows)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name     string
		csv      string
		encoding string
	}{
		{"empty", "", roster.EncodingUTF8},
		{"missing dharma column", "我要参与的地点：（请选择一个）,中文姓名 Chinese Name\nA,张三\n", roster.EncodingUTF8},
		{"unknown encoding", certtest.Roster(), "latin-9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := roster.Read(strings.NewReader(tt.csv), roster.DefaultColumns(), tt.encoding)
			assert.ErrorIs(t, err, certificate.ErrData)
		})
	}
}

func TestRead_CustomColumns(t *testing.T) {
	csv := "site,name,dharma\nA,张三,慧明\nA,李四\n"
	cols := roster.Columns{Location: "site", ChineseName: "name", DharmaName: "dharma"}

	rows, err := roster.Read(strings.NewReader(csv), cols, roster.EncodingUTF8)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1].DharmaName, "short records read as empty cells")
}

func TestFilter(t *testing.T) {
	rows := []models.Registrant{
		{Location: "A", ChineseName: "1", DharmaName: "x"},
		{Location: "A", ChineseName: "2"},
		{Location: "B", ChineseName: "3", DharmaName: "y"},
		{Location: "A", ChineseName: "4", DharmaName: "z"},
	}

	got := roster.Filter(rows, "A")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ChineseName)
	assert.Equal(t, "4", got[1].ChineseName)

	assert.Empty(t, roster.Filter(rows, "C"))
}

func TestLocations(t *testing.T) {
	rows := []models.Registrant{
		{Location: "B", DharmaName: "x"},
		{Location: "A"},
		{Location: ""},
		{Location: "B"},
		{Location: "A", DharmaName: "y"},
	}

	assert.Equal(t, []models.LocationSummary{
		{Location: "B", Total: 2, Qualifying: 1},
		{Location: "A", Total: 2, Qualifying: 1},
	}, roster.Locations(rows))
	assert.Empty(t, roster.Locations(nil))
}
