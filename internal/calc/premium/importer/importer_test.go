package importer

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Seabed/internal/calc/soil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestSoilProfileClay(t *testing.T) {
	buf := workbook(t, "Sheet1", [][]any{
		{"Depth", "Su", "Gamma"},
		{1, 10, 8.0},
		{5, 15, 8.5},
		{},
		{10, "25", 8.5},
	})
	table, err := SoilProfile(buf, "clay")
	require.NoError(t, err)
	assert.Equal(t, soil.Clay, table.SoilType)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, soil.Row{Depth: 10, Su: 25, Gamma: 8.5}, table.Rows[2])

	_, err = table.Build()
	assert.NoError(t, err)
}

func TestSoilProfileTypeFromSheetName(t *testing.T) {
	buf := workbook(t, "Sand", [][]any{
		{"z", "phi_deg", "gamma", "Dr"},
		{1, 28, 9.5, 60},
		{15, 38, 11.5, 85},
	})
	table, err := SoilProfile(buf, "")
	require.NoError(t, err)
	assert.Equal(t, soil.Sand, table.SoilType)
	assert.Equal(t, 38.0, table.Rows[1].Phi)
	assert.Equal(t, 85.0, table.Rows[1].Dr)
}

func TestSoilProfileRejects(t *testing.T) {
	_, err := SoilProfile(workbook(t, "Sheet1", [][]any{{"su", "gamma"}, {10, 8}}), "clay")
	assert.True(t, errors.Is(err, ErrSheet))

	_, err = SoilProfile(workbook(t, "Sheet1", [][]any{{"depth", "su"}, {1, "soft"}}), "clay")
	assert.True(t, errors.Is(err, ErrSheet))

	_, err = SoilProfile(workbook(t, "Sheet1", [][]any{{"depth", "su"}}), "clay")
	assert.True(t, errors.Is(err, ErrSheet))

	_, err = SoilProfile(workbook(t, "Sheet1", [][]any{{"depth", "su"}, {1, 10}}), "")
	assert.True(t, errors.Is(err, soil.ErrProfile))

	_, err = SoilProfile(bytes.NewBufferString("not a workbook"), "clay")
	assert.True(t, errors.Is(err, ErrSheet))
}

func upload(t *testing.T, buf *bytes.Buffer, soilType string) *http.Request {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "profile.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(buf.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("soil_type", soilType))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/tools/import/soil", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandlerSoil(t *testing.T) {
	rec := httptest.NewRecorder()
	buf := workbook(t, "Sheet1", [][]any{{"depth", "su", "gamma"}, {1, 10, 8}, {25, 50, 9}})
	(&Handler{}).Soil(rec, upload(t, buf, "clay"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
	assert.Contains(t, rec.Body.String(), `"bottom_m":25`)

	// gamma missing fails profile validation
	rec = httptest.NewRecorder()
	buf = workbook(t, "Sheet1", [][]any{{"depth", "su"}, {1, 10}})
	(&Handler{}).Soil(rec, upload(t, buf, "clay"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	(&Handler{}).Soil(rec, httptest.NewRequest(http.MethodPost, "/tools/import/soil", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
