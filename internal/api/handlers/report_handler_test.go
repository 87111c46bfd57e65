package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Githubtestacc12/reorder-dashboard/internal/api"
	"github.com/Githubtestacc12/reorder-dashboard/internal/api/handlers"
	"github.com/Githubtestacc12/reorder-dashboard/internal/domain"
	"github.com/Githubtestacc12/reorder-dashboard/internal/service"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	table := domain.NewTable([]string{
		domain.ColCustomer,
		domain.ColItem,
		domain.ColStatus,
		domain.ColDaysUntilOut,
		domain.ColSuggestedQty,
		domain.ColLastDue,
	})
	table.Append(domain.Row{
		domain.TextCell("A"),
		domain.TextCell("W-1"),
		domain.TextCell(domain.StatusReorderSoon),
		domain.NumberCell(2),
		domain.NumberCell(10),
		domain.DateCell(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)),
	})
	table.Append(domain.Row{
		domain.TextCell("B"),
		domain.TextCell("K-2"),
		domain.TextCell(domain.StatusOK),
		domain.NumberCell(30),
		domain.NumberCell(5),
		domain.DateCell(time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC)),
	})

	svc := service.NewReportService(table, 5)
	handler := handlers.NewReportHandler(svc, t.TempDir())
	return api.NewRouter(handler, nil)
}

func doGET(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetReportFiltered(t *testing.T) {
	router := testRouter(t)

	w := doGET(t, router, "/api/v1/report?status=Reorder+Soon")
	require.Equal(t, http.StatusOK, w.Code)

	var view domain.ReportView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Len(t, view.Rows, 1)
	assert.Equal(t, 1, view.Summary.TotalItems)
	assert.Equal(t, 1, view.Summary.NeedReorder)
	assert.Contains(t, view.Columns, domain.ColSuggestedReorder)
}

func TestGetReportExplicitEmptySelectionExcludesEverything(t *testing.T) {
	router := testRouter(t)

	w := doGET(t, router, "/api/v1/report?customers=")
	require.Equal(t, http.StatusOK, w.Code)

	var view domain.ReportView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Empty(t, view.Rows)
	assert.Equal(t, domain.Summary{}, view.Summary)
}

func TestGetReportCommaSeparatedSelection(t *testing.T) {
	router := testRouter(t)

	w := doGET(t, router, "/api/v1/report?customers=A,B&max_days=10")
	require.Equal(t, http.StatusOK, w.Code)

	var view domain.ReportView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	assert.Len(t, view.Rows, 1)
	assert.Equal(t, "A", view.Rows[0][0])
}

func TestGetSummary(t *testing.T) {
	router := testRouter(t)

	w := doGET(t, router, "/api/v1/report/summary")
	require.Equal(t, http.StatusOK, w.Code)

	var summary domain.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, domain.Summary{TotalItems: 2, NeedReorder: 1, AvgDaysUntilOut: 16, TotalSuggestedQty: 15}, summary)
}

func TestGetCharts(t *testing.T) {
	router := testRouter(t)

	w := doGET(t, router, "/api/v1/report/charts?q=w-1")
	require.Equal(t, http.StatusOK, w.Code)

	var charts domain.ReportCharts
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &charts))
	require.Len(t, charts.StatusShare, 1)
	assert.Equal(t, domain.StatusReorderSoon, charts.StatusShare[0].Status)
}

func TestGetFacets(t *testing.T) {
	router := testRouter(t)

	w := doGET(t, router, "/api/v1/report/facets?customers=B")
	require.Equal(t, http.StatusOK, w.Code)

	var facets domain.Facets
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &facets))
	assert.Equal(t, []string{"A", "B"}, facets.Customers)
	assert.Equal(t, []string{"K-2"}, facets.Items)
	assert.Equal(t, 30, facets.MaxDays)
}

func TestExportCSVDownload(t *testing.T) {
	router := testRouter(t)

	w := doGET(t, router, "/api/v1/report/export?status=OK")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "filtered_reorder_report.csv")

	body := w.Body.String()
	assert.Contains(t, body, "Customer,Item,Status,Days Until Out,Suggested Reorder Date,Suggested Order Qty,Last Due\n")
	assert.Contains(t, body, "B,K-2,OK,30,")
	assert.NotContains(t, body, "Reorder Soon")
}

func uploadBody(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"Customer", "Item", "Status", "Days Until Out", "Suggested Order Qty"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	row := []interface{}{"Z", "N-9", "OK", 12, 3}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	workbook, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "new_report.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &body, mw.FormDataContentType()
}

func TestUploadReplacesWorkingTableAndShowsRaw(t *testing.T) {
	router := testRouter(t)

	body, contentType := uploadBody(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/report/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// the raw preview carries no derived column
	assert.NotContains(t, resp.Columns, domain.ColSuggestedReorder)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "Z", resp.Rows[0][0])

	// subsequent views run the full pipeline over the new table
	view := doGET(t, router, "/api/v1/report")
	var parsed domain.ReportView
	require.NoError(t, json.Unmarshal(view.Body.Bytes(), &parsed))
	require.Len(t, parsed.Rows, 1)
	assert.Equal(t, "Z", parsed.Rows[0][0])
	assert.Contains(t, parsed.Columns, domain.ColSuggestedReorder)
}

func TestUploadWithoutFileIsBadRequest(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/report/upload", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
