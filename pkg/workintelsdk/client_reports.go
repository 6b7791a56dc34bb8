package workintelsdk

import (
	"context"
	"net/http"
	"net/url"
)

// GenerateReport builds (or rebuilds) the weekly report. An empty weekStart
// means the current week.
func (c *Client) GenerateReport(ctx context.Context, teamID, weekStart string) (*ReportResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, teamPath(teamID)+"/reports", GenerateReportRequest{WeekStart: weekStart})
	if err != nil {
		return nil, err
	}

	var report ReportResponse
	if err := decodeJSON(resp, &report, http.StatusOK); err != nil {
		return nil, err
	}

	return &report, nil
}

// ListReports returns the latest reports, newest week first.
func (c *Client) ListReports(ctx context.Context, teamID string) ([]ReportResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, teamPath(teamID)+"/reports", nil, nil)
	if err != nil {
		return nil, err
	}

	var out ReportListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out.Reports, nil
}

func (c *Client) GetReport(ctx context.Context, teamID, reportID string) (*ReportResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, teamPath(teamID)+"/reports/"+url.PathEscape(reportID), nil, nil)
	if err != nil {
		return nil, err
	}

	var report ReportResponse
	if err := decodeJSON(resp, &report, http.StatusOK); err != nil {
		return nil, err
	}

	return &report, nil
}
