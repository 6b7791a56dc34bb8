package provider

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultGoogleDriveAPI  = "https://www.googleapis.com/drive/v3"
	DefaultGoogleUserInfo  = "https://www.googleapis.com/oauth2/v2/userinfo"
	driveRecentFilesFields = "files(id,name,mimeType,webViewLink,modifiedTime,lastModifyingUser(displayName))"
)

// Drive reads file metadata from Google Drive v3.
type Drive struct {
	c           *Client
	userInfoURL string
}

func NewDrive(c *Client, userInfoURL string) *Drive {
	if userInfoURL == "" {
		userInfoURL = DefaultGoogleUserInfo
	}
	return &Drive{c: c, userInfoURL: userInfoURL}
}

type DriveFile struct {
	ID         string
	Name       string
	MimeType   string
	URL        string
	ModifiedAt time.Time
	ModifiedBy string
}

type GoogleUserInfo struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RecentFiles lists non-trashed files modified after since, newest first.
func (d *Drive) RecentFiles(ctx context.Context, since time.Time, limit int) ([]DriveFile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := url.Values{}
	q.Set("q", "modifiedTime > '"+since.UTC().Format(time.RFC3339)+"' and trashed = false")
	q.Set("orderBy", "modifiedTime desc")
	q.Set("pageSize", strconv.Itoa(limit))
	q.Set("fields", driveRecentFilesFields)

	var resp struct {
		Files []struct {
			ID                string    `json:"id"`
			Name              string    `json:"name"`
			MimeType          string    `json:"mimeType"`
			WebViewLink       string    `json:"webViewLink"`
			ModifiedTime      time.Time `json:"modifiedTime"`
			LastModifyingUser *struct {
				DisplayName string `json:"displayName"`
			} `json:"lastModifyingUser"`
		} `json:"files"`
	}
	if err := d.c.Get(ctx, "/files", q, &resp); err != nil {
		return nil, err
	}

	out := make([]DriveFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		file := DriveFile{
			ID:         f.ID,
			Name:       f.Name,
			MimeType:   f.MimeType,
			URL:        f.WebViewLink,
			ModifiedAt: f.ModifiedTime,
		}
		if f.LastModifyingUser != nil {
			file.ModifiedBy = f.LastModifyingUser.DisplayName
		}
		out = append(out, file)
	}
	return out, nil
}

// UserInfo returns the Google account behind the token.
func (d *Drive) UserInfo(ctx context.Context) (GoogleUserInfo, error) {
	var info GoogleUserInfo
	if err := d.c.Get(ctx, d.userInfoURL, nil, &info); err != nil {
		return GoogleUserInfo{}, err
	}
	return info, nil
}
