package provider

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

const DefaultNylasAPI = "https://api.us.nylas.com"

// Nylas reads mail and calendars from the Nylas v3 API. Every call is
// scoped to a grant.
type Nylas struct {
	c *Client
}

func NewNylas(c *Client) *Nylas {
	return &Nylas{c: c}
}

type NylasMessage struct {
	ID         string
	From       string
	Subject    string
	Snippet    string
	ReceivedAt time.Time
}

type NylasEvent struct {
	ID           string
	Title        string
	Location     string
	StartsAt     time.Time
	EndsAt       time.Time
	Participants int
}

type nylasParticipant struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p nylasParticipant) String() string {
	if p.Name != "" {
		return p.Name + " <" + p.Email + ">"
	}
	return p.Email
}

// UnreadMessages returns the newest unread inbox messages.
func (n *Nylas) UnreadMessages(ctx context.Context, grantID string, limit int) ([]NylasMessage, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	q := url.Values{}
	q.Set("unread", "true")
	q.Set("in", "INBOX")
	q.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Data []struct {
			ID      string             `json:"id"`
			Subject string             `json:"subject"`
			Snippet string             `json:"snippet"`
			From    []nylasParticipant `json:"from"`
			Date    int64              `json:"date"`
		} `json:"data"`
	}
	if err := n.c.Get(ctx, "/v3/grants/"+url.PathEscape(grantID)+"/messages", q, &resp); err != nil {
		return nil, err
	}

	out := make([]NylasMessage, 0, len(resp.Data))
	for _, m := range resp.Data {
		msg := NylasMessage{
			ID:         m.ID,
			Subject:    m.Subject,
			Snippet:    m.Snippet,
			ReceivedAt: time.Unix(m.Date, 0).UTC(),
		}
		if len(m.From) > 0 {
			msg.From = m.From[0].String()
		}
		out = append(out, msg)
	}
	return out, nil
}

// EventsBetween lists primary-calendar events overlapping [start, end).
func (n *Nylas) EventsBetween(ctx context.Context, grantID string, start, end time.Time) ([]NylasEvent, error) {
	q := url.Values{}
	q.Set("calendar_id", "primary")
	q.Set("start", strconv.FormatInt(start.Unix(), 10))
	q.Set("end", strconv.FormatInt(end.Unix(), 10))
	q.Set("expand_recurring", "true")

	var resp struct {
		Data []struct {
			ID           string             `json:"id"`
			Title        string             `json:"title"`
			Location     string             `json:"location"`
			Status       string             `json:"status"`
			Participants []nylasParticipant `json:"participants"`
			When         struct {
				StartTime int64  `json:"start_time"`
				EndTime   int64  `json:"end_time"`
				Date      string `json:"date"`
			} `json:"when"`
		} `json:"data"`
	}
	if err := n.c.Get(ctx, "/v3/grants/"+url.PathEscape(grantID)+"/events", q, &resp); err != nil {
		return nil, err
	}

	out := make([]NylasEvent, 0, len(resp.Data))
	for _, e := range resp.Data {
		if e.Status == "cancelled" {
			continue
		}
		ev := NylasEvent{ID: e.ID, Title: e.Title, Location: e.Location, Participants: len(e.Participants)}
		switch {
		case e.When.StartTime > 0:
			ev.StartsAt = time.Unix(e.When.StartTime, 0).UTC()
			ev.EndsAt = time.Unix(e.When.EndTime, 0).UTC()
		case e.When.Date != "":
			// All-day event.
			if d, err := time.Parse(time.DateOnly, e.When.Date); err == nil {
				ev.StartsAt = d
				ev.EndsAt = d.Add(24 * time.Hour)
			}
		}
		out = append(out, ev)
	}
	return out, nil
}
