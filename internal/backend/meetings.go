package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type createMeetingBody struct {
	Title       string      `json:"title"`
	MeetingType MeetingType `json:"meeting_type"`
	Date        string      `json:"date"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	Room        string      `json:"room,omitempty"`
}

// CreateMeeting schedules a meeting for the caller's team.
func (c *Client) CreateMeeting(ctx context.Context, tgID int64, m NewMeeting) (Meeting, error) {
	body := createMeetingBody{
		Title:       m.Title,
		MeetingType: m.Type,
		Date:        m.Date,
		StartTime:   m.StartTime,
		EndTime:     m.EndTime,
	}
	if m.Type == MeetingOffline {
		body.Room = m.Room
	}
	var out Meeting
	err := c.do(ctx, request{op: "meetings.create", method: http.MethodPost, path: "/meetings", query: caller(tgID), body: body}, &out)
	return out, err
}

// AvailableSlots lists the free slots of room on date (YYYY-MM-DD).
func (c *Client) AvailableSlots(ctx context.Context, room, date string) ([]Slot, error) {
	q := url.Values{"room": {room}, "date": {date}}
	var resp struct {
		AvailableSlots []Slot `json:"available_slots"`
	}
	err := c.do(ctx, request{op: "meetings.slots", method: http.MethodGet, path: "/meetings/available-slots", query: q}, &resp)
	return resp.AvailableSlots, err
}

// MyMeetings lists the meetings of the caller's team.
func (c *Client) MyMeetings(ctx context.Context, tgID int64) ([]Meeting, error) {
	var meetings []Meeting
	err := c.do(ctx, request{op: "meetings.my", method: http.MethodGet, path: "/meetings/my", query: caller(tgID)}, &meetings)
	return meetings, err
}

// DeleteMeeting cancels a meeting.
func (c *Client) DeleteMeeting(ctx context.Context, tgID int64, meetingID uint) error {
	path := fmt.Sprintf("/meetings/%d", meetingID)
	return c.do(ctx, request{op: "meetings.delete", method: http.MethodDelete, path: path, query: caller(tgID)}, nil)
}
