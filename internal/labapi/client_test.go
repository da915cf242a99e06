package labapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/lab_scheduler_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*60*60)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Options{BaseURL: srv.URL, Location: manila, CSRFToken: "tok"})
	require.NoError(t, err)
	return c, srv
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "/api"})
	assert.Error(t, err)
}

func TestSchedule_RequestShape(t *testing.T) {
	var gotQuery, gotRequested, gotRequestID string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/schedule", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Empty(t, r.Header.Get(headerCSRF))
		gotQuery = r.URL.RawQuery
		gotRequested = r.Header.Get(headerRequestedWith)
		gotRequestID = r.Header.Get(headerRequestID)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":7,"title":"Networking - BSIT 2A","instructor":"J. Cruz","lab":"Computer Lab 1",
			"start":"2024-06-12T09:00:00","end":"2024-06-12T10:30:00","status":"approved","color":"#28a745"}]`)
	}))

	events, err := c.Schedule(context.Background(), "", time.Date(2024, 6, 12, 23, 30, 0, 0, c.Location()))
	require.NoError(t, err)

	assert.Equal(t, "date=2024-06-12&lab_id=all", gotQuery)
	assert.Equal(t, "XMLHttpRequest", gotRequested)
	assert.Len(t, gotRequestID, 36)

	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, int64(7), e.ID)
	assert.True(t, e.IsApproved())
	assert.Equal(t, time.Date(2024, 6, 12, 9, 0, 0, 0, c.Location()), e.Start)
	assert.Equal(t, 90*time.Minute, e.Duration())
}

func TestSchedule_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusInternalServerError, se.Status)
				assert.Contains(t, se.Body, "boom")
			},
		},
		{
			name: "redirect to login",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/login?next=%2Fapi%2Fschedule", http.StatusFound)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrUnauthorized)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, `[{"id":1,"start":"not a date","end":"2024-06-12T10:00:00"}]`)
			},
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "event 1 start")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)
			_, err := c.Schedule(context.Background(), "1", time.Now())
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestNotifications_Decode(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"notifications":[
			{"id":1,"title":"Reservation Approved","message":"ok","created_at":"2024-06-12T08:15:00.123456","is_read":false,"reservation_id":5},
			{"id":2,"title":"Old","message":"x","created_at":"garbage","is_read":true,"reservation_id":null}
		],"unread_count":1}`)
	}))

	list, err := c.Notifications(context.Background())
	require.NoError(t, err)
	require.Len(t, list.Notifications, 2)
	assert.Equal(t, 1, list.UnreadCount)

	first := list.Notifications[0]
	require.NotNil(t, first.ReservationID)
	assert.Equal(t, int64(5), *first.ReservationID)
	assert.Equal(t, 8, first.CreatedAt.Hour())
	assert.Nil(t, list.Notifications[1].ReservationID)
	assert.True(t, list.Notifications[1].CreatedAt.IsZero())
}

func TestActions_SendCSRFAndDecodeResult(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodPost {
			assert.Equal(t, "tok", r.Header.Get(headerCSRF))
		}
		if strings.Contains(r.URL.Path, "reject") {
			fmt.Fprint(w, `{"success":false,"message":"Access denied"}`)
			return
		}
		fmt.Fprint(w, `{"success":true}`)
	}))
	ctx := context.Background()

	require.NoError(t, c.MarkRead(ctx, 3))
	require.NoError(t, c.MarkAllRead(ctx))
	require.NoError(t, c.ClearAll(ctx))
	require.NoError(t, c.ApproveRequest(ctx, 9))

	err := c.RejectRequest(ctx, 9)
	var ae *ActionError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Access denied", ae.Message)

	assert.Equal(t, []string{
		"POST /notifications/mark_read/3",
		"POST /notifications/mark_all_read",
		"POST /notifications/clear_all",
		"GET /admin/approve_request/9",
		"GET /admin/reject_request/9",
	}, paths)
}

func TestExportSchedule_Filename(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pdf", r.URL.Query().Get("format"))
		if r.URL.Query().Get("lab_id") == "2" {
			w.Header().Set("Content-Disposition", `attachment; filename="lab2.pdf"`)
		}
		w.Header().Set("Content-Type", "application/pdf")
		fmt.Fprint(w, "%PDF-1.4")
	}))
	date := time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)

	blob, err := c.ExportSchedule(context.Background(), "2", date, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "lab2.pdf", blob.Filename)
	assert.Equal(t, "application/pdf", blob.ContentType)
	assert.Equal(t, []byte("%PDF-1.4"), blob.Data)

	blob, err = c.ExportSchedule(context.Background(), "all", date, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "schedule-2024-06-12.pdf", blob.Filename)
}

func TestExportNotifications_FallbackName(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/notifications/export", r.URL.Path)
		assert.Equal(t, "csv", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "text/csv")
		fmt.Fprint(w, "id,title\n1,Reservation Approved\n")
	}))

	blob, err := c.ExportNotifications(context.Background(), "csv", time.Date(2024, 6, 12, 9, 0, 0, 0, manila))
	require.NoError(t, err)
	assert.Equal(t, "notifications-2024-06-12.csv", blob.Filename)
	assert.Equal(t, "text/csv", blob.ContentType)
}

func TestLogin(t *testing.T) {
	const page = `<form><input id="csrf_token" name="csrf_token" type="hidden" value="abc123"></form>`

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "success", password: "secret"},
		{name: "wrong password", password: "nope", wantErr: ErrLoginFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodGet {
					fmt.Fprint(w, page)
					return
				}
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "abc123", r.PostForm.Get("csrf_token"))
				if r.PostForm.Get("password") != "secret" {
					fmt.Fprint(w, page)
					return
				}
				http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
				http.Redirect(w, r, "/dashboard", http.StatusFound)
			}))

			err := c.Login(context.Background(), "jcruz", tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "abc123", c.CSRFToken())
			assert.Equal(t, "session=s1", c.Session())
		})
	}
}

func TestSessionCookieRestored(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie("session")
		if err != nil || ck.Value != "s1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"notifications":[],"unread_count":0}`)
	}))

	_, err := c.Notifications(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	restored, err := NewClient(Options{BaseURL: c.base.String(), SessionCookie: "session=s1"})
	require.NoError(t, err)
	_, err = restored.Notifications(context.Background())
	assert.NoError(t, err)
}

func TestExtractCSRF(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{"hidden input", `<input name="csrf_token" type="hidden" value="v1"/>`, "v1"},
		{"value first", `<input value='v2' type="hidden" name='csrf_token'>`, "v2"},
		{"unquoted attributes", `<form><input type=hidden value=v5 id=csrf_token name=csrf_token></form>`, "v5"},
		{"other inputs before", `<input name="username" value="u"><input
			id="csrf_token"
			name="csrf_token" value="v6">`, "v6"},
		{"meta tag", `<head><meta content="v3" name="csrf-token"></head>`, "v3"},
		{"input wins over meta", `<meta name="csrf-token" content="m"><input name="csrf_token" value="v4">`, "v4"},
		{"absent", `<form></form>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCSRF([]byte(tt.page)))
		})
	}
}

func TestExtractFlash(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			"nested markup",
			`<div class="container"><div class="alert alert-danger alert-dismissible fade show" role="alert">
				Conflict with <strong>Networking - BSIT 2A</strong> at 09:00.
				<button type="button" class="close" data-dismiss="alert"><span aria-hidden="true">&times;</span></button>
			</div></div>`,
			"Conflict with Networking - BSIT 2A at 09:00.",
		},
		{"single quoted warning", `<div role='alert' class='alert-warning alert'>Lab is closed</div>`, "Lab is closed"},
		{"success ignored", `<div class="alert alert-success">Saved</div>`, ""},
		{"class prefix is not a match", `<div class="alert-danger-outline">x</div>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractFlash([]byte(tt.page)))
		})
	}
}

func TestReport(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/reports/peak-hours":
			fmt.Fprint(w, `[{"hour":9,"count":4},{"hour":14,"count":2}]`)
		case "/api/reports/monthly-usage":
			fmt.Fprint(w, `[{"month":"2024-06","count":11}]`)
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	ctx := context.Background()

	rows, err := c.Report(ctx, ReportPeakHours)
	require.NoError(t, err)
	assert.Equal(t, []model.UsageRow{{Label: "09:00", Count: 4}, {Label: "14:00", Count: 2}}, rows)

	rows, err = c.Report(ctx, ReportMonthlyUsage)
	require.NoError(t, err)
	assert.Equal(t, []model.UsageRow{{Label: "2024-06", Count: 11}}, rows)

	_, err = c.Report(ctx, ReportInstructorUsage)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.Status)

	_, err = c.Report(ctx, "weekly")
	assert.Error(t, err)
}

func TestStream_DispatchesFrames(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, ": keep-alive\n\n")
		fmt.Fprint(w, `data: {"type":"new_notification","notification":{"id":4,"title":"Reservation Approved","message":"m","created_at":"2024-06-12T08:00:00","is_read":false}}`+"\n\n")
		fmt.Fprint(w, "data: not json\n\n")
		fmt.Fprint(w, `data: {"type":"heartbeat"}`+"\n\n")
	}))

	var got []model.StreamEvent
	err := c.Stream(context.Background(), func(ev model.StreamEvent) {
		got = append(got, ev)
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.StreamEventNewNotification, got[0].Type)
	require.NotNil(t, got[0].Notification)
	assert.Equal(t, int64(4), got[0].Notification.ID)
	assert.Equal(t, "heartbeat", got[1].Type)
	assert.Nil(t, got[1].Notification)
}

func TestReadEvents_MultilineData(t *testing.T) {
	var frames []string
	err := readEvents(strings.NewReader("data: a\ndata: b\n\ndata: c"), func(data string) {
		frames = append(frames, data)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a\nb", "c"}, frames)
}

func TestSubmitReservation(t *testing.T) {
	loc := time.UTC
	valid := model.ReservationDraft{
		LabID:      1,
		CourseName: "Networking",
		Section:    "BSIT 2A",
		Start:      time.Date(2024, 6, 12, 9, 0, 0, 0, loc),
		End:        time.Date(2024, 6, 12, 10, 30, 0, 0, loc),
	}

	t.Run("redirect is success", func(t *testing.T) {
		var posted int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				fmt.Fprint(w, `<input name="csrf_token" value="form-tok">`)
				return
			}
			atomic.AddInt32(&posted, 1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "form-tok", r.PostForm.Get("csrf_token"))
			assert.Equal(t, "1", r.PostForm.Get("lab_id"))
			assert.Equal(t, "Networking", r.PostForm.Get("course_name"))
			assert.Equal(t, "2024-06-12 17:00", r.PostForm.Get("start_time"))
			http.Redirect(w, r, "/dashboard", http.StatusFound)
		}))
		require.NoError(t, c.SubmitReservation(context.Background(), valid))
		assert.Equal(t, int32(1), atomic.LoadInt32(&posted))
	})

	t.Run("server field errors", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"success":false,"errors":{"section":["Field cannot be longer than 50 characters."]}}`)
		}))
		err := c.SubmitReservation(context.Background(), valid)
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, []string{"section"}, fe.Fields())
	})

	t.Run("conflict flash", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				fmt.Fprint(w, `<div class="alert alert-danger alert-dismissible">There is a scheduling conflict with an existing reservation.<button>`)
			}
		}))
		err := c.SubmitReservation(context.Background(), valid)
		var ae *ActionError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "There is a scheduling conflict with an existing reservation.", ae.Message)
	})

	t.Run("client validation skips request", func(t *testing.T) {
		var calls int32
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
		}))
		bad := valid
		bad.CourseName = ""
		bad.End = bad.Start
		err := c.SubmitReservation(context.Background(), bad)
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, []string{"course_name", "end_time"}, fe.Fields())
		assert.Zero(t, atomic.LoadInt32(&calls))
	})
}
