package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionController_CreateSession(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
		wantSubstr string
	}{
		{
			name:       "success",
			body:       `{"name":"Intro","speaker":"sp1","typeOfSession":"Keynote","date":"2026-06-02","startTime":"09:30","duration":45}`,
			wantStatus: http.StatusCreated,
		},
		{name: "missing required fields", body: `{"highlights":"x"}`, wantStatus: http.StatusBadRequest, wantSubstr: "name is required; date is required; startTime is required"},
		{name: "negative duration", body: `{"name":"A","date":"2026-06-02","startTime":"09:00","duration":-5}`, wantStatus: http.StatusBadRequest, wantSubstr: "duration"},
		{
			name:       "not organizer",
			body:       `{"name":"A","date":"2026-06-02","startTime":"09:00"}`,
			fakeErr:    fmt.Errorf("%w: only the conference organizer can add sessions", domain.ErrForbidden),
			wantStatus: http.StatusForbidden,
			wantSubstr: "organizer",
		},
		{
			name:       "speaker missing",
			body:       `{"name":"A","date":"2026-06-02","startTime":"09:00","speaker":"nobody"}`,
			fakeErr:    fmt.Errorf("speaker: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantSubstr: "speaker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSessionService{view: &domain.SessionView{WebsafeKey: "sk1", Name: "Intro"}, err: tt.fakeErr}
			ctrl := NewSessionController(testLogger, fake)
			rr := httptest.NewRecorder()
			req := newRequest(http.MethodPost, "/conferences/ck1/sessions", tt.body, &testIdentity, map[string]string{"key": "ck1"})

			ctrl.CreateSession(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var got domain.SessionView
			apiErr := decodeEnvelope(t, rr, &got)
			if tt.wantStatus != http.StatusCreated {
				require.NotNil(t, apiErr)
				assert.Contains(t, apiErr.Message, tt.wantSubstr)
				return
			}
			assert.Equal(t, "sk1", got.WebsafeKey)
			assert.Equal(t, "user-123", fake.lastUserID)
			assert.Equal(t, "ck1", fake.lastKey)
			assert.Equal(t, domain.SessionInput{
				Name: "Intro", Speaker: "sp1", TypeOfSession: "Keynote", Date: "2026-06-02", StartTime: "09:30", Duration: 45,
			}, fake.lastInput)
		})
	}
}

func TestSessionController_Lists(t *testing.T) {
	views := []*domain.SessionView{{Name: "A", Speaker: "TBA"}, {Name: "B", Speaker: "Jane"}}

	t.Run("by conference", func(t *testing.T) {
		fake := &fakeSessionService{views: views}
		rr := httptest.NewRecorder()
		NewSessionController(testLogger, fake).ListSessions(rr,
			newRequest(http.MethodGet, "/conferences/ck1/sessions", "", nil, map[string]string{"key": "ck1"}))
		require.Equal(t, http.StatusOK, rr.Code)
		var got []domain.SessionView
		require.Nil(t, decodeEnvelope(t, rr, &got))
		assert.Len(t, got, 2)
		assert.Equal(t, "TBA", got[0].Speaker)
	})

	t.Run("by type", func(t *testing.T) {
		fake := &fakeSessionService{views: views}
		rr := httptest.NewRecorder()
		NewSessionController(testLogger, fake).ListSessionsByType(rr,
			newRequest(http.MethodGet, "/conferences/ck1/sessions/type/Workshop", "", nil, map[string]string{"key": "ck1", "type": "Workshop"}))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "Workshop", fake.lastType)
	})

	t.Run("by unknown type", func(t *testing.T) {
		fake := &fakeSessionService{err: fmt.Errorf("%w: session type %q", domain.ErrUnknownEnumValue, "Party")}
		rr := httptest.NewRecorder()
		NewSessionController(testLogger, fake).ListSessionsByType(rr,
			newRequest(http.MethodGet, "/conferences/ck1/sessions/type/Party", "", nil, map[string]string{"key": "ck1", "type": "Party"}))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("by speaker", func(t *testing.T) {
		fake := &fakeSessionService{views: views}
		rr := httptest.NewRecorder()
		NewSessionController(testLogger, fake).ListSessionsBySpeaker(rr,
			newRequest(http.MethodGet, "/sessions/speaker/pk1", "", nil, map[string]string{"speakerKey": "pk1"}))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "pk1", fake.lastKey)
	})

	t.Run("speaking requires identity", func(t *testing.T) {
		fake := &fakeSessionService{views: views}
		ctrl := NewSessionController(testLogger, fake)

		rr := httptest.NewRecorder()
		ctrl.ListSpeaking(rr, newRequest(http.MethodGet, "/conferences/ck1/sessions/speaking", "", nil, map[string]string{"key": "ck1"}))
		require.Equal(t, http.StatusUnauthorized, rr.Code)

		rr = httptest.NewRecorder()
		ctrl.ListSpeaking(rr, newRequest(http.MethodGet, "/conferences/ck1/sessions/speaking", "", &testIdentity, map[string]string{"key": "ck1"}))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user-123", fake.lastUserID)
	})
}

func TestSessionController_QuerySessions(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		fakeErr    error
		wantStatus int
	}{
		{name: "success", body: `{"filters":[{"field":"TYPE_OF_SESSION","operator":"NE","value":"Workshop"},{"field":"START_TIME","operator":"LT","value":"19:00"}]}`, wantStatus: http.StatusOK},
		{name: "range on type", body: `{"filters":[{"field":"TYPE_OF_SESSION","operator":"GT","value":"Workshop"}]}`, fakeErr: domain.ErrUnsupportedOperator, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: `{"filters":"all"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeSessionService{views: []*domain.SessionView{{Name: "A"}}, err: tt.fakeErr}
			rr := httptest.NewRecorder()
			NewSessionController(testLogger, fake).QuerySessions(rr,
				newRequest(http.MethodPost, "/conferences/ck1/sessions/query", tt.body, nil, map[string]string{"key": "ck1"}))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				require.Len(t, fake.lastFilters, 2)
				assert.Equal(t, "START_TIME", fake.lastFilters[1].Field)
			}
		})
	}
}
