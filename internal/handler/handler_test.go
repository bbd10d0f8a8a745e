package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"backoffice/internal/attendance"
	"backoffice/internal/auth"
	"backoffice/internal/handler"
	"backoffice/internal/leads"
	"backoffice/internal/queue"
	"backoffice/internal/users"
)

// fakes

type userStore struct {
	mu     sync.Mutex
	nextID int64
	byName map[string]*users.User
	byID   map[int64]*users.User
}

func newUserStore() *userStore {
	return &userStore{byName: map[string]*users.User{}, byID: map[int64]*users.User{}}
}

func (s *userStore) Create(_ context.Context, name, role, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := &users.User{ID: s.nextID, Name: name, Role: role, PasswordHash: passwordHash}
	s.byName[name] = u
	s.byID[u.ID] = u
	return nil
}

func (s *userStore) GetByName(_ context.Context, name string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byName[name]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *userStore) GetByID(_ context.Context, id int64) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *userStore) List(context.Context) ([]users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []users.User
	for id := int64(1); id <= s.nextID; id++ {
		if u, ok := s.byID[id]; ok {
			res = append(res, users.User{ID: u.ID, Name: u.Name, Role: u.Role})
		}
	}
	return res, nil
}

func (s *userStore) HasRole(_ context.Context, id int64, role string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	return ok && u.Role == role, nil
}

type attStore struct {
	mu   sync.Mutex
	recs map[string]*attendance.Record
}

func newAttStore() *attStore {
	return &attStore{recs: map[string]*attendance.Record{}}
}

func attKey(userID int64, date string) string {
	return fmt.Sprintf("%d|%s", userID, date)
}

func (s *attStore) Create(_ context.Context, rec attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := attKey(rec.UserID, rec.Date)
	if _, ok := s.recs[key]; ok {
		return attendance.ErrAlreadyRecorded
	}
	s.recs[key] = &rec
	return nil
}

func (s *attStore) Mutate(_ context.Context, userID int64, date string, fn func(*attendance.Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.recs[attKey(userID, date)]
	if !ok {
		return attendance.ErrNoRecordForToday
	}
	work := *rec
	if err := fn(&work); err != nil {
		return err
	}
	*rec = work
	return nil
}

func (s *attStore) ApplyLeave(_ context.Context, userID int64, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.recs[attKey(userID, date)]; ok {
		leave := "Leave"
		rec.LeaveApplied = &leave
	}
	return nil
}

func (s *attStore) ListByUser(_ context.Context, userID int64) ([]attendance.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []attendance.Record
	for _, rec := range s.recs {
		if rec.UserID == userID {
			res = append(res, *rec)
		}
	}
	return res, nil
}

func (s *attStore) Overview(context.Context) ([]attendance.OverviewRow, error) {
	return nil, nil
}

type leadStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*leads.Lead
	notes  []leads.Notification
}

func newLeadStore() *leadStore {
	return &leadStore{byID: map[int64]*leads.Lead{}}
}

func (s *leadStore) Insert(_ context.Context, l leads.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l.ID = s.nextID
	s.byID[l.ID] = &l
	return nil
}

func (s *leadStore) List(context.Context) ([]leads.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []leads.Lead
	for id := int64(1); id <= s.nextID; id++ {
		if l, ok := s.byID[id]; ok {
			res = append(res, *l)
		}
	}
	return res, nil
}

func (s *leadStore) ListByAgent(_ context.Context, agentID int64) ([]leads.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := strconv.FormatInt(agentID, 10)
	var res []leads.Lead
	for id := int64(1); id <= s.nextID; id++ {
		if l, ok := s.byID[id]; ok && l.AssignedTo == owner {
			res = append(res, *l)
		}
	}
	return res, nil
}

func (s *leadStore) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.byID[id]
	return ok, nil
}

func (s *leadStore) AssignAgent(_ context.Context, leadIDs []int64, agentID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner := strconv.FormatInt(agentID, 10)
	var n int64
	for _, id := range leadIDs {
		if l, ok := s.byID[id]; ok {
			l.AssignedTo = owner
			n++
		}
	}
	return n, nil
}

func (s *leadStore) UpdateFollowUp(_ context.Context, id int64, remark, status string) (*leads.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[id]
	if !ok {
		return nil, leads.ErrNotFound
	}
	l.Remark = &remark
	l.Status = &status
	copied := *l
	return &copied, nil
}

func (s *leadStore) UpdateStatusForAgent(_ context.Context, id, agentID int64, status, remark string) (*leads.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[id]
	if !ok || l.AssignedTo != strconv.FormatInt(agentID, 10) {
		return nil, leads.ErrNotFound
	}
	l.Status = &status
	l.Remark = &remark
	copied := *l
	return &copied, nil
}

func (s *leadStore) InsertNotification(_ context.Context, n leads.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
	return nil
}

func (s *leadStore) ListNotifications(_ context.Context, agentID int64) ([]leads.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []leads.Notification
	for _, n := range s.notes {
		if n.AgentID == agentID {
			res = append(res, n)
		}
	}
	return res, nil
}

// fixture

type env struct {
	router *gin.Engine
	keys   auth.Keys
	users  *userStore
	leads  *leadStore
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	keys := auth.Keys{
		Issuer:        "backoffice-test",
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    7 * 24 * time.Hour,
	}
	us := newUserStore()
	ls := newLeadStore()
	userSvc := users.NewService(us)
	attSvc := attendance.NewService(newAttStore())
	leadSvc := leads.NewService(ls, userSvc, queue.NewInMemory(8))

	r := gin.New()
	handler.New(keys, userSvc, attSvc, leadSvc, nil).Register(r)
	return &env{router: r, keys: keys, users: us, leads: ls}
}

func (e *env) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) createUser(t *testing.T, name, password, role string) int64 {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/create-user", gin.H{
		"username": name, "password": password, "role": role,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create-user %s: status = %d, body %s", name, w.Code, w.Body.String())
	}
	u, err := e.users.GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	return u.ID
}

func (e *env) tokenFor(t *testing.T, id int64, role string) string {
	t.Helper()
	pair, err := e.keys.Issue(id, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return pair.AccessToken
}

// tests

func TestLoginFlow(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "alice", "s3cret", "Agent")

	w := e.do(t, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "s3cret"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
		Role         string `json:"role"`
		UserID       int64  `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" || resp.RefreshToken == "" || resp.Role != "Agent" || resp.UserID != 1 {
		t.Errorf("resp = %+v", resp)
	}

	claims, err := e.keys.ParseAccess(resp.Token)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != 1 || claims.Role != "Agent" {
		t.Errorf("claims = %+v", claims)
	}

	if w := e.do(t, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "wrong"}, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d", w.Code)
	}
	if w := e.do(t, http.MethodPost, "/api/login", gin.H{"username": "nobody", "password": "x"}, ""); w.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d", w.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	e := newEnv(t)
	e.createUser(t, "alice", "s3cret", "Agent")

	login := e.do(t, http.MethodPost, "/api/login", gin.H{"username": "alice", "password": "s3cret"}, "")
	var lr struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &lr); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	w := e.do(t, http.MethodPost, "/api/refresh-token", gin.H{"refreshToken": lr.RefreshToken}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body %s", w.Code, w.Body.String())
	}
	var rr struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &rr); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if _, err := e.keys.ParseAccess(rr.AccessToken); err != nil {
		t.Errorf("refreshed token invalid: %v", err)
	}

	if w := e.do(t, http.MethodPost, "/api/refresh-token", gin.H{"refreshToken": "garbage"}, ""); w.Code != http.StatusForbidden {
		t.Errorf("bad refresh status = %d", w.Code)
	}
	if w := e.do(t, http.MethodPost, "/api/refresh-token", gin.H{}, ""); w.Code != http.StatusForbidden {
		t.Errorf("empty refresh status = %d", w.Code)
	}
}

func TestAttendanceLifecycle(t *testing.T) {
	e := newEnv(t)
	id := e.createUser(t, "alice", "pw", "Agent")

	w := e.do(t, http.MethodPost, "/api/attendance/login", gin.H{"userId": id}, "")
	if w.Code != http.StatusCreated || w.Body.String() != "Attendance recorded" {
		t.Fatalf("login: status = %d, body %q", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/attendance/login", gin.H{"userId": id}, "")
	if w.Code != http.StatusBadRequest || w.Body.String() != "Attendance for today already recorded" {
		t.Errorf("duplicate login: status = %d, body %q", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/attendance/%d", id), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("history status = %d", w.Code)
	}
	var recs []attendance.Record
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(recs) != 1 || recs[0].Status != "Present" {
		t.Errorf("history = %+v", recs)
	}

	w = e.do(t, http.MethodPost, "/api/attendance/break", gin.H{"userId": id, "breakType": "lunch"}, "")
	if w.Code != http.StatusOK || w.Body.String() != "Lunch break started" {
		t.Errorf("break: status = %d, body %q", w.Code, w.Body.String())
	}
}

func TestBreakEchoesRequestedKind(t *testing.T) {
	e := newEnv(t)
	id := e.createUser(t, "alice", "pw", "Agent")
	if w := e.do(t, http.MethodPost, "/api/attendance/login", gin.H{"userId": id}, ""); w.Code != http.StatusCreated {
		t.Fatalf("login status = %d", w.Code)
	}

	w := e.do(t, http.MethodPost, "/api/attendance/break", gin.H{"userId": id, "breakType": "coffee"}, "")
	if w.Code != http.StatusOK || w.Body.String() != "Coffee break started" {
		t.Errorf("start: status = %d, body %q", w.Code, w.Body.String())
	}

	w = e.do(t, http.MethodPost, "/api/attendance/break", gin.H{"userId": id, "breakType": "coffee"}, "")
	if w.Code != http.StatusOK || w.Body.String() != "Coffee break ended" {
		t.Errorf("end: status = %d, body %q", w.Code, w.Body.String())
	}
}

func TestAttendanceLogoutWithoutLogin(t *testing.T) {
	e := newEnv(t)
	id := e.createUser(t, "alice", "pw", "Agent")

	w := e.do(t, http.MethodPost, "/api/attendance/logout", gin.H{"userId": id}, "")
	if w.Code != http.StatusBadRequest || w.Body.String() != "No attendance record found for today" {
		t.Errorf("status = %d, body %q", w.Code, w.Body.String())
	}
}

func TestMyLeadsRequiresToken(t *testing.T) {
	e := newEnv(t)

	w := e.do(t, http.MethodGet, "/api/my-leads", nil, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("no token status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No token provided") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestMyLeadsEmptyThenPopulated(t *testing.T) {
	e := newEnv(t)
	agentID := e.createUser(t, "field", "pw", "Agent")
	token := e.tokenFor(t, agentID, "Agent")

	w := e.do(t, http.MethodGet, "/api/my-leads", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("empty status = %d, body %s", w.Code, w.Body.String())
	}

	owner := strconv.FormatInt(agentID, 10)
	if err := e.leads.Insert(context.Background(), leads.Lead{Name: "Prospect", AssignedTo: owner}); err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	w = e.do(t, http.MethodGet, "/api/my-leads", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("populated status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Leads []leads.Lead `json:"leads"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Leads) != 1 || resp.Leads[0].Name != "Prospect" {
		t.Errorf("leads = %+v", resp.Leads)
	}
}

func TestAssignAgentAdminOnly(t *testing.T) {
	e := newEnv(t)
	adminID := e.createUser(t, "boss", "pw", "Admin")
	agentID := e.createUser(t, "field", "pw", "Agent")
	if err := e.leads.Insert(context.Background(), leads.Lead{Name: "Prospect", AssignedTo: leads.Unassigned}); err != nil {
		t.Fatalf("seed lead: %v", err)
	}

	agentToken := e.tokenFor(t, agentID, "Agent")
	w := e.do(t, http.MethodPost, "/api/assignagent", gin.H{"leadIds": []int64{1}, "agentId": agentID}, agentToken)
	if w.Code != http.StatusForbidden {
		t.Errorf("agent assign status = %d", w.Code)
	}

	adminToken := e.tokenFor(t, adminID, "Admin")
	w = e.do(t, http.MethodPost, "/api/assignagent", gin.H{"leadIds": []int64{1}, "agentId": agentID}, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("admin assign status = %d, body %s", w.Code, w.Body.String())
	}
	if l := e.leads.byID[1]; l.AssignedTo != strconv.FormatInt(agentID, 10) {
		t.Errorf("owner = %q", l.AssignedTo)
	}

	w = e.do(t, http.MethodPost, "/api/assignagent", gin.H{"leadIds": []int64{1}, "agentId": adminID}, adminToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("assign to non-agent status = %d", w.Code)
	}
}

func TestUploadLeads(t *testing.T) {
	e := newEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "leads.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fmt.Fprintln(fw, "name,email,phone_number,address")
	fmt.Fprintln(fw, "Jane Roe,jane@example.com,555-0101,12 Main St")
	fmt.Fprintln(fw, "John Doe,john@example.com,555-0102,34 Oak Ave")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploadleads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("count = %d, want 2", resp.Count)
	}

	list, _ := e.leads.List(context.Background())
	if len(list) != 2 || list[0].AssignedTo != leads.Unassigned {
		t.Errorf("stored leads = %+v", list)
	}

	bad := e.do(t, http.MethodPost, "/api/uploadleads", nil, "")
	if bad.Code != http.StatusBadRequest {
		t.Errorf("missing file status = %d", bad.Code)
	}
}

func TestNotifications(t *testing.T) {
	e := newEnv(t)
	agentID := e.createUser(t, "field", "pw", "Agent")
	if err := e.leads.InsertNotification(context.Background(), leads.Notification{
		ID: "n1", AgentID: agentID, LeadCount: 3, Message: "3 lead(s) assigned to you",
	}); err != nil {
		t.Fatalf("seed notification: %v", err)
	}

	token := e.tokenFor(t, agentID, "Agent")
	w := e.do(t, http.MethodGet, "/api/notifications", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Notifications []leads.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Notifications) != 1 || resp.Notifications[0].Message != "3 lead(s) assigned to you" {
		t.Errorf("notifications = %+v", resp.Notifications)
	}

	adminToken := e.tokenFor(t, 99, "Admin")
	if w := e.do(t, http.MethodGet, "/api/notifications", nil, adminToken); w.Code != http.StatusForbidden {
		t.Errorf("admin notifications status = %d", w.Code)
	}
}
