package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/production"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type fakeCompleter struct {
	reply      string
	err        error
	lastSystem string
	lastUser   string
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.reply, f.err
}

// fakeProjects records which edit operations the chat service dispatches and
// lets generation tests force persistence failures.
type fakeProjects struct {
	view      *ProjectView
	saveErr   error
	saveCalls int

	callSheetUpdates map[uuid.UUID]CallSheetUpdate
	rsvpUpdates      map[uuid.UUID]RsvpUpdate
	projectUpdates   map[uuid.UUID]ProjectUpdate
	locationUpdates  map[uuid.UUID]LocationUpdate
}

func newFakeProjects(view *ProjectView) *fakeProjects {
	return &fakeProjects{
		view:             view,
		callSheetUpdates: make(map[uuid.UUID]CallSheetUpdate),
		rsvpUpdates:      make(map[uuid.UUID]RsvpUpdate),
		projectUpdates:   make(map[uuid.UUID]ProjectUpdate),
		locationUpdates:  make(map[uuid.UUID]LocationUpdate),
	}
}

func (f *fakeProjects) SaveGeneration(context.Context, *production.ProductionRecord) (uuid.UUID, error) {
	f.saveCalls++
	if f.saveErr != nil {
		return uuid.Nil, f.saveErr
	}
	return uuid.New(), nil
}

func (f *fakeProjects) GetProjectForFrontend(context.Context, uuid.UUID) (*ProjectView, error) {
	return f.view, nil
}

func (f *fakeProjects) UpdateCallSheet(_ context.Context, id uuid.UUID, upd CallSheetUpdate) (bool, error) {
	f.callSheetUpdates[id] = upd
	return true, nil
}

func (f *fakeProjects) UpdateCrewRsvp(_ context.Context, id uuid.UUID, upd RsvpUpdate) (bool, error) {
	f.rsvpUpdates[id] = upd
	return true, nil
}

func (f *fakeProjects) UpdateProject(_ context.Context, id uuid.UUID, upd ProjectUpdate) (bool, error) {
	f.projectUpdates[id] = upd
	return true, nil
}

func (f *fakeProjects) UpdateLocation(_ context.Context, id uuid.UUID, upd LocationUpdate) (bool, error) {
	f.locationUpdates[id] = upd
	return true, nil
}

func testView() *ProjectView {
	return &ProjectView{
		Project: ProjectSummary{
			ID:        uuid.New(),
			JobName:   "Nike Campaign - Summer 26",
			JobNumber: "EP-NIKE-001",
			Client:    "Nike",
		},
		CallSheets: []CallSheetView{
			{ID: uuid.New(), DayNumber: 1, ShootDate: "2026-01-20", GeneralCrewCall: "7:00 AM"},
			{ID: uuid.New(), DayNumber: 2, ShootDate: "2026-01-21", GeneralCrewCall: "6:30 AM"},
		},
		Locations: []LocationView{
			{ID: uuid.New(), Name: "SoFi Stadium", Address: "1001 Stadium Dr"},
		},
		Departments: []DepartmentView{
			{Name: "CAMERA DEPT", Count: 1, Crew: []CrewView{
				{ID: uuid.New(), Role: "Director of Photography", Name: "Ava Chen", CallTime: "7:00 AM", Location: "Set"},
			}},
		},
	}
}

func TestProcessMessageAnswer(t *testing.T) {
	projects := newFakeProjects(testView())
	llm := &fakeCompleter{reply: `{"type": "answer", "response": "Crew call on day 2 is 6:30 AM."}`}
	svc := NewChatService(testLogger(), llm, projects)

	result, err := svc.ProcessMessage(context.Background(), projects.view.Project.ID, "what time is crew call on day 2?")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if result.Type != "answer" {
		t.Fatalf("type = %q, want answer", result.Type)
	}
	if result.Response != "Crew call on day 2 is 6:30 AM." {
		t.Errorf("response = %q", result.Response)
	}
}

func TestProcessMessageContextContents(t *testing.T) {
	projects := newFakeProjects(testView())
	llm := &fakeCompleter{reply: `{"type": "answer", "response": "ok"}`}
	svc := NewChatService(testLogger(), llm, projects)

	if _, err := svc.ProcessMessage(context.Background(), projects.view.Project.ID, "hello"); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	for _, want := range []string{
		"Project: Nike Campaign - Summer 26 (EP-NIKE-001)",
		"Day 2: 2026-01-21",
		"SoFi Stadium: 1001 Stadium Dr",
		"Director of Photography - Ava Chen (Call: 7:00 AM)",
		projects.view.CallSheets[0].ID.String(),
		"User Message: hello",
	} {
		if !strings.Contains(llm.lastUser, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestProcessMessageEditByDayNumber(t *testing.T) {
	projects := newFakeProjects(testView())
	llm := &fakeCompleter{reply: `{
		"type": "edit",
		"action": "update_call_sheet",
		"parameters": {"dayNumber": 2, "generalCrewCall": "8:00 AM"},
		"response": "Updated crew call for day 2."
	}`}
	svc := NewChatService(testLogger(), llm, projects)

	result, err := svc.ProcessMessage(context.Background(), projects.view.Project.ID, "move day 2 crew call to 8am")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if result.Type != "edit" || !result.Success {
		t.Fatalf("result = %+v, want successful edit", result)
	}

	day2 := projects.view.CallSheets[1].ID
	upd, ok := projects.callSheetUpdates[day2]
	if !ok {
		t.Fatalf("day 2 call sheet was not updated; updates = %v", projects.callSheetUpdates)
	}
	if upd.GeneralCrewCall == nil || *upd.GeneralCrewCall != "8:00 AM" {
		t.Errorf("generalCrewCall = %v, want 8:00 AM", upd.GeneralCrewCall)
	}
}

func TestProcessMessageEditFallsBackToFirstSheet(t *testing.T) {
	projects := newFakeProjects(testView())
	llm := &fakeCompleter{reply: `{
		"type": "edit",
		"action": "update_call_sheet",
		"parameters": {"hospitalName": "Centinela Hospital"},
		"response": "Updated hospital."
	}`}
	svc := NewChatService(testLogger(), llm, projects)

	if _, err := svc.ProcessMessage(context.Background(), projects.view.Project.ID, "set the hospital"); err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	first := projects.view.CallSheets[0].ID
	if _, ok := projects.callSheetUpdates[first]; !ok {
		t.Fatalf("expected fallback to first call sheet; updates = %v", projects.callSheetUpdates)
	}
}

func TestProcessMessageEditCrewRsvp(t *testing.T) {
	projects := newFakeProjects(testView())
	crewID := projects.view.Departments[0].Crew[0].ID
	llm := &fakeCompleter{reply: `{
		"type": "edit",
		"action": "update_crew_rsvp",
		"parameters": {"crew_id": "` + crewID.String() + `", "callTime": "9:00 AM"},
		"response": "Updated call time."
	}`}
	svc := NewChatService(testLogger(), llm, projects)

	result, err := svc.ProcessMessage(context.Background(), projects.view.Project.ID, "push the DP to 9am")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if result.Type != "edit" {
		t.Fatalf("type = %q, want edit", result.Type)
	}
	upd, ok := projects.rsvpUpdates[crewID]
	if !ok {
		t.Fatalf("rsvp was not updated")
	}
	if upd.CallTime == nil || *upd.CallTime != "9:00 AM" {
		t.Errorf("callTime = %v, want 9:00 AM", upd.CallTime)
	}
}

func TestProcessMessageUnknownActionBecomesAnswer(t *testing.T) {
	projects := newFakeProjects(testView())
	llm := &fakeCompleter{reply: `{"type": "edit", "action": "delete_everything", "parameters": {}}`}
	svc := NewChatService(testLogger(), llm, projects)

	result, err := svc.ProcessMessage(context.Background(), projects.view.Project.ID, "delete it all")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if result.Type != "answer" {
		t.Fatalf("type = %q, want answer fallback", result.Type)
	}
	if len(projects.callSheetUpdates)+len(projects.rsvpUpdates)+len(projects.projectUpdates)+len(projects.locationUpdates) != 0 {
		t.Error("unknown action must not dispatch any edit")
	}
}

func TestProcessMessageUnparseableReplyBecomesAnswer(t *testing.T) {
	projects := newFakeProjects(testView())
	llm := &fakeCompleter{reply: "I'd be happy to help with that!"}
	svc := NewChatService(testLogger(), llm, projects)

	result, err := svc.ProcessMessage(context.Background(), projects.view.Project.ID, "hi")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if result.Type != "answer" {
		t.Fatalf("type = %q, want answer", result.Type)
	}
}

func TestProcessMessageMissingProject(t *testing.T) {
	projects := newFakeProjects(nil)
	llm := &fakeCompleter{reply: `{"type": "answer", "response": "unused"}`}
	svc := NewChatService(testLogger(), llm, projects)

	result, err := svc.ProcessMessage(context.Background(), uuid.New(), "hello")
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if result.Type != "answer" {
		t.Fatalf("type = %q, want answer", result.Type)
	}
	if llm.lastUser != "" {
		t.Error("LLM must not be called when the project is missing")
	}
}
