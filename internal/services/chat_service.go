package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/epitomehq/callsheet-backend/internal/extraction"
	"github.com/epitomehq/callsheet-backend/internal/logger"
	"github.com/epitomehq/callsheet-backend/internal/production"
)

// ChatResult is the envelope the chat endpoint returns: either an answer or
// an executed edit acknowledgment.
type ChatResult struct {
	Type     string `json:"type"`
	Response string `json:"response"`
	Action   string `json:"action,omitempty"`
	Success  bool   `json:"success,omitempty"`
}

type ChatService interface {
	ProcessMessage(ctx context.Context, projectID uuid.UUID, message string) (*ChatResult, error)
}

type chatService struct {
	log      *logger.Logger
	llm      extraction.Completer
	projects ProjectService
}

func NewChatService(log *logger.Logger, llm extraction.Completer, projects ProjectService) ChatService {
	return &chatService{
		log:      log.With("service", "ChatService"),
		llm:      llm,
		projects: projects,
	}
}

func answerResult(format string, args ...any) *ChatResult {
	return &ChatResult{Type: "answer", Response: fmt.Sprintf(format, args...)}
}

// chatReply is the JSON shape the model is instructed to return.
type chatReply struct {
	Type       string     `json:"type"`
	Response   string     `json:"response"`
	Action     string     `json:"action"`
	Parameters editParams `json:"parameters"`
}

// editParams is a superset of the parameters all four edit actions take.
// Pointer fields distinguish "not mentioned" from an explicit empty value.
type editParams struct {
	CallSheetID     string  `json:"call_sheet_id"`
	DayNumber       int     `json:"dayNumber"`
	ShootDate       *string `json:"shootDate"`
	GeneralCrewCall *string `json:"generalCrewCall"`
	HospitalName    *string `json:"hospitalName"`
	HospitalAddress *string `json:"hospitalAddress"`

	CrewID          string  `json:"crew_id"`
	CallTime        *string `json:"callTime"`
	Location        *string `json:"location"`
	RsvpCallSheetID string  `json:"callSheetId"`

	JobName *string `json:"jobName"`
	Client  *string `json:"client"`
	Agency  *string `json:"agency"`

	LocationID string  `json:"location_id"`
	Address    *string `json:"address"`
	Name       *string `json:"name"`
}

func (s *chatService) ProcessMessage(ctx context.Context, projectID uuid.UUID, message string) (*ChatResult, error) {
	view, err := s.projects.GetProjectForFrontend(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return answerResult("Sorry, I couldn't find the project. Please check the project ID."), nil
	}

	userPrompt := fmt.Sprintf("Project Context:\n%s\n\nUser Message: %s\n\nPlease respond with valid JSON only, no markdown formatting.",
		buildProjectContext(view), message)

	replyText, err := s.llm.Complete(ctx, extraction.ChatSystemPrompt, userPrompt)
	if err != nil {
		s.log.Warn("Chat completion failed", "projectID", projectID, "error", err)
		return answerResult("Sorry, an error occurred: %v", err), nil
	}

	var reply chatReply
	if err := json.Unmarshal([]byte(extraction.LocateJSON(replyText)), &reply); err != nil {
		s.log.Warn("Chat reply unparseable", "projectID", projectID, "error", err)
		return answerResult("Sorry, I had trouble understanding that. Could you rephrase?"), nil
	}

	if reply.Type == "edit" {
		if err := s.executeEdit(ctx, projectID, view, reply.Action, reply.Parameters); err != nil {
			s.log.Warn("Chat edit failed", "projectID", projectID, "action", reply.Action, "error", err)
			return answerResult("Sorry, I couldn't execute that edit. Please try again. (%v)", err), nil
		}
		response := reply.Response
		if response == "" {
			response = "Edit completed successfully."
		}
		return &ChatResult{Type: "edit", Action: reply.Action, Response: response, Success: true}, nil
	}

	response := reply.Response
	if response == "" {
		response = "I'm not sure how to help with that."
	}
	return &ChatResult{Type: "answer", Response: response}, nil
}

// resolveCallSheetID picks the call sheet an edit targets: explicit ID first,
// then a day-number match, then the first sheet.
func resolveCallSheetID(view *ProjectView, params editParams) (uuid.UUID, error) {
	if params.CallSheetID != "" {
		return uuid.Parse(params.CallSheetID)
	}
	if params.DayNumber > 0 {
		for _, sheet := range view.CallSheets {
			if sheet.DayNumber == params.DayNumber {
				return sheet.ID, nil
			}
		}
	}
	if len(view.CallSheets) > 0 {
		return view.CallSheets[0].ID, nil
	}
	return uuid.Nil, fmt.Errorf("no call sheet found")
}

func (s *chatService) executeEdit(ctx context.Context, projectID uuid.UUID, view *ProjectView, action string, params editParams) error {
	switch action {
	case "update_call_sheet":
		sheetID, err := resolveCallSheetID(view, params)
		if err != nil {
			return err
		}
		ok, err := s.projects.UpdateCallSheet(ctx, sheetID, CallSheetUpdate{
			ShootDate:       params.ShootDate,
			GeneralCrewCall: params.GeneralCrewCall,
			HospitalName:    params.HospitalName,
			HospitalAddress: params.HospitalAddress,
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("call sheet not found")
		}
		return nil

	case "update_crew_rsvp":
		if params.CrewID == "" {
			return fmt.Errorf("crew ID is required")
		}
		crewID, err := uuid.Parse(params.CrewID)
		if err != nil {
			return err
		}
		upd := RsvpUpdate{CallTime: params.CallTime, Location: params.Location}
		if params.RsvpCallSheetID != "" {
			sheetID, err := uuid.Parse(params.RsvpCallSheetID)
			if err != nil {
				return err
			}
			upd.CallSheetID = &sheetID
		}
		ok, err := s.projects.UpdateCrewRsvp(ctx, crewID, upd)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("crew RSVP not found")
		}
		return nil

	case "update_project":
		ok, err := s.projects.UpdateProject(ctx, projectID, ProjectUpdate{
			JobName: params.JobName,
			Client:  params.Client,
			Agency:  params.Agency,
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("project not found")
		}
		return nil

	case "update_location":
		if params.LocationID == "" {
			return fmt.Errorf("location ID is required")
		}
		locationID, err := uuid.Parse(params.LocationID)
		if err != nil {
			return err
		}
		ok, err := s.projects.UpdateLocation(ctx, locationID, LocationUpdate{
			Name:    params.Name,
			Address: params.Address,
		})
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("location not found")
		}
		return nil

	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

// buildProjectContext flattens the project view into the plain-text context
// block the chat prompt works from. IDs are included so the model can target
// edits precisely.
func buildProjectContext(view *ProjectView) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Project: %s (%s)\n", view.Project.JobName, view.Project.JobNumber)
	fmt.Fprintf(&b, "Client: %s\n", view.Project.Client)
	if view.Project.Agency != "" {
		fmt.Fprintf(&b, "Agency: %s\n", view.Project.Agency)
	}
	b.WriteString("\n")

	if len(view.CallSheets) > 0 {
		b.WriteString("Call Sheets:\n")
		for _, sheet := range view.CallSheets {
			fmt.Fprintf(&b, "  Day %d: %s\n", sheet.DayNumber, sheet.ShootDate)
			fmt.Fprintf(&b, "    Crew Call: %s\n", sheet.GeneralCrewCall)
			if sheet.Hospital.Name != "" {
				fmt.Fprintf(&b, "    Hospital: %s - %s\n", sheet.Hospital.Name, sheet.Hospital.Address)
			}
			fmt.Fprintf(&b, "    ID: %s\n", sheet.ID)
		}
		b.WriteString("\n")
	}

	if len(view.Locations) > 0 {
		b.WriteString("Locations:\n")
		for _, loc := range view.Locations {
			fmt.Fprintf(&b, "  %s: %s\n", loc.Name, loc.Address)
			fmt.Fprintf(&b, "    ID: %s\n", loc.ID)
		}
		b.WriteString("\n")
	}

	if len(view.Departments) > 0 {
		b.WriteString("Crew:\n")
		for _, dept := range view.Departments {
			fmt.Fprintf(&b, "  %s:\n", dept.Name)
			for _, crew := range dept.Crew {
				line := fmt.Sprintf("    %s", crew.Role)
				if crew.Name != "" {
					line += fmt.Sprintf(" - %s", crew.Name)
				}
				if !production.IsTBD(crew.CallTime) {
					line += fmt.Sprintf(" (Call: %s)", crew.CallTime)
				}
				b.WriteString(line + "\n")
				fmt.Fprintf(&b, "      ID: %s\n", crew.ID)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
