package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"projecthub/internal/delivery/http/helpers"
	"projecthub/internal/delivery/http/middleware"
	"projecthub/internal/domain"
)

// CreateEventRequest is the request body for POST /events. Relational
// fields (organizers, recipients, projects) go into the event's
// association; the rest becomes the event record.
type CreateEventRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Status      string   `json:"status"`
	Category    string   `json:"category"`
	Organizers  []string `json:"organizers"`
	Recipients  []string `json:"recipients"`
	Projects    []string `json:"projects"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
}

// Validate implements Validator. Returns error messages for required and format rules.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.Status != "" && !domain.ValidEventStatus(domain.EventStatus(c.Status)) {
		errs = append(errs, "status must be one of confirmed, tentative, cancelled")
	}
	if c.Category != "" && !domain.ValidEventCategory(domain.EventCategory(c.Category)) {
		errs = append(errs, "category must be one of default, meet, holiday")
	}
	if c.StartAt.IsZero() {
		errs = append(errs, "startAt is required")
	}
	if c.EndAt.IsZero() {
		errs = append(errs, "endAt is required")
	}
	return errs
}

// CreateEventResponse is the data payload for POST /events (201).
type CreateEventResponse struct {
	Event       *domain.Event            `json:"event"`
	Association *domain.EventAssociation `json:"association"`
}

// CreateEventSuccessResponse is the success response envelope for POST /events (201).
type CreateEventSuccessResponse struct {
	Data  CreateEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type EventController struct {
	Logger       *slog.Logger
	Service      domain.EventService
	Associations domain.EventAssociationService
}

func NewEventController(logger *slog.Logger, svc domain.EventService, assocSvc domain.EventAssociationService) *EventController {
	return &EventController{
		Logger:       logger,
		Service:      svc,
		Associations: assocSvc,
	}
}

// writeServiceError maps service sentinel errors onto the API error taxonomy.
func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, notFoundMsg)
	case errors.Is(err, domain.ErrOperationFailed):
		helpers.WriteJSONError(w, http.StatusExpectationFailed, helpers.ErrCodeOperationFailed, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEvents godoc
// @Summary List events
// @Description Lists holiday events from the external calendar feed followed by stored events matching the filters. startTime defaults to now, limit defaults to 30. The relational filters (userId, organizerId, recipientId) are OR-combined; projectId is AND-combined with them.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param startTime query string false "Range start (RFC 3339 or YYYY-MM-DD, default now)"
// @Param endTime query string false "Range end (RFC 3339 or YYYY-MM-DD)"
// @Param userId query string false "Filter by association creator"
// @Param organizerId query string false "Filter by organizer membership"
// @Param recipientId query string false "Filter by recipient membership"
// @Param projectId query string false "Filter by project membership"
// @Param limit query string false "Max results per source (default 30)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains the merged event list"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid date or limit)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := domain.ListEventsQuery{
		StartTime:   q.Get("startTime"),
		EndTime:     q.Get("endTime"),
		UserID:      q.Get("userId"),
		OrganizerID: q.Get("organizerId"),
		RecipientID: q.Get("recipientId"),
		ProjectID:   q.Get("projectId"),
		Limit:       q.Get("limit"),
	}
	events, err := c.Service.ListEvents(r.Context(), query)
	if err != nil {
		c.writeServiceError(w, r, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event and its association as one logical unit. The authenticated user becomes the creator and is always added to the association's organizers.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.CreateEventSuccessResponse "data contains the created event and association"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 417 {object} helpers.APIResponse "error.code: operation_failed (downstream write failure)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	draft := domain.EventDraft{
		Name:        req.Name,
		Description: req.Description,
		Status:      domain.EventStatus(req.Status),
		Category:    domain.EventCategory(req.Category),
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		Organizers:  req.Organizers,
		Recipients:  req.Recipients,
		Projects:    req.Projects,
	}
	event, assoc, err := c.Service.CreateEvent(r.Context(), userID, draft)
	if err != nil {
		c.writeServiceError(w, r, err, "not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, CreateEventResponse{Event: event, Association: assoc})
}

// EventView is an event enriched with its association's relation sets.
type EventView struct {
	*domain.Event
	Organizers []string `json:"organizers"`
	Recipients []string `json:"recipients"`
	Projects   []string `json:"projects"`
}

// GetEventSuccessResponse is the success response envelope for GET /events/{eventID} (200).
type GetEventSuccessResponse struct {
	Data  EventView         `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// GetEventByID godoc
// @Summary Get an event by ID
// @Description Returns the event enriched with its association's organizers, recipients, and projects.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GetEventSuccessResponse "data contains the enriched event"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEventByID(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, assoc, err := c.Service.GetEventByID(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventView{
		Event:      event,
		Organizers: assoc.Organizers,
		Recipients: assoc.Recipients,
		Projects:   assoc.Projects,
	})
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Category    *string    `json:"category"`
	StartAt     *time.Time `json:"startAt"`
	EndAt       *time.Time `json:"endAt"`
}

// Validate implements Validator. Enum fields must hold known values when present.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Name != nil && *u.Name == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.Status != nil && !domain.ValidEventStatus(domain.EventStatus(*u.Status)) {
		errs = append(errs, "status must be one of confirmed, tentative, cancelled")
	}
	if u.Category != nil && !domain.ValidEventCategory(domain.EventCategory(*u.Category)) {
		errs = append(errs, "category must be one of default, meet, holiday")
	}
	return errs
}

// UpdateEventSuccessResponse is the success response envelope for PATCH /events/{eventID} (200).
type UpdateEventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Partially updates an event. Optional fields omitted from the body are unchanged. The association is not touched; use the association endpoint for relational changes.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.UpdateEventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	patch := domain.EventPatch{
		Name:        req.Name,
		Description: req.Description,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	}
	if req.Status != nil {
		s := domain.EventStatus(*req.Status)
		patch.Status = &s
	}
	if req.Category != nil {
		cat := domain.EventCategory(*req.Category)
		patch.Category = &cat
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, patch)
	if err != nil {
		c.writeServiceError(w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event record. Its association is not cascaded and remains until removed independently.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data is null"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		c.writeServiceError(w, r, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

// GetAssociationSuccessResponse is the success response envelope for GET /events/{eventID}/association (200).
type GetAssociationSuccessResponse struct {
	Data  *domain.EventAssociation `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// GetEventAssociation godoc
// @Summary Get an event's association
// @Description Returns the association record (organizers, recipients, projects) for the event.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GetAssociationSuccessResponse "data contains the association"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/association [get]
func (c *EventController) GetEventAssociation(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	assoc, err := c.Associations.GetByEventID(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err, "event association not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assoc)
}

// UpdateAssociationRequest is the request body for PUT /events/{eventID}/association.
// Each list is optional; adds are applied before removes per relation.
type UpdateAssociationRequest struct {
	AddOrganizers    []string `json:"addOrganisers"`
	RemoveOrganizers []string `json:"removeOrganisers"`
	AddRecipients    []string `json:"addRecipients"`
	RemoveRecipients []string `json:"removeRecipients"`
	AddProjects      []string `json:"addProjects"`
	RemoveProjects   []string `json:"removeProjects"`
}

// UpdateAssociationSuccessResponse is the success response envelope for PUT /events/{eventID}/association (200).
type UpdateAssociationSuccessResponse struct {
	Data  *domain.EventAssociation `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// UpdateEventAssociation godoc
// @Summary Update an event's association
// @Description Applies idempotent add/remove set operations to the association's organizers, recipients, and projects. Adding a present member or removing an absent one is a no-op.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateAssociationRequest true "Set mutations (all lists optional)"
// @Success 200 {object} controllers.UpdateAssociationSuccessResponse "data contains the updated association"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no association for that event)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/association [put]
func (c *EventController) UpdateEventAssociation(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateAssociationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	change := domain.AssociationChange{
		AddOrganizers:    req.AddOrganizers,
		RemoveOrganizers: req.RemoveOrganizers,
		AddRecipients:    req.AddRecipients,
		RemoveRecipients: req.RemoveRecipients,
		AddProjects:      req.AddProjects,
		RemoveProjects:   req.RemoveProjects,
	}
	assoc, err := c.Associations.Update(r.Context(), eventID, change)
	if err != nil {
		c.writeServiceError(w, r, err, "event association not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, assoc)
}
