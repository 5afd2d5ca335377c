package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"archivehub/internal/idgen"
	"archivehub/internal/logging"
	"archivehub/internal/models"

	"github.com/looplab/fsm"
)

// Research request events.
const (
	EventApprove  = "approve"
	EventReject   = "reject"
	EventStart    = "start"
	EventComplete = "complete"
)

var researchTransitions = fsm.Events{
	{Name: EventApprove, Src: []string{models.StatusPending}, Dst: models.StatusApproved},
	{Name: EventReject, Src: []string{models.StatusPending}, Dst: models.StatusRejected},
	{Name: EventStart, Src: []string{models.StatusApproved}, Dst: models.StatusInProgress},
	{Name: EventComplete, Src: []string{models.StatusInProgress}, Dst: models.StatusCompleted},
}

// eventFor maps a requested target status to the event that reaches it.
var eventFor = map[string]string{
	models.StatusApproved:   EventApprove,
	models.StatusRejected:   EventReject,
	models.StatusInProgress: EventStart,
	models.StatusCompleted:  EventComplete,
}

func newResearchMachine(current string) *fsm.FSM {
	return fsm.NewFSM(current, researchTransitions, fsm.Callbacks{})
}

// ResearchFilter selects research requests.
type ResearchFilter struct {
	Status string
}

var researchSortKeys = comparators[models.ResearchRequest]{
	"id":             stringCmp(func(r models.ResearchRequest) string { return r.ID }),
	"researcherName": stringCmp(func(r models.ResearchRequest) string { return r.ResearcherName }),
	"email":          stringCmp(func(r models.ResearchRequest) string { return r.Email }),
	"affiliation":    stringCmp(func(r models.ResearchRequest) string { return r.Affiliation }),
	"researchTopic":  stringCmp(func(r models.ResearchRequest) string { return r.ResearchTopic }),
	"status":         stringCmp(func(r models.ResearchRequest) string { return r.Status }),
	"submittedAt":    func(a, b models.ResearchRequest) int { return compareTime(a.SubmittedAt, b.SubmittedAt) },
	"updatedAt":      func(a, b models.ResearchRequest) int { return compareTime(a.UpdatedAt, b.UpdatedAt) },
}

// ResearchRepo manages research access requests and their status lifecycle.
type ResearchRepo struct{ *base }

// List returns research requests in submission order unless opts sorts them.
func (r *ResearchRepo) List(f ResearchFilter, opts ListOptions) ([]models.ResearchRequest, int, error) {
	var (
		items []models.ResearchRequest
		total int
	)
	err := r.view(func(s *models.Snapshot) error {
		var err error
		items, total, err = list(s.ResearchRequests, func(rr models.ResearchRequest) bool {
			return f.Status == "" || rr.Status == f.Status
		}, researchSortKeys, opts, "", 0)
		return err
	})
	return items, total, err
}

// Get returns the research request with id.
func (r *ResearchRepo) Get(id string) (models.ResearchRequest, error) {
	var item models.ResearchRequest
	err := r.view(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.ResearchRequests, func(rr models.ResearchRequest) bool { return rr.ID == id })
		if i < 0 {
			return notFound("research request", id)
		}
		item = s.ResearchRequests[i]
		return nil
	})
	return item, err
}

// Create stores a new request in the pending state.
func (r *ResearchRepo) Create(in models.ResearchRequestInput) (models.ResearchRequest, error) {
	switch {
	case strings.TrimSpace(in.ResearcherName) == "":
		return models.ResearchRequest{}, invalid("researcherName is required")
	case !emailPattern.MatchString(in.Email):
		return models.ResearchRequest{}, invalid("a valid email is required")
	case strings.TrimSpace(in.ResearchTopic) == "":
		return models.ResearchRequest{}, invalid("researchTopic is required")
	}
	now := r.now()
	item := models.ResearchRequest{
		ID:                   idgen.NewAt(idgen.PrefixResearch, now),
		ResearcherName:       in.ResearcherName,
		Email:                in.Email,
		Phone:                in.Phone,
		Affiliation:          in.Affiliation,
		ResearchTopic:        in.ResearchTopic,
		SpecificRequirements: in.SpecificRequirements,
		Timeframe:            in.Timeframe,
		Attachments:          nonNil(in.Attachments),
		Status:               models.StatusPending,
		SubmittedAt:          now,
		UpdatedAt:            now,
		Messages:             []string{},
	}
	err := r.update(func(s *models.Snapshot) error {
		s.ResearchRequests = append(s.ResearchRequests, item)
		return nil
	})
	if err != nil {
		return models.ResearchRequest{}, err
	}
	return item, nil
}

// Update edits the submission details. The status is left alone.
func (r *ResearchRepo) Update(id string, p models.ResearchRequestPatch) (models.ResearchRequest, error) {
	if p.Email != nil && !emailPattern.MatchString(*p.Email) {
		return models.ResearchRequest{}, invalid("a valid email is required")
	}
	var item models.ResearchRequest
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.ResearchRequests, func(rr models.ResearchRequest) bool { return rr.ID == id })
		if i < 0 {
			return notFound("research request", id)
		}
		p.Apply(&s.ResearchRequests[i])
		s.ResearchRequests[i].UpdatedAt = r.now()
		item = s.ResearchRequests[i]
		return nil
	})
	return item, err
}

// SetStatus moves a request to status. Allowed moves are
// pending to approved or rejected, approved to in-progress, and in-progress to completed.
func (r *ResearchRepo) SetStatus(ctx context.Context, id, status string) (models.ResearchRequest, error) {
	event, ok := eventFor[status]
	if !ok && status != models.StatusPending {
		return models.ResearchRequest{}, invalid("unknown status %q", status)
	}

	var item models.ResearchRequest
	err := r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.ResearchRequests, func(rr models.ResearchRequest) bool { return rr.ID == id })
		if i < 0 {
			return notFound("research request", id)
		}
		req := &s.ResearchRequests[i]

		machine := newResearchMachine(req.Status)
		if !ok || !machine.Can(event) {
			return &TransitionError{From: req.Status, To: status}
		}
		if err := machine.Event(ctx, event); err != nil {
			return fmt.Errorf("research request %s: %w", id, err)
		}

		req.Status = machine.Current()
		req.UpdatedAt = r.now()
		item = *req
		return nil
	})
	if err == nil {
		logging.Log.Debugf("ResearchRepo: %s is now %s", id, item.Status)
	}
	return item, err
}

// NextStatuses lists the statuses reachable from the request's current one.
func (r *ResearchRepo) NextStatuses(id string) ([]string, error) {
	item, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	machine := newResearchMachine(item.Status)
	var out []string
	for _, e := range researchTransitions {
		if machine.Can(e.Name) {
			out = append(out, e.Dst)
		}
	}
	return out, nil
}

// Delete removes the research request with id, whatever its status.
func (r *ResearchRepo) Delete(id string) error {
	return r.update(func(s *models.Snapshot) error {
		i := slices.IndexFunc(s.ResearchRequests, func(rr models.ResearchRequest) bool { return rr.ID == id })
		if i < 0 {
			return notFound("research request", id)
		}
		s.ResearchRequests = slices.Delete(s.ResearchRequests, i, i+1)
		return nil
	})
}
