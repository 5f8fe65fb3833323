package server

import (
	"charityportal/internal/workflow"
	"charityportal/pkg/types"
)

const dateLayout = "2006-01-02"

// sessionView snapshots the workflow. It must run on the session loop.
func sessionView(id string, w *workflow.Workflow) *types.SessionView {
	view := &types.SessionView{
		ID:          id,
		CurrentStep: int(w.Current()),
		Steps:       make([]types.StepView, 0, workflow.StepCount),
		Request:     requestView(w.Request()),
		Attachments: slotViews(w.Attachments()),
		Partners:    partnerViews(w.Partners().List()),
	}

	for _, step := range workflow.Steps() {
		view.Steps = append(view.Steps, types.StepView{
			Number:   int(step),
			Name:     step.String(),
			Visited:  w.Visited(step),
			Complete: w.Complete(step),
			Current:  step == w.Current(),
		})
	}

	if partnerType, ok := w.Partners().Staged(); ok {
		draft := &types.PartnerDraftView{
			Type:        partnerType,
			PanelShown:  w.Partners().PanelShown(),
			Attachments: []types.SlotView{},
		}
		if slots, err := w.Partners().DraftSlots(); err == nil {
			draft.Attachments = slotViews(slots)
		}
		view.Draft = draft
	}

	return view
}

func requestView(req types.PermitRequest) types.RequestView {
	view := types.RequestView{
		LocationTypeID:     req.LocationTypeID,
		RegionID:           req.RegionID,
		Street:             req.Street,
		Ground:             req.Ground,
		Address:            req.Address,
		Notes:              req.Notes,
		SupervisorName:     req.SupervisorName,
		SupervisorJobTitle: req.SupervisorJobTitle,
		SupervisorMobile:   req.SupervisorMobile,
	}

	if req.Coordinate != nil {
		view.Coordinates = workflow.EncodeCoordinate(*req.Coordinate)
	}
	if req.StartDate != nil {
		view.StartDate = req.StartDate.Format(dateLayout)
	}
	if req.EndDate != nil {
		view.EndDate = req.EndDate.Format(dateLayout)
	}

	return view
}

func slotViews(slots *workflow.Slots) []types.SlotView {
	out := make([]types.SlotView, 0, slots.Len())
	for _, req := range slots.Requirements() {
		slot, _ := slots.Slot(req.ID)
		out = append(out, types.SlotView{
			RequirementID: req.ID,
			Name:          req.Name,
			Mandatory:     req.Mandatory,
			State:         slot.State,
			FileName:      slot.FileName,
			Reason:        slot.Reason,
		})
	}
	return out
}

func partnerViews(partners []types.Partner) []types.PartnerView {
	out := make([]types.PartnerView, 0, len(partners))
	for i, partner := range partners {
		attachments := make([]types.AttachmentSummary, 0, len(partner.Attachments))
		for _, a := range partner.Attachments {
			attachments = append(attachments, types.AttachmentSummary{
				RequirementID: a.RequirementID,
				FileName:      a.FileName,
			})
		}

		out = append(out, types.PartnerView{
			Index:         i,
			Name:          partner.Name,
			Type:          partner.Type,
			LicenseNumber: partner.LicenseNumber,
			Attachments:   attachments,
		})
	}
	return out
}

func permitSummary(permit *types.Permit, attachments int) types.PermitSummary {
	return types.PermitSummary{
		ID:              permit.ID,
		Status:          permit.Status,
		RegionID:        permit.RegionID,
		Street:          permit.Street,
		StartDate:       permit.StartDate.Format(dateLayout),
		EndDate:         permit.EndDate.Format(dateLayout),
		SubmittedAt:     permit.SubmittedAt,
		AttachmentCount: attachments,
	}
}

func permitDetail(permit *types.Permit, partners []*types.Partner, attachments []*types.PermitAttachment) *types.PermitDetail {
	detail := &types.PermitDetail{
		PermitSummary:      permitSummary(permit, len(attachments)),
		LocationTypeID:     permit.LocationTypeID,
		Ground:             permit.Ground,
		Address:            permit.Address,
		Coordinates:        permit.Coordinates,
		Notes:              permit.Notes,
		SupervisorName:     permit.SupervisorName,
		SupervisorJobTitle: permit.SupervisorJobTitle,
		SupervisorMobile:   permit.SupervisorMobile,
		Partners:           make([]types.StoredPartnerView, 0, len(partners)),
		Attachments:        attachments,
	}

	if detail.Attachments == nil {
		detail.Attachments = make([]*types.PermitAttachment, 0)
	}

	for _, p := range partners {
		view := types.StoredPartnerView{
			ID:            p.ID,
			Name:          p.Name,
			Type:          p.Type,
			LicenseNumber: p.LicenseNumber,
		}
		if p.LicenseExpiry != nil {
			view.LicenseExpiry = p.LicenseExpiry.Format(dateLayout)
		}
		detail.Partners = append(detail.Partners, view)
	}

	return detail
}

func stepEventViews(events []*types.StepVisitEvent) []types.StepEventView {
	out := make([]types.StepEventView, 0, len(events))
	for _, e := range events {
		out = append(out, types.StepEventView{Step: e.Step, StepName: e.StepName, At: e.CreatedAt})
	}
	return out
}
