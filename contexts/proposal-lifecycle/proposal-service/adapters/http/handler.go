package httpadapter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"strings"

	"civica/contexts/proposal-lifecycle/proposal-service/application/commands"
	"civica/contexts/proposal-lifecycle/proposal-service/domain/entities"
	domainerrors "civica/contexts/proposal-lifecycle/proposal-service/domain/errors"
	httptransport "civica/contexts/proposal-lifecycle/proposal-service/transport/http"
)

type Handler struct {
	Upserts commands.UpsertProposalUseCase
	Reviews commands.ReviewProposalUseCase
	Logger  *slog.Logger
}

func (h Handler) UpsertProposalHandler(ctx context.Context, req httptransport.UpsertProposalRequest) (httptransport.UpsertProposalResponse, error) {
	targetSegments, err := parseSegmentList(req.TargetSegmentsJS)
	if err != nil {
		return httptransport.UpsertProposalResponse{}, domainerrors.ErrInvalidProposalInput
	}
	impactSegments, err := parseSegmentList(req.ImpactSegmentsJS)
	if err != nil {
		return httptransport.UpsertProposalResponse{}, domainerrors.ErrInvalidProposalInput
	}
	attachments, err := parseAttachments(req.AttachmentsJS)
	if err != nil {
		return httptransport.UpsertProposalResponse{}, domainerrors.ErrInvalidProposalInput
	}

	draft := entities.ProposalDraft{
		CategoryID:       req.CategoryID,
		Description:      req.Description,
		ImageURL:         req.ImageURL,
		StartsAt:         req.StartsAt,
		EndsAt:           req.EndsAt,
		CommentsAllowed:  req.CommentsAllowed,
		TypeID:           req.TypeID,
		OrganizationID:   req.OrganizationID,
		UserID:           req.UserID,
		OriginTeam:       req.OriginTeam,
		TargetSegmentIDs: targetSegments,
		ImpactSegmentIDs: impactSegments,
		Attachments:      attachments,
	}
	if req.ProposalID != nil {
		draft.ProposalID = *req.ProposalID
	}

	result, err := h.Upserts.UpsertProposal(ctx, commands.UpsertProposalCommand{Draft: draft})
	if err != nil {
		return httptransport.UpsertProposalResponse{}, err
	}
	message := "Propuesta actualizada"
	if result.Created {
		message = "Propuesta creada"
	}
	return httptransport.UpsertProposalResponse{
		ProposalID: result.Proposal.ProposalID,
		Version:    result.Proposal.Version,
		Checksum:   base64.StdEncoding.EncodeToString(result.Proposal.Checksum),
		Message:    message,
	}, nil
}

func (h Handler) ReviewProposalHandler(ctx context.Context, req httptransport.ReviewProposalRequest) (httptransport.ReviewProposalResponse, error) {
	result, err := h.Reviews.ReviewProposal(ctx, commands.ReviewProposalCommand{
		ProposalID: req.ProposalID,
		ReviewerID: req.ReviewerID,
		Outcome:    req.Outcome,
		Comments:   req.Comments,
		ReviewType: req.ReviewType,
	})
	if err != nil {
		return httptransport.ReviewProposalResponse{}, err
	}
	return httptransport.ReviewProposalResponse{
		Status:  "success",
		Message: result.Message,
	}, nil
}

func parseSegmentList(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func parseAttachments(raw string) ([]entities.AttachmentDraft, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var payloads []httptransport.AttachmentPayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, err
	}
	attachments := make([]entities.AttachmentDraft, 0, len(payloads))
	for _, payload := range payloads {
		attachments = append(attachments, entities.AttachmentDraft{
			Name:    payload.Name,
			TypeID:  payload.TypeID,
			LegalID: payload.LegalID,
		})
	}
	return attachments, nil
}
