package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/stockflow/backend/internal/application/identity"
)

// TeamHandler handles invitations and team members
type TeamHandler struct {
	BaseHandler
	invitationService *identityapp.InvitationService
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(invitationService *identityapp.InvitationService) *TeamHandler {
	return &TeamHandler{invitationService: invitationService}
}

// Invite invites a member into the current tenant
func (h *TeamHandler) Invite(c *gin.Context) {
	var req identityapp.InviteMemberRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.invitationService.Invite(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// AcceptInvitation activates an invitation. The route is public.
func (h *TeamHandler) AcceptInvitation(c *gin.Context) {
	var req identityapp.AcceptInvitationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.invitationService.Accept(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListMembers lists the members of the current tenant
func (h *TeamHandler) ListMembers(c *gin.Context) {
	list, ok := h.bindList(c)
	if !ok {
		return
	}
	members, total, err := h.invitationService.ListMembers(c.Request.Context(), list.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, members, total, list.Page, list.PageSize)
}
