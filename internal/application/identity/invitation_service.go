package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/stockflow/backend/internal/domain/identity"
	"github.com/stockflow/backend/internal/domain/shared"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
	"go.uber.org/zap"
)

// InvitationService manages team membership of the tenant in context
type InvitationService struct {
	users  identity.UserRepository
	logger *zap.Logger
}

// NewInvitationService creates a new InvitationService
func NewInvitationService(users identity.UserRepository, logger *zap.Logger) *InvitationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvitationService{users: users, logger: logger}
}

// Invite creates a pending member in the tenant of the request context.
// The inviting user, when known, is recorded on the invitation.
func (s *InvitationService) Invite(ctx context.Context, req InviteMemberRequest) (*InvitationResponse, error) {
	tenantID, ok := tenantctx.TenantUUID(ctx)
	if !ok {
		return nil, shared.ErrTenantRequired
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A member with this email already exists")
	}

	var invitedBy *uuid.UUID
	if raw, ok := tenantctx.UserID(ctx); ok {
		if id, err := uuid.Parse(raw); err == nil {
			invitedBy = &id
		}
	}

	user, err := identity.NewInvitedUser(tenantID, req.Email, req.Name, identity.Role(req.Role), invitedBy)
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Member invited",
		zap.String("member_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)
	return &InvitationResponse{
		MemberResponse: ToMemberResponse(user),
		InviteToken:    user.InviteToken,
	}, nil
}

// Accept activates the invitation identified by token. It runs without a
// tenant context; the token identifies the tenant.
func (s *InvitationService) Accept(ctx context.Context, req AcceptInvitationRequest) (*MemberResponse, error) {
	user, err := s.users.FindByInviteToken(ctx, req.Token)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("NOT_FOUND", "Invitation not found or already used")
		}
		return nil, err
	}

	if err := user.AcceptInvitation(req.Password); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("Invitation accepted",
		zap.String("member_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()),
	)
	resp := ToMemberResponse(user)
	return &resp, nil
}

// ListMembers lists the members of the tenant in context
func (s *InvitationService) ListMembers(ctx context.Context, filter shared.Filter) ([]MemberResponse, int64, error) {
	if _, ok := tenantctx.TenantUUID(ctx); !ok {
		return nil, 0, shared.ErrTenantRequired
	}
	users, total, err := s.users.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	members := make([]MemberResponse, 0, len(users))
	for i := range users {
		members = append(members, ToMemberResponse(&users[i]))
	}
	return members, total, nil
}
