package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/memberportal/internal/common"
	"github.com/dmitrijs2005/memberportal/internal/directoryapi"
	"github.com/dmitrijs2005/memberportal/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Record field names on the wire. They match the client's logical names.
const (
	fieldEmail          = "email"
	fieldCredentialHash = "credential_hash"
	fieldGivenName      = "given_name"
	fieldFamilyName     = "family_name"
	fieldPhone          = "phone"
)

func memberToStruct(m *models.Member) *structpb.Struct {
	return directoryapi.FromStrings(map[string]string{
		directoryapi.KeyID:  m.ID,
		fieldEmail:          m.Email,
		fieldCredentialHash: m.CredentialHash,
		fieldGivenName:      m.GivenName,
		fieldFamilyName:     m.FamilyName,
		fieldPhone:          m.Phone,
	})
}

func (s *DirectoryServer) FindByEmail(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	m, err := s.members.FindByEmail(ctx, req.GetValue())
	if err != nil {
		return nil, s.mapError(ctx, "find by email", err)
	}
	return memberToStruct(m), nil
}

func (s *DirectoryServer) Create(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := directoryapi.StringFields(req)

	m, err := s.members.Create(ctx, &models.Member{
		Email:          f[fieldEmail],
		CredentialHash: f[fieldCredentialHash],
		GivenName:      f[fieldGivenName],
		FamilyName:     f[fieldFamilyName],
		Phone:          f[fieldPhone],
	})
	if err != nil {
		return nil, s.mapError(ctx, "create", err)
	}

	s.logger.Info(ctx, "member created", "member_id", m.ID)
	return memberToStruct(m), nil
}

func (s *DirectoryServer) Patch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, fields := directoryapi.SplitPatchRequest(req)

	patch, err := profilePatch(fields)
	if err != nil {
		return nil, s.mapError(ctx, "patch", err)
	}

	m, err := s.members.Patch(ctx, id, patch)
	if err != nil {
		return nil, s.mapError(ctx, "patch", err)
	}

	s.logger.Info(ctx, "member profile updated", "member_id", m.ID)
	return memberToStruct(m), nil
}

func (s *DirectoryServer) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.members.Ping(ctx); err != nil {
		s.logger.Warn(ctx, "database ping failed", "error", err)
		return nil, status.Error(codes.Unavailable, "database unavailable")
	}
	return &emptypb.Empty{}, nil
}

// profilePatch keeps only the mutable profile columns. Email and the
// credential hash cannot be changed through Patch.
func profilePatch(fields map[string]string) (models.ProfilePatch, error) {
	var p models.ProfilePatch
	for k, v := range fields {
		switch k {
		case fieldGivenName:
			p.GivenName = &v
		case fieldFamilyName:
			p.FamilyName = &v
		case fieldPhone:
			p.Phone = &v
		default:
			return models.ProfilePatch{}, fmt.Errorf("%w: field %q is not writable", common.ErrValidation, k)
		}
	}
	return p, nil
}

func (s *DirectoryServer) mapError(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "member not found")
	case errors.Is(err, common.ErrEmailAlreadyUsed):
		return status.Error(codes.AlreadyExists, "email already used")
	case errors.Is(err, common.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	s.logger.Error(ctx, op+" failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
