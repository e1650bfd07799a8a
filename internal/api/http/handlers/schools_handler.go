package handlers

import (
	"context"

	"github.com/spec-kit/school-service/internal/api/dto"
	"github.com/spec-kit/school-service/internal/pipeline"
	"github.com/spec-kit/school-service/internal/service"
)

// SchoolsHandler exposes school management to the superadmin.
type SchoolsHandler struct {
	schools *service.SchoolService
}

// NewSchoolsHandler constructs handler.
func NewSchoolsHandler(schools *service.SchoolService) *SchoolsHandler {
	return &SchoolsHandler{schools: schools}
}

func (h *SchoolsHandler) Create(ctx context.Context, req pipeline.Request[dto.CreateSchoolRequest]) (any, error) {
	school, err := h.schools.Create(ctx, *req.Principal, req.Input.Input())
	if err != nil {
		return nil, err
	}
	return dto.NewSchoolResponse(school), nil
}

func (h *SchoolsHandler) List(ctx context.Context, req pipeline.Request[dto.ListQuery]) (any, error) {
	page, err := h.schools.List(ctx, req.Input.Options())
	if err != nil {
		return nil, err
	}
	return dto.PageOf(page, dto.NewSchoolResponse), nil
}

func (h *SchoolsHandler) Get(ctx context.Context, req pipeline.Request[struct{}]) (any, error) {
	school, err := h.schools.Get(ctx, req.Param("id"))
	if err != nil {
		return nil, err
	}
	return dto.NewSchoolResponse(school), nil
}

func (h *SchoolsHandler) Update(ctx context.Context, req pipeline.Request[dto.UpdateSchoolRequest]) (any, error) {
	school, err := h.schools.Update(ctx, req.Param("id"), req.Input.Patch())
	if err != nil {
		return nil, err
	}
	return dto.NewSchoolResponse(school), nil
}

func (h *SchoolsHandler) Delete(ctx context.Context, req pipeline.Request[struct{}]) (any, error) {
	if err := h.schools.Delete(ctx, *req.Principal, req.Param("id")); err != nil {
		return nil, err
	}
	return dto.DeletedResponse{Deleted: true}, nil
}
