package handlers

import (
	"context"

	"github.com/spec-kit/school-service/internal/api/dto"
	"github.com/spec-kit/school-service/internal/pipeline"
	"github.com/spec-kit/school-service/internal/service"
)

// ClassroomsHandler exposes classrooms under /v1/schools/:schoolId.
type ClassroomsHandler struct {
	classrooms *service.ClassroomService
}

// NewClassroomsHandler constructs handler.
func NewClassroomsHandler(classrooms *service.ClassroomService) *ClassroomsHandler {
	return &ClassroomsHandler{classrooms: classrooms}
}

func (h *ClassroomsHandler) Create(ctx context.Context, req pipeline.Request[dto.CreateClassroomRequest]) (any, error) {
	classroom, err := h.classrooms.Create(ctx, req.Param("schoolId"), req.Input.Input())
	if err != nil {
		return nil, err
	}
	return dto.NewClassroomResponse(classroom), nil
}

func (h *ClassroomsHandler) List(ctx context.Context, req pipeline.Request[dto.ListQuery]) (any, error) {
	page, err := h.classrooms.List(ctx, req.Param("schoolId"), req.Input.Options())
	if err != nil {
		return nil, err
	}
	return dto.PageOf(page, dto.NewClassroomResponse), nil
}

func (h *ClassroomsHandler) Get(ctx context.Context, req pipeline.Request[struct{}]) (any, error) {
	classroom, err := h.classrooms.Get(ctx, req.Param("schoolId"), req.Param("classroomId"))
	if err != nil {
		return nil, err
	}
	return dto.NewClassroomResponse(classroom), nil
}

func (h *ClassroomsHandler) Update(ctx context.Context, req pipeline.Request[dto.UpdateClassroomRequest]) (any, error) {
	classroom, err := h.classrooms.Update(ctx, req.Param("schoolId"), req.Param("classroomId"), req.Input.Patch())
	if err != nil {
		return nil, err
	}
	return dto.NewClassroomResponse(classroom), nil
}

func (h *ClassroomsHandler) Delete(ctx context.Context, req pipeline.Request[struct{}]) (any, error) {
	if err := h.classrooms.Delete(ctx, req.Param("schoolId"), req.Param("classroomId")); err != nil {
		return nil, err
	}
	return dto.DeletedResponse{Deleted: true}, nil
}
